package utils

import (
	"testing"
	"time"

	"gig-roster-api/core/config"
	"gig-roster-api/core/constants"
	apperrors "gig-roster-api/core/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.Set(&config.Config{JWT: config.JWTConfig{Secret: "test-secret"}})
}

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "alex@example.com", constants.ScopeTokenAccess, time.Hour)
	require.NoError(t, err)

	data, appErr := ValidateAndParseToken(token)
	require.Nil(t, appErr)
	assert.Equal(t, userID, data.UserID)
	assert.Equal(t, "alex@example.com", data.Email)
	assert.Equal(t, constants.ScopeTokenAccess, data.Scope)
}

func TestValidateTokenCarriesScope(t *testing.T) {
	// the middleware gates on scope, so a refresh token must round-trip as one
	token, err := GenerateToken(uuid.New(), "alex@example.com", constants.ScopeTokenRefresh, time.Hour)
	require.NoError(t, err)

	data, appErr := ValidateAndParseToken(token)
	require.Nil(t, appErr)
	assert.Equal(t, constants.ScopeTokenRefresh, data.Scope)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "alex@example.com", constants.ScopeTokenAccess, -time.Minute)
	require.NoError(t, err)

	_, appErr := ValidateAndParseToken(token)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrTokenExpired, appErr.Code)
}

func TestInviteTokenRoundTrip(t *testing.T) {
	roleID := uuid.New()

	token, jti, err := GenerateInviteToken(roleID, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	parsedRole, parsedJTI, appErr := ParseInviteToken(token)
	require.Nil(t, appErr)
	assert.Equal(t, roleID, parsedRole)
	assert.Equal(t, jti, parsedJTI)
}

func TestParseInviteTokenRejectsBearerToken(t *testing.T) {
	// an API bearer token is signed with the same key but the wrong scope
	token, err := GenerateToken(uuid.New(), "alex@example.com", constants.ScopeTokenAccess, time.Hour)
	require.NoError(t, err)

	_, _, appErr := ParseInviteToken(token)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidTokenFormat, appErr.Code)
}

func TestParseInviteTokenExpired(t *testing.T) {
	token, _, err := GenerateInviteToken(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, _, appErr := ParseInviteToken(token)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrExpired, appErr.Code)
}
