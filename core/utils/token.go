package utils

import (
	"errors"
	"fmt"
	"time"

	"gig-roster-api/core/config"
	"gig-roster-api/core/constants"
	apperrors "gig-roster-api/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenData is the authenticated identity carried through request context.
type TokenData struct {
	UserID uuid.UUID
	Email  string
	Scope  string
}

type accessClaims struct {
	Email string `json:"email,omitempty"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

type inviteClaims struct {
	RoleID string `json:"role_id"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

func signingSecret() ([]byte, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, fmt.Errorf("config not initialized")
	}
	return []byte(cfg.JWT.Secret), nil
}

// GenerateToken issues an API bearer token for a user.
func GenerateToken(userID uuid.UUID, email string, scope string, ttl time.Duration) (string, error) {
	secret, err := signingSecret()
	if err != nil {
		return "", err
	}

	claims := accessClaims{
		Email: email,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAndParseToken verifies an API bearer token and extracts its identity.
func ValidateAndParseToken(token string) (*TokenData, *apperrors.AppError) {
	secret, err := signingSecret()
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "token verification unavailable", err)
	}

	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewAppError(apperrors.ErrTokenExpired, "token expired", err)
		}
		return nil, apperrors.NewAppError(apperrors.ErrInvalidTokenFormat, "invalid token", err)
	}
	if !parsed.Valid {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidTokenFormat, "invalid token", nil)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidTokenFormat, "invalid token subject", err)
	}

	return &TokenData{
		UserID: userID,
		Email:  claims.Email,
		Scope:  claims.Scope,
	}, nil
}

// GenerateInviteToken issues a magic-link token for a gig role. The jti is
// returned separately so the caller can use it as the single-use marker.
func GenerateInviteToken(roleID uuid.UUID, ttl time.Duration) (token string, jti string, err error) {
	secret, err := signingSecret()
	if err != nil {
		return "", "", err
	}

	jti = uuid.NewString()
	claims := inviteClaims{
		RoleID: roleID.String(),
		Scope:  constants.ScopeTokenInvite,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return token, jti, err
}

// ParseInviteToken verifies a magic-link token and returns the role it was
// issued for plus its jti.
func ParseInviteToken(token string) (uuid.UUID, string, *apperrors.AppError) {
	secret, err := signingSecret()
	if err != nil {
		return uuid.Nil, "", apperrors.NewAppError(apperrors.ErrInternalServer, "token verification unavailable", err)
	}

	claims := &inviteClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", apperrors.NewAppError(apperrors.ErrExpired, "invitation link expired", err)
		}
		return uuid.Nil, "", apperrors.NewAppError(apperrors.ErrInvalidTokenFormat, "invalid invitation token", err)
	}
	if !parsed.Valid || claims.Scope != constants.ScopeTokenInvite {
		return uuid.Nil, "", apperrors.NewAppError(apperrors.ErrInvalidTokenFormat, "invalid invitation token", nil)
	}

	roleID, err := uuid.Parse(claims.RoleID)
	if err != nil {
		return uuid.Nil, "", apperrors.NewAppError(apperrors.ErrInvalidTokenFormat, "invalid invitation token", err)
	}

	return roleID, claims.ID, nil
}
