package service

import (
	"context"
	"strings"
	"testing"

	"gig-roster-api/core/errors"
	"gig-roster-api/modules/gig/dto"
	"gig-roster-api/modules/gig/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGigPublicSlug(t *testing.T) {
	repo := newFakeGigRepo()
	svc := NewGigService(repo, &fakeCalendarGateway{})
	ownerID := uuid.New()

	resp, appErr := svc.CreateGig(context.Background(), ownerID, &dto.CreateGigRequest{
		Title:    "Summer Ball 2026!",
		Date:     "2026-05-01",
		IsPublic: true,
	})
	require.Nil(t, appErr)
	require.NotNil(t, resp.PublicSlug)
	assert.True(t, strings.HasPrefix(*resp.PublicSlug, "summer-ball-2026-"))
}

func TestCreateGigRejectsBadSchedule(t *testing.T) {
	repo := newFakeGigRepo()
	svc := NewGigService(repo, &fakeCalendarGateway{})

	_, appErr := svc.CreateGig(context.Background(), uuid.New(), &dto.CreateGigRequest{
		Title: "Bad",
		Date:  "May 1st",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidSchedule, appErr.Code)

	_, appErr = svc.CreateGig(context.Background(), uuid.New(), &dto.CreateGigRequest{
		Title:     "Bad",
		Date:      "2026-05-01",
		StartTime: strp("8pm"),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidSchedule, appErr.Code)
}

func TestGetGigVisibility(t *testing.T) {
	repo := newFakeGigRepo()
	svc := NewGigService(repo, &fakeCalendarGateway{})
	ownerID := uuid.New()
	gig := repo.addGig(&entity.Gig{OwnerID: ownerID, Title: "Duo Night", Date: "2026-05-01"})

	_, appErr := svc.GetGig(context.Background(), ownerID, gig.ID)
	assert.Nil(t, appErr)

	// a stranger is rejected, a lineup member is allowed
	_, appErr = svc.GetGig(context.Background(), uuid.New(), gig.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	repo.lineupMember = true
	_, appErr = svc.GetGig(context.Background(), uuid.New(), gig.ID)
	assert.Nil(t, appErr)
}

func TestAddRoleNeedsRecipient(t *testing.T) {
	repo := newFakeGigRepo()
	svc := NewGigService(repo, &fakeCalendarGateway{})
	ownerID := uuid.New()
	gig := repo.addGig(&entity.Gig{OwnerID: ownerID, Title: "Duo Night", Date: "2026-05-01"})

	_, appErr := svc.AddRole(context.Background(), ownerID, gig.ID, &dto.AddRoleRequest{RoleName: "Bass"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	musicianID := uuid.New().String()
	role, appErr := svc.AddRole(context.Background(), ownerID, gig.ID, &dto.AddRoleRequest{
		RoleName:   "Bass",
		MusicianID: &musicianID,
	})
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.InvitationStatusPending), role.InvitationStatus)
}

func TestDeleteGigCleansUpRemoteArtifacts(t *testing.T) {
	repo := newFakeGigRepo()
	gateway := &fakeCalendarGateway{}
	svc := NewGigService(repo, gateway)
	ownerID := uuid.New()
	gig := repo.addGig(&entity.Gig{OwnerID: ownerID, Title: "Summer Ball", Date: "2026-05-01"})
	role := repo.addRole(&entity.GigRole{GigID: gig.ID, RoleName: "Drums", CalendarEventID: strp("evt-1")})

	appErr := svc.DeleteGig(context.Background(), ownerID, gig.ID)
	require.Nil(t, appErr)
	assert.Equal(t, []string{"evt-1"}, gateway.deletedEvents)
	assert.Equal(t, []uuid.UUID{role.ID}, gateway.removedWatches)
	assert.Contains(t, repo.deletedGigs, gig.ID)
}

func TestDeleteGigSurvivesRemoteFailure(t *testing.T) {
	repo := newFakeGigRepo()
	gateway := &fakeCalendarGateway{deleteErr: errors.NewAppError(errors.ErrRemoteTransient, "down", nil)}
	svc := NewGigService(repo, gateway)
	ownerID := uuid.New()
	gig := repo.addGig(&entity.Gig{OwnerID: ownerID, Title: "Summer Ball", Date: "2026-05-01"})
	repo.addRole(&entity.GigRole{GigID: gig.ID, RoleName: "Drums", CalendarEventID: strp("evt-1")})

	appErr := svc.DeleteGig(context.Background(), ownerID, gig.ID)
	require.Nil(t, appErr)
	assert.Contains(t, repo.deletedGigs, gig.ID)
}
