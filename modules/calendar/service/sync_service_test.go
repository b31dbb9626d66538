package service

import (
	"context"
	"os"
	"testing"
	"time"

	apperrors "gig-roster-api/core/errors"
	"gig-roster-api/modules/calendar/dto"
	"gig-roster-api/modules/calendar/entity"
	gigentity "gig-roster-api/modules/gig/entity"
	gigservice "gig-roster-api/modules/gig/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Clock-string derivation goes through the process-local zone; pin it so
	// assertions hold everywhere.
	time.Local = time.UTC
	os.Exit(m.Run())
}

// fakeCalendar is a canned CalendarServiceInterface for sync tests.
type fakeCalendar struct {
	events   map[string]*dto.GoogleEvent
	eventErr *apperrors.AppError
}

func (f *fakeCalendar) SaveGoogleConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalendar) GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalendar) UpdateConnectionSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateConnectionSettingsRequest) (*dto.CalendarConnectionResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalendar) DisconnectCalendar(ctx context.Context, userID uuid.UUID) *apperrors.AppError {
	return nil
}
func (f *fakeCalendar) HasInviteAccess(ctx context.Context, userID uuid.UUID) (bool, *apperrors.AppError) {
	return true, nil
}
func (f *fakeCalendar) CreateEventForUser(ctx context.Context, userID uuid.UUID, input *dto.GoogleEventInput, sendUpdates bool) (*dto.GoogleEvent, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalendar) GetEventForUser(ctx context.Context, userID uuid.UUID, eventID string) (*dto.GoogleEvent, *apperrors.AppError) {
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	event, ok := f.events[eventID]
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrRemoteNotFound, "not found", nil)
	}
	return event, nil
}
func (f *fakeCalendar) DeleteEventForUser(ctx context.Context, userID uuid.UUID, eventID string) *apperrors.AppError {
	return nil
}
func (f *fakeCalendar) ListEventsForDay(ctx context.Context, userID uuid.UUID, date string) ([]dto.GoogleEvent, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalendar) ListBusyIntervals(ctx context.Context, userID uuid.UUID, date string) ([]gigservice.BusyInterval, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalendar) RegisterEventWatch(ctx context.Context, userID uuid.UUID, roleID uuid.UUID, eventID string) *apperrors.AppError {
	return nil
}
func (f *fakeCalendar) ResolveWatch(ctx context.Context, channelID string) (*entity.WatchRegistration, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalendar) RemoveWatchForRole(ctx context.Context, roleID uuid.UUID) *apperrors.AppError {
	return nil
}

func externalGig(ownerID uuid.UUID, eventID string) *gigentity.Gig {
	g := &gigentity.Gig{
		OwnerID:         ownerID,
		Title:           "Summer Ball",
		Date:            "2026-05-01",
		StartTime:       strp("20:00"),
		EndTime:         strp("23:00"),
		IsExternal:      true,
		ExternalEventID: &eventID,
	}
	g.ID = uuid.New()
	return g
}

func matchingEvent() *dto.GoogleEvent {
	return &dto.GoogleEvent{
		ID:      "evt-1",
		Status:  "confirmed",
		Summary: "Summer Ball",
		Start:   &dto.EventTime{DateTime: "2026-05-01T20:00:00Z"},
		End:     &dto.EventTime{DateTime: "2026-05-01T23:00:00Z"},
	}
}

func TestDiffAgainstRemoteNoDrift(t *testing.T) {
	gig := externalGig(uuid.New(), "evt-1")
	changes := diffAgainstRemote(gig, matchingEvent())
	assert.Empty(t, changes)
}

func TestDiffAgainstRemoteDetectsFieldChanges(t *testing.T) {
	gig := externalGig(uuid.New(), "evt-1")
	event := matchingEvent()
	event.Summary = "Summer Ball (moved)"
	event.Location = "Blue Note"
	event.End = &dto.EventTime{DateTime: "2026-05-01T23:45:00Z"}

	changes := diffAgainstRemote(gig, event)

	byField := map[string]dto.DriftChange{}
	for _, change := range changes {
		byField[change.Field] = change
	}
	require.Len(t, byField, 3)
	assert.Equal(t, "Summer Ball (moved)", *byField["title"].Remote)
	assert.Equal(t, "Blue Note", *byField["venue"].Remote)
	assert.Equal(t, "23:45", *byField["end"].Remote)
	assert.Equal(t, "23:00", *byField["end"].Local)
}

func TestDiffAgainstRemoteNilAndEmptyAreEqual(t *testing.T) {
	gig := externalGig(uuid.New(), "evt-1")
	empty := ""
	gig.Notes = &empty

	changes := diffAgainstRemote(gig, matchingEvent())
	assert.Empty(t, changes)
}

func TestRefreshRejectsLocalGig(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeGigStore()
	gig := &gigentity.Gig{OwnerID: ownerID, Title: "Local Only", Date: "2026-05-01"}
	gig.ID = uuid.New()
	repo.gigs[gig.ID] = gig

	svc := NewSyncService(&fakeCalendar{}, repo)
	_, appErr := svc.Refresh(context.Background(), ownerID, gig.ID, false)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
}

func TestRefreshCancelledRemoteEvent(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeGigStore()
	gig := externalGig(ownerID, "evt-1")
	repo.gigs[gig.ID] = gig

	event := matchingEvent()
	event.Status = "cancelled"
	cal := &fakeCalendar{events: map[string]*dto.GoogleEvent{"evt-1": event}}

	svc := NewSyncService(cal, repo)
	_, appErr := svc.Refresh(context.Background(), ownerID, gig.ID, false)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrRemoteNotFound, appErr.Code)
}

func TestRefreshAppliesOnlyDriftedColumns(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeGigStore()
	gig := externalGig(ownerID, "evt-1")
	repo.gigs[gig.ID] = gig

	event := matchingEvent()
	event.Summary = "Summer Ball (moved)"
	cal := &fakeCalendar{events: map[string]*dto.GoogleEvent{"evt-1": event}}

	svc := NewSyncService(cal, repo)
	result, appErr := svc.Refresh(context.Background(), ownerID, gig.ID, true)
	require.Nil(t, appErr)
	assert.True(t, result.HasChanges)
	assert.True(t, result.Applied)

	fields := repo.updatedFields[gig.ID]
	require.Len(t, fields, 1)
	assert.Equal(t, "Summer Ball (moved)", fields["title"])
}

func TestRefreshNoDriftDoesNotWrite(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeGigStore()
	gig := externalGig(ownerID, "evt-1")
	repo.gigs[gig.ID] = gig
	cal := &fakeCalendar{events: map[string]*dto.GoogleEvent{"evt-1": matchingEvent()}}

	svc := NewSyncService(cal, repo)
	result, appErr := svc.Refresh(context.Background(), ownerID, gig.ID, true)
	require.Nil(t, appErr)
	assert.False(t, result.HasChanges)
	assert.False(t, result.Applied)
	assert.Empty(t, repo.updatedFields)
}

func TestSyncAllCollectsFailures(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeGigStore()

	healthy := externalGig(ownerID, "evt-1")
	repo.gigs[healthy.ID] = healthy
	broken := externalGig(ownerID, "evt-gone")
	repo.gigs[broken.ID] = broken

	cal := &fakeCalendar{events: map[string]*dto.GoogleEvent{"evt-1": matchingEvent()}}
	svc := NewSyncService(cal, repo)

	result, appErr := svc.SyncAll(context.Background(), ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, 2, result.Checked)
	assert.Len(t, result.Failures, 1)
}

func TestSyncAllAbortsWhenDisconnected(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeGigStore()
	gig := externalGig(ownerID, "evt-1")
	repo.gigs[gig.ID] = gig

	cal := &fakeCalendar{eventErr: apperrors.NewAppError(apperrors.ErrCalendarNotConnected, "not connected", nil)}
	svc := NewSyncService(cal, repo)

	_, appErr := svc.SyncAll(context.Background(), ownerID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCalendarNotConnected, appErr.Code)
}
