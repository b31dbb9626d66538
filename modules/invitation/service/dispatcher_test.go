package service

import (
	"context"
	"strings"
	"testing"

	"gig-roster-api/core/config"
	apperrors "gig-roster-api/core/errors"
	gigentity "gig-roster-api/modules/gig/entity"
	"gig-roster-api/modules/invitation/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://app.example.com"

type dispatchFixture struct {
	store  *fakeRoleStore
	repo   *fakeInviteRepo
	cal    *fakeCalSvc
	mailer *fakeMailer
	notif  *fakeNotifier
	svc    *DispatcherService
}

func newDispatchFixture() *dispatchFixture {
	store := newFakeRoleStore()
	repo := newFakeInviteRepo(store)
	cal := &fakeCalSvc{hasAccess: true}
	mailer := &fakeMailer{}
	notif := &fakeNotifier{}
	cfg := &config.Config{App: config.AppConfig{BaseURL: testBaseURL}}
	return &dispatchFixture{
		store:  store,
		repo:   repo,
		cal:    cal,
		mailer: mailer,
		notif:  notif,
		svc:    NewDispatcherService(repo, &fakeGigSvc{store: store}, store, cal, mailer, notif, cfg),
	}
}

func (f *dispatchFixture) seedGig() (*gigentity.Gig, uuid.UUID) {
	ownerID := uuid.New()
	gig := f.store.addGig(&gigentity.Gig{
		OwnerID:   ownerID,
		OwnerName: strp("Alex"),
		Title:     "Summer Ball",
		VenueName: strp("The Grand"),
		Date:      "2026-05-01",
		StartTime: strp("20:00"),
		EndTime:   strp("23:00"),
	})
	return gig, ownerID
}

func TestSendInvitesCalendarPath(t *testing.T) {
	f := newDispatchFixture()
	gig, ownerID := f.seedGig()
	musicianID := uuid.New()
	f.store.addRole(&gigentity.GigRole{
		GigID:         gig.ID,
		RoleName:      "Drums",
		MusicianID:    &musicianID,
		MusicianEmail: strp("dana@example.com"),
	})
	f.store.addRole(&gigentity.GigRole{
		GigID:        gig.ID,
		RoleName:     "Tenor Sax",
		ContactEmail: strp("robin@example.com"),
	})

	resp, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.Nil(t, appErr)
	assert.Equal(t, 2, resp.Sent)
	assert.Equal(t, 0, resp.Failed)

	require.Len(t, f.repo.marked, 2)
	for _, call := range f.repo.marked {
		assert.Equal(t, gigentity.InviteMethodCalendar, call.Method)
		require.NotNil(t, call.EventID)
		assert.Equal(t, "evt-created", *call.EventID)
	}
	assert.Len(t, f.cal.watches, 2)
	assert.Len(t, f.repo.history, 2)

	var attendees []string
	for _, input := range f.cal.created {
		require.Len(t, input.Attendees, 1)
		attendees = append(attendees, input.Attendees[0].Email)
	}
	assert.ElementsMatch(t, []string{"dana@example.com", "robin@example.com"}, attendees)

	// only the registered musician gets an in-app notification
	require.Len(t, f.notif.sent, 1)
	assert.Equal(t, musicianID, f.notif.sent[0].UserID)
}

func TestSendInvitesSkipsSlotsAlreadyInvited(t *testing.T) {
	f := newDispatchFixture()
	gig, ownerID := f.seedGig()
	method := gigentity.InviteMethodEmail
	f.store.addRole(&gigentity.GigRole{
		GigID:            gig.ID,
		RoleName:         "Keys",
		ContactEmail:     strp("sam@example.com"),
		InvitationMethod: &method,
		InvitationStatus: gigentity.InvitationStatusInvited,
	})

	resp, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.Nil(t, appErr)
	assert.Empty(t, resp.Results)
	assert.Empty(t, f.repo.marked)
}

func TestSendInvitesNoAddressFailsOnlyThatSlot(t *testing.T) {
	f := newDispatchFixture()
	gig, ownerID := f.seedGig()
	f.store.addRole(&gigentity.GigRole{GigID: gig.ID, RoleName: "Bass"})
	f.store.addRole(&gigentity.GigRole{GigID: gig.ID, RoleName: "Keys", ContactEmail: strp("sam@example.com")})

	resp, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.Nil(t, appErr)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Failed)

	for _, result := range resp.Results {
		if !result.Success {
			assert.Equal(t, "No email address for this slot", result.Error)
		}
	}
	require.Len(t, f.repo.marked, 1)
}

func TestSendInvitesEmailOverride(t *testing.T) {
	f := newDispatchFixture()
	gig, ownerID := f.seedGig()
	role := f.store.addRole(&gigentity.GigRole{GigID: gig.ID, RoleName: "Bass"})

	resp, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{
		EmailOverrides: map[string]string{role.ID.String(): "dep@example.com"},
	})
	require.Nil(t, appErr)
	assert.Equal(t, 1, resp.Sent)
	require.Len(t, f.cal.created, 1)
	assert.Equal(t, "dep@example.com", f.cal.created[0].Attendees[0].Email)
}

func TestSendInvitesFallsBackToEmail(t *testing.T) {
	f := newDispatchFixture()
	f.cal.createErr = apperrors.NewAppError(apperrors.ErrRemoteTransient, "provider down", nil)
	gig, ownerID := f.seedGig()
	f.store.addRole(&gigentity.GigRole{
		GigID:        gig.ID,
		RoleName:     "Tenor Sax",
		ContactName:  strp("Robin"),
		ContactEmail: strp("robin@example.com"),
	})

	resp, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.Nil(t, appErr)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, gigentity.InviteMethodEmail, resp.Results[0].Method)

	require.Len(t, f.repo.marked, 1)
	assert.Equal(t, gigentity.InviteMethodEmail, f.repo.marked[0].Method)
	require.NotNil(t, f.repo.marked[0].TokenHash)

	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, "robin@example.com", mail.To)
	require.True(t, strings.HasPrefix(mail.MagicLink, testBaseURL+"/invite/"))

	// the stored hash must match the token embedded in the magic link, even
	// though the signed token itself exceeds bcrypt's 72-byte input limit
	token := strings.TrimPrefix(mail.MagicLink, testBaseURL+"/invite/")
	require.Greater(t, len(token), 72)
	assert.NoError(t, compareInviteToken(*f.repo.marked[0].TokenHash, token))
}

func TestSendInvitesReportsBothChannelFailures(t *testing.T) {
	f := newDispatchFixture()
	f.cal.createErr = apperrors.NewAppError(apperrors.ErrRemotePermanent, "event rejected", nil)
	f.mailer.sendErr = assert.AnError
	gig, ownerID := f.seedGig()
	f.store.addRole(&gigentity.GigRole{GigID: gig.ID, RoleName: "Bass", ContactEmail: strp("sam@example.com")})

	resp, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.Nil(t, appErr)
	assert.Equal(t, 1, resp.Failed)
	assert.Contains(t, resp.Results[0].Error, "calendar invite failed")
	assert.Contains(t, resp.Results[0].Error, "email fallback failed")
	assert.Empty(t, f.repo.marked)
}

func TestSendInvitesEmailFailureLeavesSlotRetryable(t *testing.T) {
	f := newDispatchFixture()
	f.cal.createErr = apperrors.NewAppError(apperrors.ErrRemoteTransient, "provider down", nil)
	f.mailer.sendErr = assert.AnError
	gig, ownerID := f.seedGig()
	role := f.store.addRole(&gigentity.GigRole{GigID: gig.ID, RoleName: "Bass", ContactEmail: strp("sam@example.com")})

	resp, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.Nil(t, appErr)
	assert.Equal(t, 1, resp.Failed)

	// nothing was persisted, so the slot is still a dispatch candidate
	assert.Empty(t, f.repo.marked)
	assert.Nil(t, f.store.roles[role.ID].InvitationMethod)
	assert.Equal(t, gigentity.InvitationStatusPending, f.store.roles[role.ID].InvitationStatus)

	f.mailer.sendErr = nil
	resp, appErr = f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.Nil(t, appErr)
	assert.Equal(t, 1, resp.Sent)
	require.Len(t, f.repo.marked, 1)
	assert.Equal(t, gigentity.InviteMethodEmail, f.repo.marked[0].Method)
}

func TestSendInvitesRequiresInviteAccess(t *testing.T) {
	f := newDispatchFixture()
	f.cal.hasAccess = false
	gig, ownerID := f.seedGig()
	f.store.addRole(&gigentity.GigRole{GigID: gig.ID, RoleName: "Bass", ContactEmail: strp("sam@example.com")})

	_, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCalendarNotConnected, appErr.Code)
	assert.Empty(t, f.repo.marked)
	assert.Empty(t, f.mailer.sent)
}

func TestSendInvitesWatchFailureIsBestEffort(t *testing.T) {
	f := newDispatchFixture()
	f.cal.watchErr = apperrors.NewAppError(apperrors.ErrRemoteTransient, "watch quota", nil)
	gig, ownerID := f.seedGig()
	f.store.addRole(&gigentity.GigRole{GigID: gig.ID, RoleName: "Bass", ContactEmail: strp("sam@example.com")})

	resp, appErr := f.svc.SendInvites(context.Background(), ownerID, gig.ID, &dto.SendInvitesRequest{})
	require.Nil(t, appErr)
	assert.Equal(t, 1, resp.Sent)
	assert.Empty(t, f.cal.watches)
}

func TestReinviteDeclinedSlot(t *testing.T) {
	f := newDispatchFixture()
	gig, ownerID := f.seedGig()
	method := gigentity.InviteMethodCalendar
	role := f.store.addRole(&gigentity.GigRole{
		GigID:            gig.ID,
		RoleName:         "Drums",
		ContactEmail:     strp("dana@example.com"),
		InvitationStatus: gigentity.InvitationStatusDeclined,
		InvitationMethod: &method,
		CalendarEventID:  strp("evt-old"),
	})

	result, appErr := f.svc.Reinvite(context.Background(), ownerID, role.ID)
	require.Nil(t, appErr)
	assert.True(t, result.Success)
	assert.Equal(t, gigentity.InviteMethodCalendar, result.Method)

	assert.Equal(t, []uuid.UUID{role.ID}, f.repo.cleared)
	require.Len(t, f.repo.history, 1)
	assert.Equal(t, gigentity.InvitationStatusDeclined, f.repo.history[0].OldStatus)
	assert.Equal(t, gigentity.InvitationStatusInvited, f.repo.history[0].NewStatus)
	assert.Equal(t, gigentity.InvitationStatusInvited, f.store.roles[role.ID].InvitationStatus)
}

func TestReinviteRejectsActiveSlot(t *testing.T) {
	f := newDispatchFixture()
	gig, ownerID := f.seedGig()
	role := f.store.addRole(&gigentity.GigRole{
		GigID:            gig.ID,
		RoleName:         "Drums",
		ContactEmail:     strp("dana@example.com"),
		InvitationStatus: gigentity.InvitationStatusAccepted,
	})

	_, appErr := f.svc.Reinvite(context.Background(), ownerID, role.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	assert.Empty(t, f.repo.cleared)
}

func TestReinviteRequiresOwnership(t *testing.T) {
	f := newDispatchFixture()
	gig, _ := f.seedGig()
	role := f.store.addRole(&gigentity.GigRole{
		GigID:            gig.ID,
		RoleName:         "Drums",
		ContactEmail:     strp("dana@example.com"),
		InvitationStatus: gigentity.InvitationStatusDeclined,
	})

	_, appErr := f.svc.Reinvite(context.Background(), uuid.New(), role.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}
