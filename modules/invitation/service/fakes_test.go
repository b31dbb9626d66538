package service

import (
	"context"
	"sync"
	"time"

	"gig-roster-api/core/config"
	apperrors "gig-roster-api/core/errors"
	calendardto "gig-roster-api/modules/calendar/dto"
	calendarentity "gig-roster-api/modules/calendar/entity"
	gigdto "gig-roster-api/modules/gig/dto"
	gigentity "gig-roster-api/modules/gig/entity"
	gigservice "gig-roster-api/modules/gig/service"
	notifdto "gig-roster-api/modules/notification/dto"

	"github.com/google/uuid"
)

func init() {
	config.Set(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret"},
		App: config.AppConfig{BaseURL: "https://app.example.com"},
	})
}

func strp(s string) *string { return &s }

// ---- invitation repository fake ----

type markInvitedCall struct {
	RoleID    uuid.UUID
	Method    string
	EventID   *string
	TokenHash *string
}

type statusUpdate struct {
	RoleID uuid.UUID
	Status gigentity.InvitationStatus
	Actor  *uuid.UUID
}

type fakeInviteRepo struct {
	mu         sync.Mutex
	roles      *fakeRoleStore
	marked     []markInvitedCall
	cleared    []uuid.UUID
	updates    []statusUpdate
	history    []gigentity.StatusHistoryEntry
	markErr    error
	updateErr  error
	historyErr error
}

func newFakeInviteRepo(roles *fakeRoleStore) *fakeInviteRepo {
	return &fakeInviteRepo{roles: roles}
}

func (f *fakeInviteRepo) MarkInvited(ctx context.Context, roleID uuid.UUID, method string, eventID *string, tokenHash *string, expiresAt *time.Time, actor uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, markInvitedCall{RoleID: roleID, Method: method, EventID: eventID, TokenHash: tokenHash})
	if role, ok := f.roles.roles[roleID]; ok {
		role.InvitationStatus = gigentity.InvitationStatusInvited
		role.InvitationMethod = &method
		role.CalendarEventID = eventID
		role.InviteTokenHash = tokenHash
		role.InviteExpiresAt = expiresAt
	}
	return nil
}

func (f *fakeInviteRepo) ClearInvite(ctx context.Context, roleID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, roleID)
	if role, ok := f.roles.roles[roleID]; ok {
		role.InvitationMethod = nil
		role.CalendarEventID = nil
		role.InviteTokenHash = nil
		role.InviteExpiresAt = nil
	}
	return nil
}

func (f *fakeInviteRepo) UpdateRoleStatus(ctx context.Context, roleID uuid.UUID, status gigentity.InvitationStatus, actor *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, statusUpdate{RoleID: roleID, Status: status, Actor: actor})
	if role, ok := f.roles.roles[roleID]; ok {
		role.InvitationStatus = status
	}
	return nil
}

func (f *fakeInviteRepo) InsertStatusHistory(ctx context.Context, entry *gigentity.StatusHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return f.historyErr
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeInviteRepo) GetStatusHistory(ctx context.Context, roleID uuid.UUID) ([]gigentity.StatusHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []gigentity.StatusHistoryEntry
	for _, entry := range f.history {
		if entry.RoleID == roleID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// ---- gig repository fake ----

type fakeRoleStore struct {
	gigs  map[uuid.UUID]*gigentity.Gig
	roles map[uuid.UUID]*gigentity.GigRole
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{
		gigs:  map[uuid.UUID]*gigentity.Gig{},
		roles: map[uuid.UUID]*gigentity.GigRole{},
	}
}

func (f *fakeRoleStore) addGig(g *gigentity.Gig) *gigentity.Gig {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	f.gigs[g.ID] = g
	return g
}

func (f *fakeRoleStore) addRole(r *gigentity.GigRole) *gigentity.GigRole {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.InvitationStatus == "" {
		r.InvitationStatus = gigentity.InvitationStatusPending
	}
	f.roles[r.ID] = r
	return r
}

func (f *fakeRoleStore) CreateGig(ctx context.Context, gig *gigentity.Gig) (*gigentity.Gig, error) {
	return f.addGig(gig), nil
}
func (f *fakeRoleStore) GetGigByID(ctx context.Context, id uuid.UUID) (*gigentity.Gig, error) {
	return f.gigs[id], nil
}
func (f *fakeRoleStore) GetGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]gigentity.Gig, error) {
	return nil, nil
}
func (f *fakeRoleStore) UpdateGig(ctx context.Context, gig *gigentity.Gig) error { return nil }
func (f *fakeRoleStore) UpdateGigFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return nil
}
func (f *fakeRoleStore) DeleteGig(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeRoleStore) GetGigsForUserOnDate(ctx context.Context, userID uuid.UUID, date string) ([]gigentity.Gig, error) {
	return nil, nil
}
func (f *fakeRoleStore) GetGigByPublicSlug(ctx context.Context, slug string) (*gigentity.Gig, error) {
	return nil, nil
}
func (f *fakeRoleStore) GetExternalGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]gigentity.Gig, error) {
	return nil, nil
}
func (f *fakeRoleStore) CreateRole(ctx context.Context, role *gigentity.GigRole) (*gigentity.GigRole, error) {
	return f.addRole(role), nil
}
func (f *fakeRoleStore) GetRoleByID(ctx context.Context, id uuid.UUID) (*gigentity.GigRole, error) {
	return f.roles[id], nil
}
func (f *fakeRoleStore) GetRolesByGigID(ctx context.Context, gigID uuid.UUID) ([]gigentity.GigRole, error) {
	var out []gigentity.GigRole
	for _, r := range f.roles {
		if r.GigID == gigID {
			out = append(out, *r)
		}
	}
	return out, nil
}
func (f *fakeRoleStore) DeleteRole(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeRoleStore) IsLineupMember(ctx context.Context, gigID uuid.UUID, userID uuid.UUID) (bool, error) {
	return false, nil
}

// ---- notifier fake ----

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notifdto.CreateNotificationRequest
}

func (f *fakeNotifier) Emit(ctx context.Context, req *notifdto.CreateNotificationRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *req)
}

func (f *fakeNotifier) sentTo(userID uuid.UUID) []notifdto.CreateNotificationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notifdto.CreateNotificationRequest
	for _, req := range f.sent {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out
}

// ---- cache fake ----

type fakeCache struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{seen: map[string]bool{}}
}

func (f *fakeCache) MarkInviteTokenUsed(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	return f.setNX("invite:" + tokenID)
}

func (f *fakeCache) MarkWebhookSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	return f.setNX("webhook:" + messageID)
}

func (f *fakeCache) Close() error { return nil }

func (f *fakeCache) setNX(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

// ---- calendar service fake ----

type fakeCalSvc struct {
	mu        sync.Mutex
	hasAccess bool
	createErr *apperrors.AppError
	created   []calendardto.GoogleEventInput
	watches   []uuid.UUID
	watchErr  *apperrors.AppError
	watch     *calendarentity.WatchRegistration
	event     *calendardto.GoogleEvent
	eventErr  *apperrors.AppError
}

func (f *fakeCalSvc) SaveGoogleConnection(ctx context.Context, userID uuid.UUID, req *calendardto.ConnectGoogleRequest) (*calendardto.CalendarConnectionResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalSvc) GetConnections(ctx context.Context, userID uuid.UUID) ([]calendardto.CalendarConnectionResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalSvc) UpdateConnectionSettings(ctx context.Context, userID uuid.UUID, req *calendardto.UpdateConnectionSettingsRequest) (*calendardto.CalendarConnectionResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalSvc) DisconnectCalendar(ctx context.Context, userID uuid.UUID) *apperrors.AppError {
	return nil
}
func (f *fakeCalSvc) HasInviteAccess(ctx context.Context, userID uuid.UUID) (bool, *apperrors.AppError) {
	return f.hasAccess, nil
}
func (f *fakeCalSvc) CreateEventForUser(ctx context.Context, userID uuid.UUID, input *calendardto.GoogleEventInput, sendUpdates bool) (*calendardto.GoogleEvent, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, *input)
	return &calendardto.GoogleEvent{ID: "evt-created", Status: "confirmed"}, nil
}
func (f *fakeCalSvc) GetEventForUser(ctx context.Context, userID uuid.UUID, eventID string) (*calendardto.GoogleEvent, *apperrors.AppError) {
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	return f.event, nil
}
func (f *fakeCalSvc) DeleteEventForUser(ctx context.Context, userID uuid.UUID, eventID string) *apperrors.AppError {
	return nil
}
func (f *fakeCalSvc) ListEventsForDay(ctx context.Context, userID uuid.UUID, date string) ([]calendardto.GoogleEvent, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalSvc) ListBusyIntervals(ctx context.Context, userID uuid.UUID, date string) ([]gigservice.BusyInterval, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeCalSvc) RegisterEventWatch(ctx context.Context, userID uuid.UUID, roleID uuid.UUID, eventID string) *apperrors.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watchErr != nil {
		return f.watchErr
	}
	f.watches = append(f.watches, roleID)
	return nil
}
func (f *fakeCalSvc) ResolveWatch(ctx context.Context, channelID string) (*calendarentity.WatchRegistration, *apperrors.AppError) {
	return f.watch, nil
}
func (f *fakeCalSvc) RemoveWatchForRole(ctx context.Context, roleID uuid.UUID) *apperrors.AppError {
	return nil
}

// ---- mailer fake ----

type sentMail struct {
	To        string
	GigTitle  string
	MagicLink string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

func (f *fakeMailer) SendInvitationEmail(recipientEmail, recipientName, inviterName, gigTitle, magicLink string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{To: recipientEmail, GigTitle: gigTitle, MagicLink: magicLink})
	return nil
}

func (f *fakeMailer) SendNotificationEmail(recipientEmail, subject, body string) error {
	return nil
}

// ---- gig service fake (dispatcher only needs GetOwnedGig) ----

type fakeGigSvc struct {
	store *fakeRoleStore
}

func (f *fakeGigSvc) GetOwnedGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) (*gigentity.Gig, *apperrors.AppError) {
	gig := f.store.gigs[gigID]
	if gig == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Gig not found", nil)
	}
	if gig.OwnerID != ownerID {
		return nil, apperrors.NewAppError(apperrors.ErrForbidden, "Not the gig owner", nil)
	}
	return gig, nil
}

func (f *fakeGigSvc) CreateGig(ctx context.Context, ownerID uuid.UUID, req *gigdto.CreateGigRequest) (*gigdto.GigResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeGigSvc) GetGig(ctx context.Context, userID uuid.UUID, gigID uuid.UUID) (*gigdto.GigResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeGigSvc) GetPublicGig(ctx context.Context, slugStr string) (*gigdto.GigResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeGigSvc) GetMyGigs(ctx context.Context, userID uuid.UUID) ([]gigdto.GigResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeGigSvc) UpdateGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID, req *gigdto.UpdateGigRequest) (*gigdto.GigResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeGigSvc) DeleteGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) *apperrors.AppError {
	return nil
}
func (f *fakeGigSvc) AddRole(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID, req *gigdto.AddRoleRequest) (*gigdto.RoleResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeGigSvc) RemoveRole(ctx context.Context, ownerID uuid.UUID, roleID uuid.UUID) *apperrors.AppError {
	return nil
}
func (f *fakeGigSvc) CheckConflicts(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) (*gigdto.ConflictResponse, *apperrors.AppError) {
	return nil, nil
}
func (f *fakeGigSvc) CheckWindowConflicts(ctx context.Context, userID uuid.UUID, date string, startTime, endTime *string) (*gigdto.ConflictResponse, *apperrors.AppError) {
	return nil, nil
}
