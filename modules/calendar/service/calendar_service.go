package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gig-roster-api/core/config"
	"gig-roster-api/core/constants"
	apperrors "gig-roster-api/core/errors"
	"gig-roster-api/core/logger"
	"gig-roster-api/core/utils"
	"gig-roster-api/modules/calendar/dto"
	"gig-roster-api/modules/calendar/entity"
	"gig-roster-api/modules/calendar/repository"
	gigservice "gig-roster-api/modules/gig/service"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const ProviderGoogle = "google"

const calendarWriteScope = "https://www.googleapis.com/auth/calendar.events"

// TokenRefresher exchanges a refresh token for a fresh access token.
// revoked is true when the provider reports the refresh token itself invalid
// rather than a transient failure.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, expiry time.Time, revoked bool, err error)
}

type CalendarServiceInterface interface {
	// Connection management
	SaveGoogleConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *apperrors.AppError)
	GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, *apperrors.AppError)
	UpdateConnectionSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateConnectionSettingsRequest) (*dto.CalendarConnectionResponse, *apperrors.AppError)
	DisconnectCalendar(ctx context.Context, userID uuid.UUID) *apperrors.AppError
	HasInviteAccess(ctx context.Context, userID uuid.UUID) (bool, *apperrors.AppError)

	// Event operations on the user's primary calendar
	CreateEventForUser(ctx context.Context, userID uuid.UUID, input *dto.GoogleEventInput, sendUpdates bool) (*dto.GoogleEvent, *apperrors.AppError)
	GetEventForUser(ctx context.Context, userID uuid.UUID, eventID string) (*dto.GoogleEvent, *apperrors.AppError)
	DeleteEventForUser(ctx context.Context, userID uuid.UUID, eventID string) *apperrors.AppError
	ListEventsForDay(ctx context.Context, userID uuid.UUID, date string) ([]dto.GoogleEvent, *apperrors.AppError)
	ListBusyIntervals(ctx context.Context, userID uuid.UUID, date string) ([]gigservice.BusyInterval, *apperrors.AppError)

	// Watch channels
	RegisterEventWatch(ctx context.Context, userID uuid.UUID, roleID uuid.UUID, eventID string) *apperrors.AppError
	ResolveWatch(ctx context.Context, channelID string) (*entity.WatchRegistration, *apperrors.AppError)
	RemoveWatchForRole(ctx context.Context, roleID uuid.UUID) *apperrors.AppError
}

type calendarService struct {
	repo    repository.CalendarRepository
	client  GoogleClient
	tokens  TokenRefresher
	loc     *time.Location
	baseURL string
}

func NewCalendarService(repo repository.CalendarRepository, client GoogleClient, tokens TokenRefresher) CalendarServiceInterface {
	cfg, _ := config.GetSafe()
	webhookBase := ""
	if cfg != nil {
		webhookBase = cfg.App.WebhookBaseURL
	}
	return &calendarService{
		repo:    repo,
		client:  client,
		tokens:  tokens,
		loc:     time.Local,
		baseURL: webhookBase,
	}
}

// SaveGoogleConnection saves or updates a Google Calendar connection after
// the OAuth front channel completes. Write access is derived from the
// granted scopes.
func (s *calendarService) SaveGoogleConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *apperrors.AppError) {
	expiresAt := time.Now().Add(55 * time.Minute)
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "expires_at must be RFC3339", err)
		}
		expiresAt = parsed
	}

	hasWrite := false
	for _, scope := range req.GrantedScopes {
		if strings.Contains(scope, calendarWriteScope) || strings.HasSuffix(scope, "/auth/calendar") {
			hasWrite = true
			break
		}
	}

	existing, err := s.repo.GetConnectionByUserAndProvider(ctx, userID, ProviderGoogle)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to load connection", err)
	}

	if existing != nil {
		existing.AccessToken = req.AccessToken
		existing.RefreshToken = req.RefreshToken
		existing.TokenExpiresAt = expiresAt
		existing.CalendarEmail = req.Email
		existing.HasWriteAccess = hasWrite
		existing.IsActive = true
		if err := s.repo.UpdateConnection(ctx, existing); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrUpdateFailed, "Failed to update connection", err)
		}
		return toConnectionResponse(existing), nil
	}

	conn := &entity.CalendarConnection{
		UserID:         userID,
		Provider:       ProviderGoogle,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
		TokenExpiresAt: expiresAt,
		CalendarEmail:  req.Email,
		HasWriteAccess: hasWrite,
		InvitesEnabled: hasWrite,
		SyncEnabled:    true,
		IsActive:       true,
	}
	created, err := s.repo.CreateConnection(ctx, conn)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCreateFailed, "Failed to save connection", err)
	}

	logger.Info("CalendarService:SaveGoogleConnection:Connected", "userID", userID, "email", req.Email, "write", hasWrite)
	return toConnectionResponse(created), nil
}

func (s *calendarService) GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, *apperrors.AppError) {
	conns, err := s.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to list connections", err)
	}

	result := make([]dto.CalendarConnectionResponse, 0, len(conns))
	for i := range conns {
		result = append(result, *toConnectionResponse(&conns[i]))
	}
	return result, nil
}

func (s *calendarService) UpdateConnectionSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateConnectionSettingsRequest) (*dto.CalendarConnectionResponse, *apperrors.AppError) {
	conn, appErr := s.activeConnection(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	if req.InvitesEnabled != nil {
		if *req.InvitesEnabled && !conn.HasWriteAccess {
			return nil, apperrors.NewAppError(apperrors.ErrForbidden, "Connection lacks calendar write access", nil)
		}
		conn.InvitesEnabled = *req.InvitesEnabled
	}
	if req.SyncEnabled != nil {
		conn.SyncEnabled = *req.SyncEnabled
	}

	if err := s.repo.UpdateConnection(ctx, conn); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUpdateFailed, "Failed to update connection", err)
	}
	return toConnectionResponse(conn), nil
}

func (s *calendarService) DisconnectCalendar(ctx context.Context, userID uuid.UUID) *apperrors.AppError {
	if err := s.repo.DeleteConnection(ctx, userID, ProviderGoogle); err != nil {
		return apperrors.NewAppError(apperrors.ErrDeleteFailed, "Failed to disconnect calendar", err)
	}
	logger.Info("CalendarService:DisconnectCalendar:Disconnected", "userID", userID)
	return nil
}

// HasInviteAccess reports whether calendar invitations can go out for this
// user. False with a nil error means no usable connection, not a failure.
func (s *calendarService) HasInviteAccess(ctx context.Context, userID uuid.UUID) (bool, *apperrors.AppError) {
	conn, err := s.repo.GetConnectionByUserAndProvider(ctx, userID, ProviderGoogle)
	if err != nil {
		return false, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to load connection", err)
	}
	return conn != nil && conn.CanSendInvites(), nil
}

func (s *calendarService) CreateEventForUser(ctx context.Context, userID uuid.UUID, input *dto.GoogleEventInput, sendUpdates bool) (*dto.GoogleEvent, *apperrors.AppError) {
	conn, token, appErr := s.connectionWithToken(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	if !conn.HasWriteAccess {
		return nil, apperrors.NewAppError(apperrors.ErrForbidden, "Connection lacks calendar write access", nil)
	}
	return s.client.CreateEvent(ctx, token, input, sendUpdates)
}

func (s *calendarService) GetEventForUser(ctx context.Context, userID uuid.UUID, eventID string) (*dto.GoogleEvent, *apperrors.AppError) {
	_, token, appErr := s.connectionWithToken(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	return s.client.GetEvent(ctx, token, eventID)
}

func (s *calendarService) DeleteEventForUser(ctx context.Context, userID uuid.UUID, eventID string) *apperrors.AppError {
	_, token, appErr := s.connectionWithToken(ctx, userID)
	if appErr != nil {
		return appErr
	}

	appErr = s.client.DeleteEvent(ctx, token, eventID)
	if appErr != nil && appErr.Code == apperrors.ErrRemoteNotFound {
		// Already gone remotely; treat as done.
		return nil
	}
	return appErr
}

func (s *calendarService) ListEventsForDay(ctx context.Context, userID uuid.UUID, date string) ([]dto.GoogleEvent, *apperrors.AppError) {
	_, token, appErr := s.connectionWithToken(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidSchedule, "Date must be YYYY-MM-DD", err)
	}
	return s.client.ListEvents(ctx, token, day, day.Add(24*time.Hour))
}

// ListBusyIntervals maps one day of provider events to clock-string busy
// windows for the conflict detector.
func (s *calendarService) ListBusyIntervals(ctx context.Context, userID uuid.UUID, date string) ([]gigservice.BusyInterval, *apperrors.AppError) {
	events, appErr := s.ListEventsForDay(ctx, userID, date)
	if appErr != nil {
		return nil, appErr
	}

	intervals := make([]gigservice.BusyInterval, 0, len(events))
	for i := range events {
		event := &events[i]
		if event.Status == "cancelled" {
			continue
		}

		_, start, end, winErr := RemoteWindow(event, s.loc)
		if winErr != nil {
			logger.Warn("CalendarService:ListBusyIntervals:SkipUnparsable", "eventID", event.ID, "error", winErr)
			continue
		}

		interval := gigservice.BusyInterval{EventID: event.ID, Title: event.Summary}
		if start != nil {
			interval.Start = *start
		}
		if end != nil {
			interval.End = *end
		}
		intervals = append(intervals, interval)
	}
	return intervals, nil
}

// RegisterEventWatch registers a provider push channel for an invite event
// so responses flow back without polling.
func (s *calendarService) RegisterEventWatch(ctx context.Context, userID uuid.UUID, roleID uuid.UUID, eventID string) *apperrors.AppError {
	if s.baseURL == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidInput, "Webhook base URL not configured", nil)
	}

	_, token, appErr := s.connectionWithToken(ctx, userID)
	if appErr != nil {
		return appErr
	}

	channelID := utils.GenerateChannelID()
	address := s.baseURL + "/api/v1/public/calendar/webhook"

	resp, appErr := s.client.WatchEvents(ctx, token, channelID, address)
	if appErr != nil {
		return appErr
	}

	expiresAt := time.Now().Add(constants.WatchTTL)
	if ms, ok := parseEpochMillis(resp.Expiration); ok {
		expiresAt = ms
	}

	watch := &entity.WatchRegistration{
		RoleID:     roleID,
		UserID:     userID,
		EventID:    eventID,
		ChannelID:  channelID,
		ResourceID: resp.ResourceID,
		ExpiresAt:  expiresAt,
	}
	if _, err := s.repo.CreateWatch(ctx, watch); err != nil {
		return apperrors.NewAppError(apperrors.ErrCreateFailed, "Failed to persist watch channel", err)
	}

	logger.Info("CalendarService:RegisterEventWatch:Registered", "roleID", roleID, "channelID", channelID)
	return nil
}

// ResolveWatch looks up the watch registration behind an inbound webhook
// channel id. Nil result means an unknown or stale channel.
func (s *calendarService) ResolveWatch(ctx context.Context, channelID string) (*entity.WatchRegistration, *apperrors.AppError) {
	watch, err := s.repo.GetWatchByChannelID(ctx, channelID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to resolve watch channel", err)
	}
	return watch, nil
}

// RemoveWatchForRole stops and forgets the watch channel tied to a role.
// Provider-side stop failures are logged and swallowed; the local row is
// always removed.
func (s *calendarService) RemoveWatchForRole(ctx context.Context, roleID uuid.UUID) *apperrors.AppError {
	watch, err := s.repo.GetWatchByRoleID(ctx, roleID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to load watch channel", err)
	}
	if watch == nil {
		return nil
	}

	if _, token, appErr := s.connectionWithToken(ctx, watch.UserID); appErr == nil {
		if stopErr := s.client.StopChannel(ctx, token, watch.ChannelID, watch.ResourceID); stopErr != nil {
			logger.Warn("CalendarService:RemoveWatchForRole:StopFailed", "channelID", watch.ChannelID, "error", stopErr)
		}
	}

	if err := s.repo.DeleteWatch(ctx, watch.ID); err != nil {
		return apperrors.NewAppError(apperrors.ErrDeleteFailed, "Failed to delete watch channel", err)
	}
	return nil
}

// activeConnection loads the user's Google connection or fails with
// CalendarNotConnected.
func (s *calendarService) activeConnection(ctx context.Context, userID uuid.UUID) (*entity.CalendarConnection, *apperrors.AppError) {
	conn, err := s.repo.GetConnectionByUserAndProvider(ctx, userID, ProviderGoogle)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to load connection", err)
	}
	if conn == nil || !conn.IsActive {
		return nil, apperrors.NewAppError(apperrors.ErrCalendarNotConnected, "No Google Calendar connected", nil)
	}
	return conn, nil
}

// connectionWithToken returns the active connection and a currently valid
// access token, refreshing through the provider when the stored one is
// within the expiry margin. Irrecoverable revocation deletes the connection
// outright so callers see CalendarNotConnected until the user reconnects.
func (s *calendarService) connectionWithToken(ctx context.Context, userID uuid.UUID) (*entity.CalendarConnection, string, *apperrors.AppError) {
	conn, appErr := s.activeConnection(ctx, userID)
	if appErr != nil {
		return nil, "", appErr
	}

	if time.Now().Before(conn.TokenExpiresAt.Add(-5 * time.Minute)) {
		return conn, conn.AccessToken, nil
	}

	logger.Info("CalendarService:connectionWithToken:Refreshing", "userID", userID)
	accessToken, expiry, revoked, err := s.tokens.Refresh(ctx, conn.RefreshToken)
	if err != nil {
		if revoked {
			logger.Warn("CalendarService:connectionWithToken:Revoked", "userID", userID)
			if delErr := s.repo.DeleteConnection(ctx, userID, ProviderGoogle); delErr != nil {
				logger.Error("CalendarService:connectionWithToken:DeleteFailed", "userID", userID, "error", delErr)
			}
			return nil, "", apperrors.NewAppError(apperrors.ErrCalendarNotConnected, "Calendar access was revoked, please reconnect", err)
		}
		return nil, "", apperrors.NewAppError(apperrors.ErrRemoteTransient, "Failed to refresh calendar token", err)
	}

	conn.AccessToken = accessToken
	conn.TokenExpiresAt = expiry
	if err := s.repo.UpdateConnectionTokens(ctx, conn.ID, accessToken, expiry); err != nil {
		logger.Error("CalendarService:connectionWithToken:PersistFailed", "userID", userID, "error", err)
	}
	return conn, accessToken, nil
}

func toConnectionResponse(conn *entity.CalendarConnection) *dto.CalendarConnectionResponse {
	resp := &dto.CalendarConnectionResponse{
		ID:             conn.ID.String(),
		Provider:       conn.Provider,
		CalendarEmail:  conn.CalendarEmail,
		HasWriteAccess: conn.HasWriteAccess,
		InvitesEnabled: conn.InvitesEnabled,
		SyncEnabled:    conn.SyncEnabled,
		IsActive:       conn.IsActive,
		ConnectedAt:    conn.CreatedAt.Format(time.RFC3339),
	}
	if conn.LastSyncedAt != nil {
		synced := conn.LastSyncedAt.Format(time.RFC3339)
		resp.LastSyncedAt = &synced
	}
	return resp
}

func parseEpochMillis(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	var ms int64
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return time.Time{}, false
		}
		ms = ms*10 + int64(ch-'0')
	}
	return time.UnixMilli(ms), true
}

// oauthTokenRefresher refreshes Google access tokens through x/oauth2.
type oauthTokenRefresher struct {
	conf *oauth2.Config
}

// NewOAuthTokenRefresher builds the production refresher from the configured
// Google credentials.
func NewOAuthTokenRefresher() TokenRefresher {
	cfg := config.Get()
	return &oauthTokenRefresher{
		conf: &oauth2.Config{
			ClientID:     cfg.GoogleAPI.ClientID,
			ClientSecret: cfg.GoogleAPI.ClientSecret,
			Endpoint:     google.Endpoint,
		},
	}
}

func (r *oauthTokenRefresher) Refresh(ctx context.Context, refreshToken string) (string, time.Time, bool, error) {
	src := r.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			// invalid_grant means the refresh token itself is dead, not a
			// transient failure.
			revoked := retrieveErr.ErrorCode == "invalid_grant" ||
				strings.Contains(string(retrieveErr.Body), "invalid_grant")
			return "", time.Time{}, revoked, err
		}
		return "", time.Time{}, false, err
	}
	return token.AccessToken, token.Expiry, false, nil
}
