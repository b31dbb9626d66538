package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gig-roster-api/core/config"
	"gig-roster-api/core/constants"
	"gig-roster-api/core/errors"
	"gig-roster-api/core/logger"
	"gig-roster-api/core/utils"
	calendardto "gig-roster-api/modules/calendar/dto"
	calendarservice "gig-roster-api/modules/calendar/service"
	gigentity "gig-roster-api/modules/gig/entity"
	gigrepo "gig-roster-api/modules/gig/repository"
	gigservice "gig-roster-api/modules/gig/service"
	"gig-roster-api/modules/invitation/dto"
	"gig-roster-api/modules/invitation/repository"
	notifdto "gig-roster-api/modules/notification/dto"
	notifentity "gig-roster-api/modules/notification/entity"

	"github.com/google/uuid"
)

type DispatcherServiceInterface interface {
	SendInvites(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID, req *dto.SendInvitesRequest) (*dto.SendInvitesResponse, *errors.AppError)
	Reinvite(ctx context.Context, ownerID uuid.UUID, roleID uuid.UUID) (*dto.InviteResult, *errors.AppError)
}

// DispatcherService pushes invitations out to a gig's lineup, preferring a
// calendar event with the recipient as attendee and falling back to a
// magic-link email when the provider write fails.
type DispatcherService struct {
	repo     repository.InvitationRepositoryInterface
	gigSvc   gigservice.GigServiceInterface
	gigRepo  gigrepo.GigRepositoryInterface
	calendar calendarservice.CalendarServiceInterface
	mailer   utils.Mailer
	notif    Notifier
	baseURL  string
	loc      *time.Location
}

func NewDispatcherService(
	repo repository.InvitationRepositoryInterface,
	gigSvc gigservice.GigServiceInterface,
	gigRepo gigrepo.GigRepositoryInterface,
	calendar calendarservice.CalendarServiceInterface,
	mailer utils.Mailer,
	notif Notifier,
	cfg *config.Config,
) *DispatcherService {
	return &DispatcherService{
		repo:     repo,
		gigSvc:   gigSvc,
		gigRepo:  gigRepo,
		calendar: calendar,
		mailer:   mailer,
		notif:    notif,
		baseURL:  cfg.App.BaseURL,
		loc:      time.Local,
	}
}

// SendInvites dispatches invitations for every lineup slot that has none
// yet. Preconditions fail the whole call before any side effect; after
// that, per-role failures are collected and the batch always runs to the
// end. Calling it again only touches roles still without an invitation.
func (s *DispatcherService) SendInvites(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID, req *dto.SendInvitesRequest) (*dto.SendInvitesResponse, *errors.AppError) {
	gig, appErr := s.gigSvc.GetOwnedGig(ctx, ownerID, gigID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := s.checkInviteAccess(ctx, ownerID); appErr != nil {
		return nil, appErr
	}

	roles, err := s.gigRepo.GetRolesByGigID(ctx, gigID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load lineup", err)
	}

	var candidates []*gigentity.GigRole
	for i := range roles {
		if roles[i].CalendarEventID == nil && roles[i].InvitationMethod == nil {
			candidates = append(candidates, &roles[i])
		}
	}

	resp := &dto.SendInvitesResponse{Results: make([]dto.InviteResult, len(candidates))}
	var wg sync.WaitGroup
	for i, role := range candidates {
		wg.Add(1)
		go func(i int, role *gigentity.GigRole) {
			defer wg.Done()
			resp.Results[i] = s.dispatchRole(ctx, ownerID, gig, role, req.EmailOverrides)
		}(i, role)
	}
	wg.Wait()

	for _, result := range resp.Results {
		if result.Success {
			resp.Sent++
		} else {
			resp.Failed++
		}
	}
	return resp, nil
}

// Reinvite re-dispatches a single slot after a decline or a sub request.
// The stale invite state is cleared first so the slot becomes a candidate
// again.
func (s *DispatcherService) Reinvite(ctx context.Context, ownerID uuid.UUID, roleID uuid.UUID) (*dto.InviteResult, *errors.AppError) {
	role, err := s.gigRepo.GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get role", err)
	}
	if role == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Role not found", nil)
	}

	gig, appErr := s.gigSvc.GetOwnedGig(ctx, ownerID, role.GigID)
	if appErr != nil {
		return nil, appErr
	}
	if role.InvitationStatus != gigentity.InvitationStatusDeclined && role.InvitationStatus != gigentity.InvitationStatusNeedsSub {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Only declined or needs_sub slots can be re-invited", nil)
	}
	if appErr := s.checkInviteAccess(ctx, ownerID); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.ClearInvite(ctx, roleID); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to reset invitation", err)
	}
	role.InvitationMethod = nil
	role.CalendarEventID = nil

	result := s.dispatchRole(ctx, ownerID, gig, role, nil)
	return &result, nil
}

func (s *DispatcherService) checkInviteAccess(ctx context.Context, ownerID uuid.UUID) *errors.AppError {
	ok, appErr := s.calendar.HasInviteAccess(ctx, ownerID)
	if appErr != nil {
		return appErr
	}
	if !ok {
		return errors.NewAppError(errors.ErrCalendarNotConnected, "Connect a calendar with write access and enable invitations first", nil)
	}
	return nil
}

// dispatchRole runs the full per-slot pipeline: resolve an address, try the
// calendar invite, fall back to email. Whatever happens, the outcome lands
// in the returned result instead of aborting the batch.
func (s *DispatcherService) dispatchRole(ctx context.Context, ownerID uuid.UUID, gig *gigentity.Gig, role *gigentity.GigRole, overrides map[string]string) dto.InviteResult {
	result := dto.InviteResult{RoleID: role.ID.String(), RoleName: role.RoleName}

	email := role.RecipientEmail()
	if email == "" {
		email = overrides[role.ID.String()]
	}
	if email == "" {
		result.Error = "No email address for this slot"
		return result
	}

	oldStatus := role.InvitationStatus
	event, remoteErr := s.createCalendarInvite(ctx, ownerID, gig, role, email)
	if remoteErr == nil {
		if err := s.repo.MarkInvited(ctx, role.ID, gigentity.InviteMethodCalendar, &event.ID, nil, nil, ownerID); err != nil {
			result.Error = "Failed to record invitation"
			return result
		}
		s.recordInvited(ctx, role, oldStatus, ownerID)

		// Watch registration is best-effort; without it responses arrive via
		// the periodic sync instead of push.
		if appErr := s.calendar.RegisterEventWatch(ctx, ownerID, role.ID, event.ID); appErr != nil {
			logger.Warn("DispatcherService:dispatchRole:WatchFailed", "roleID", role.ID, "error", appErr)
		}

		result.Success = true
		result.Method = gigentity.InviteMethodCalendar
		result.EventID = event.ID
		s.notifyInvited(ctx, gig, role)
		return result
	}

	logger.Warn("DispatcherService:dispatchRole:CalendarFailed", "roleID", role.ID, "error", remoteErr)

	if emailErr := s.sendEmailInvite(ctx, ownerID, gig, role, email, oldStatus); emailErr != nil {
		result.Error = fmt.Sprintf("calendar invite failed (%s); email fallback failed (%s)", remoteErr.Message, emailErr.Message)
		return result
	}

	result.Success = true
	result.Method = gigentity.InviteMethodEmail
	s.notifyInvited(ctx, gig, role)
	return result
}

func (s *DispatcherService) createCalendarInvite(ctx context.Context, ownerID uuid.UUID, gig *gigentity.Gig, role *gigentity.GigRole, email string) (*calendardto.GoogleEvent, *errors.AppError) {
	start, end, appErr := calendarservice.ResolveEventWindow(gig, s.loc)
	if appErr != nil {
		return nil, appErr
	}

	inviter := ""
	if gig.OwnerName != nil {
		inviter = *gig.OwnerName
	}
	input := &calendardto.GoogleEventInput{
		Summary:     calendarservice.BuildEventTitle(gig),
		Description: calendarservice.BuildEventDescription(gig, role, inviter, s.baseURL),
		Start:       &calendardto.EventTime{DateTime: start.Format(time.RFC3339), TimeZone: s.loc.String()},
		End:         &calendardto.EventTime{DateTime: end.Format(time.RFC3339), TimeZone: s.loc.String()},
		Attendees:   []calendardto.Attendee{{Email: email}},
	}
	if gig.VenueAddress != nil && *gig.VenueAddress != "" {
		input.Location = *gig.VenueAddress
	} else if gig.VenueName != nil {
		input.Location = *gig.VenueName
	}

	return s.calendar.CreateEventForUser(ctx, ownerID, input, true)
}

func (s *DispatcherService) sendEmailInvite(ctx context.Context, ownerID uuid.UUID, gig *gigentity.Gig, role *gigentity.GigRole, email string, oldStatus gigentity.InvitationStatus) *errors.AppError {
	token, _, err := utils.GenerateInviteToken(role.ID, constants.InviteTokenTTL)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to create invitation link", err)
	}
	hash, err := hashInviteToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to secure invitation link", err)
	}
	expiresAt := time.Now().Add(constants.InviteTokenTTL)

	inviter := "A bandleader"
	if gig.OwnerName != nil && *gig.OwnerName != "" {
		inviter = *gig.OwnerName
	}
	magicLink := s.baseURL + "/invite/" + token

	// The invite state is persisted only after the mail goes out; a failed
	// send must leave the slot a candidate for the next dispatch.
	if mailErr := s.mailer.SendInvitationEmail(email, role.RecipientName(), inviter, gig.Title, magicLink); mailErr != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to send invitation email", mailErr)
	}
	if dbErr := s.repo.MarkInvited(ctx, role.ID, gigentity.InviteMethodEmail, nil, &hash, &expiresAt, ownerID); dbErr != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to record invitation", dbErr)
	}
	s.recordInvited(ctx, role, oldStatus, ownerID)
	return nil
}

func (s *DispatcherService) recordInvited(ctx context.Context, role *gigentity.GigRole, oldStatus gigentity.InvitationStatus, actor uuid.UUID) {
	entry := &gigentity.StatusHistoryEntry{
		RoleID:    role.ID,
		OldStatus: oldStatus,
		NewStatus: gigentity.InvitationStatusInvited,
		ChangedBy: &actor,
	}
	if err := s.repo.InsertStatusHistory(ctx, entry); err != nil {
		logger.Error("DispatcherService:recordInvited:HistoryFailed", "roleID", role.ID, "error", err)
	}
	role.InvitationStatus = gigentity.InvitationStatusInvited
}

func (s *DispatcherService) notifyInvited(ctx context.Context, gig *gigentity.Gig, role *gigentity.GigRole) {
	if role.MusicianID == nil {
		return
	}
	s.notif.Emit(ctx, &notifdto.CreateNotificationRequest{
		UserID:  *role.MusicianID,
		Title:   "New gig invitation",
		Message: fmt.Sprintf("You were invited to play %s for '%s' on %s", role.RoleName, gig.Title, gig.Date),
		Type:    notifentity.TypeInviteSent,
		Data: map[string]interface{}{
			"gig_id":  gig.ID.String(),
			"role_id": role.ID.String(),
		},
	})
}
