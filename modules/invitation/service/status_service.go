package service

import (
	"context"
	"fmt"

	"gig-roster-api/core/cache"
	"gig-roster-api/core/constants"
	"gig-roster-api/core/errors"
	"gig-roster-api/core/logger"
	"gig-roster-api/core/utils"
	gigdto "gig-roster-api/modules/gig/dto"
	gigentity "gig-roster-api/modules/gig/entity"
	gigrepo "gig-roster-api/modules/gig/repository"
	"gig-roster-api/modules/invitation/dto"
	"gig-roster-api/modules/invitation/repository"
	notifdto "gig-roster-api/modules/notification/dto"
	notifentity "gig-roster-api/modules/notification/entity"

	"github.com/google/uuid"
)

// Notifier is the slice of the notification module the invitation flows
// use. Emit is best-effort and never returns an error.
type Notifier interface {
	Emit(ctx context.Context, req *notifdto.CreateNotificationRequest)
}

// allowedTransitions is the closed transition table for a lineup slot.
// replaced is terminal; re-invites run only out of declined and needs_sub.
var allowedTransitions = map[gigentity.InvitationStatus][]gigentity.InvitationStatus{
	gigentity.InvitationStatusPending:   {gigentity.InvitationStatusInvited},
	gigentity.InvitationStatusInvited:   {gigentity.InvitationStatusAccepted, gigentity.InvitationStatusDeclined, gigentity.InvitationStatusTentative, gigentity.InvitationStatusNeedsSub},
	gigentity.InvitationStatusAccepted:  {gigentity.InvitationStatusReplaced},
	gigentity.InvitationStatusDeclined:  {gigentity.InvitationStatusInvited, gigentity.InvitationStatusReplaced},
	gigentity.InvitationStatusTentative: {gigentity.InvitationStatusAccepted, gigentity.InvitationStatusDeclined, gigentity.InvitationStatusNeedsSub, gigentity.InvitationStatusReplaced},
	gigentity.InvitationStatusNeedsSub:  {gigentity.InvitationStatusInvited, gigentity.InvitationStatusReplaced},
	gigentity.InvitationStatusReplaced:  {},
}

var selfServiceStatuses = map[gigentity.InvitationStatus]bool{
	gigentity.InvitationStatusAccepted:  true,
	gigentity.InvitationStatusDeclined:  true,
	gigentity.InvitationStatusTentative: true,
	gigentity.InvitationStatusNeedsSub:  true,
}

type StatusServiceInterface interface {
	Respond(ctx context.Context, userID uuid.UUID, roleID uuid.UUID, req *dto.RespondRequest) (*gigdto.RoleResponse, *errors.AppError)
	ManagerSetStatus(ctx context.Context, ownerID uuid.UUID, roleID uuid.UUID, req *dto.SetStatusRequest) (*gigdto.RoleResponse, *errors.AppError)
	BulkAccept(ctx context.Context, ownerID uuid.UUID, req *dto.BulkAcceptRequest) (*dto.BulkAcceptResponse, *errors.AppError)
	ApplyRemoteResponse(ctx context.Context, roleID uuid.UUID, responseStatus string) *errors.AppError
	GetHistory(ctx context.Context, userID uuid.UUID, roleID uuid.UUID) ([]dto.HistoryEntryResponse, *errors.AppError)
	PreviewInvite(ctx context.Context, token string) (*dto.InvitePreviewResponse, *errors.AppError)
	RedeemInviteToken(ctx context.Context, req *dto.RedeemRequest) (*gigdto.RoleResponse, *errors.AppError)
}

type StatusService struct {
	repo    repository.InvitationRepositoryInterface
	gigRepo gigrepo.GigRepositoryInterface
	notif   Notifier
	cache   cache.Cache
}

func NewStatusService(repo repository.InvitationRepositoryInterface, gigRepo gigrepo.GigRepositoryInterface, notif Notifier, c cache.Cache) *StatusService {
	return &StatusService{repo: repo, gigRepo: gigRepo, notif: notif, cache: c}
}

// transition validates and persists one status change, then appends the
// audit row. History failure is logged, never propagated: the transition
// itself has already committed.
func (s *StatusService) transition(ctx context.Context, role *gigentity.GigRole, newStatus gigentity.InvitationStatus, actor *uuid.UUID, note *string) *errors.AppError {
	if role.InvitationStatus == gigentity.InvitationStatusReplaced {
		return errors.NewAppError(errors.ErrRoleReplaced, "This slot was reassigned; ask the host to re-invite you", nil)
	}

	allowed := false
	for _, next := range allowedTransitions[role.InvitationStatus] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		msg := fmt.Sprintf("Cannot move invitation from %s to %s", role.InvitationStatus, newStatus)
		return errors.NewAppError(errors.ErrInvalidInput, msg, nil)
	}

	// The repository may hand back the same role object it stores, so the
	// prior status has to be captured before the write.
	oldStatus := role.InvitationStatus
	if err := s.repo.UpdateRoleStatus(ctx, role.ID, newStatus, actor); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to update invitation status", err)
	}

	entry := &gigentity.StatusHistoryEntry{
		RoleID:    role.ID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: actor,
		Note:      note,
	}
	if err := s.repo.InsertStatusHistory(ctx, entry); err != nil {
		logger.Error("StatusService:transition:HistoryFailed", "roleID", role.ID, "error", err)
	}

	role.InvitationStatus = newStatus
	return nil
}

// Respond applies a musician's self-service answer and notifies the gig
// owner best-effort.
func (s *StatusService) Respond(ctx context.Context, userID uuid.UUID, roleID uuid.UUID, req *dto.RespondRequest) (*gigdto.RoleResponse, *errors.AppError) {
	status := gigentity.InvitationStatus(req.Status)
	if !selfServiceStatuses[status] {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Status must be accepted, declined, tentative or needs_sub", nil)
	}

	role, gig, appErr := s.loadRoleAndGig(ctx, roleID)
	if appErr != nil {
		return nil, appErr
	}
	if role.MusicianID == nil || *role.MusicianID != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not your lineup slot", nil)
	}

	if appErr := s.transition(ctx, role, status, &userID, req.Note); appErr != nil {
		return nil, appErr
	}

	s.notifyOwner(ctx, gig, role, status)
	return gigdto.ToRoleResponse(role), nil
}

// ManagerSetStatus is the gig owner's direct override, including marking a
// slot replaced.
func (s *StatusService) ManagerSetStatus(ctx context.Context, ownerID uuid.UUID, roleID uuid.UUID, req *dto.SetStatusRequest) (*gigdto.RoleResponse, *errors.AppError) {
	status := gigentity.InvitationStatus(req.Status)
	if !status.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown invitation status", nil)
	}

	role, gig, appErr := s.loadRoleAndGig(ctx, roleID)
	if appErr != nil {
		return nil, appErr
	}
	if gig.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not the gig owner", nil)
	}

	if appErr := s.transition(ctx, role, status, &ownerID, req.Note); appErr != nil {
		return nil, appErr
	}

	s.notifyMusician(ctx, gig, role, status)
	return gigdto.ToRoleResponse(role), nil
}

// BulkAccept applies accepted to many roles in one call. Per-role failures
// are collected; manager-side notifications are aggregated per musician and
// gig, so one person with several slots on a gig gets one message naming it.
func (s *StatusService) BulkAccept(ctx context.Context, ownerID uuid.UUID, req *dto.BulkAcceptRequest) (*dto.BulkAcceptResponse, *errors.AppError) {
	type bookingKey struct {
		musicianID uuid.UUID
		gigID      uuid.UUID
	}
	resp := &dto.BulkAcceptResponse{}
	accepted := map[bookingKey]int{}
	gigTitles := map[uuid.UUID]string{}

	for _, idStr := range req.RoleIDs {
		roleID, err := uuid.Parse(idStr)
		if err != nil {
			resp.Failed = append(resp.Failed, idStr+": invalid role id")
			continue
		}

		role, gig, appErr := s.loadRoleAndGig(ctx, roleID)
		if appErr != nil {
			resp.Failed = append(resp.Failed, idStr+": "+appErr.Message)
			continue
		}
		if gig.OwnerID != ownerID {
			resp.Failed = append(resp.Failed, idStr+": not the gig owner")
			continue
		}

		if appErr := s.transition(ctx, role, gigentity.InvitationStatusAccepted, &ownerID, nil); appErr != nil {
			resp.Failed = append(resp.Failed, idStr+": "+appErr.Message)
			continue
		}
		resp.Updated++
		if role.MusicianID != nil {
			accepted[bookingKey{*role.MusicianID, gig.ID}]++
			gigTitles[gig.ID] = gig.Title
		}
	}

	for key, count := range accepted {
		message := fmt.Sprintf("Your booking for '%s' was confirmed", gigTitles[key.gigID])
		if count > 1 {
			message = fmt.Sprintf("%d of your bookings for '%s' were confirmed", count, gigTitles[key.gigID])
		}
		s.notif.Emit(ctx, &notifdto.CreateNotificationRequest{
			UserID:  key.musicianID,
			Title:   "Booking confirmed",
			Message: message,
			Type:    notifentity.TypeStatusChanged,
		})
	}
	return resp, nil
}

// ApplyRemoteResponse maps a provider attendee response onto the state
// machine. Unknown or needsAction responses keep the slot invited.
func (s *StatusService) ApplyRemoteResponse(ctx context.Context, roleID uuid.UUID, responseStatus string) *errors.AppError {
	var status gigentity.InvitationStatus
	switch responseStatus {
	case "accepted":
		status = gigentity.InvitationStatusAccepted
	case "declined":
		status = gigentity.InvitationStatusDeclined
	case "tentative":
		status = gigentity.InvitationStatusTentative
	default:
		return nil
	}

	role, gig, appErr := s.loadRoleAndGig(ctx, roleID)
	if appErr != nil {
		return appErr
	}
	if role.InvitationStatus == status {
		return nil
	}

	if appErr := s.transition(ctx, role, status, role.MusicianID, nil); appErr != nil {
		// A stale webhook racing a newer local change is not an error worth
		// surfacing to the provider.
		logger.Warn("StatusService:ApplyRemoteResponse:Skipped", "roleID", roleID, "response", responseStatus, "error", appErr)
		return nil
	}

	s.notifyOwner(ctx, gig, role, status)
	return nil
}

// GetHistory returns the audit trail for a role, visible to the gig owner
// and the assigned musician.
func (s *StatusService) GetHistory(ctx context.Context, userID uuid.UUID, roleID uuid.UUID) ([]dto.HistoryEntryResponse, *errors.AppError) {
	role, gig, appErr := s.loadRoleAndGig(ctx, roleID)
	if appErr != nil {
		return nil, appErr
	}
	isOwner := gig.OwnerID == userID
	isAssignee := role.MusicianID != nil && *role.MusicianID == userID
	if !isOwner && !isAssignee {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not allowed to view this history", nil)
	}

	entries, err := s.repo.GetStatusHistory(ctx, roleID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load status history", err)
	}

	result := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := dto.HistoryEntryResponse{
			OldStatus: string(entry.OldStatus),
			NewStatus: string(entry.NewStatus),
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		}
		if entry.ChangedBy != nil {
			changedBy := entry.ChangedBy.String()
			item.ChangedBy = &changedBy
		}
		result = append(result, item)
	}
	return result, nil
}

// PreviewInvite shows a magic-link holder the gig and slot before they
// answer. Viewing does not consume the link.
func (s *StatusService) PreviewInvite(ctx context.Context, token string) (*dto.InvitePreviewResponse, *errors.AppError) {
	role, gig, appErr := s.verifyInviteToken(ctx, token)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.InvitePreviewResponse{
		Role: gigdto.ToRoleResponse(role),
		Gig:  gigdto.ToGigResponse(gig, nil),
	}, nil
}

// RedeemInviteToken answers an email invitation. The token is single-use:
// the first answer wins, replays fail with AlreadyProcessed.
func (s *StatusService) RedeemInviteToken(ctx context.Context, req *dto.RedeemRequest) (*gigdto.RoleResponse, *errors.AppError) {
	status := gigentity.InvitationStatus(req.Status)
	if !selfServiceStatuses[status] {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Status must be accepted, declined, tentative or needs_sub", nil)
	}

	role, gig, appErr := s.verifyInviteToken(ctx, req.Token)
	if appErr != nil {
		return nil, appErr
	}

	_, jti, appErr := utils.ParseInviteToken(req.Token)
	if appErr != nil {
		return nil, appErr
	}
	fresh, err := s.cache.MarkInviteTokenUsed(ctx, jti, constants.InviteTokenTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to verify invitation link", err)
	}
	if !fresh {
		return nil, errors.NewAppError(errors.ErrAlreadyProcessed, "This invitation link was already used", nil)
	}

	if appErr := s.transition(ctx, role, status, role.MusicianID, req.Note); appErr != nil {
		return nil, appErr
	}

	s.notifyOwner(ctx, gig, role, status)
	return gigdto.ToRoleResponse(role), nil
}

// verifyInviteToken parses a magic-link token and checks it against the
// hash stored on the role, so a leaked signing key alone cannot forge
// redemptions for stale links.
func (s *StatusService) verifyInviteToken(ctx context.Context, token string) (*gigentity.GigRole, *gigentity.Gig, *errors.AppError) {
	roleID, _, appErr := utils.ParseInviteToken(token)
	if appErr != nil {
		return nil, nil, appErr
	}

	role, gig, appErr := s.loadRoleAndGig(ctx, roleID)
	if appErr != nil {
		return nil, nil, appErr
	}
	if role.InviteTokenHash == nil {
		return nil, nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "No email invitation is active for this slot", nil)
	}
	if err := compareInviteToken(*role.InviteTokenHash, token); err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Invalid invitation token", err)
	}
	return role, gig, nil
}

func (s *StatusService) loadRoleAndGig(ctx context.Context, roleID uuid.UUID) (*gigentity.GigRole, *gigentity.Gig, *errors.AppError) {
	role, err := s.gigRepo.GetRoleByID(ctx, roleID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get role", err)
	}
	if role == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "Role not found", nil)
	}

	gig, err := s.gigRepo.GetGigByID(ctx, role.GigID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get gig", err)
	}
	if gig == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "Gig not found", nil)
	}
	return role, gig, nil
}

func (s *StatusService) notifyOwner(ctx context.Context, gig *gigentity.Gig, role *gigentity.GigRole, status gigentity.InvitationStatus) {
	who := role.RecipientName()
	if who == "" {
		who = role.RoleName
	}
	s.notif.Emit(ctx, &notifdto.CreateNotificationRequest{
		UserID:  gig.OwnerID,
		Title:   "Invitation update",
		Message: fmt.Sprintf("%s is now %s for '%s' (%s)", who, status, gig.Title, role.RoleName),
		Type:    notifentity.TypeInviteResponse,
		Data: map[string]interface{}{
			"gig_id":  gig.ID.String(),
			"role_id": role.ID.String(),
			"status":  string(status),
		},
	})
}

func (s *StatusService) notifyMusician(ctx context.Context, gig *gigentity.Gig, role *gigentity.GigRole, status gigentity.InvitationStatus) {
	if role.MusicianID == nil {
		return
	}
	s.notif.Emit(ctx, &notifdto.CreateNotificationRequest{
		UserID:  *role.MusicianID,
		Title:   "Booking update",
		Message: fmt.Sprintf("Your %s slot for '%s' is now %s", role.RoleName, gig.Title, status),
		Type:    notifentity.TypeStatusChanged,
		Data: map[string]interface{}{
			"gig_id":  gig.ID.String(),
			"role_id": role.ID.String(),
			"status":  string(status),
		},
	})
}
