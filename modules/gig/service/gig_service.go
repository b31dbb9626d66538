package service

import (
	"context"
	"time"

	"gig-roster-api/core/errors"
	"gig-roster-api/core/logger"
	"gig-roster-api/core/utils"
	"gig-roster-api/modules/gig/dto"
	"gig-roster-api/modules/gig/entity"
	"gig-roster-api/modules/gig/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// CalendarGateway is the slice of the calendar module the gig module needs:
// busy intervals for conflict checks and cleanup of per-role artifacts when a
// gig or slot goes away. All cleanup calls are best-effort.
type CalendarGateway interface {
	ListBusyIntervals(ctx context.Context, userID uuid.UUID, date string) ([]BusyInterval, *errors.AppError)
	DeleteEventForUser(ctx context.Context, userID uuid.UUID, eventID string) *errors.AppError
	RemoveWatchForRole(ctx context.Context, roleID uuid.UUID) *errors.AppError
}

// BusyInterval is one provider-side event on a given date. Start and End are
// HH:MM clock strings; both empty means an all-day event.
type BusyInterval struct {
	EventID string
	Title   string
	Start   string
	End     string
}

// GigService handles gig and lineup business logic
type GigService struct {
	repo     repository.GigRepositoryInterface
	calendar CalendarGateway
}

// GigServiceInterface defines the service contract
type GigServiceInterface interface {
	CreateGig(ctx context.Context, ownerID uuid.UUID, req *dto.CreateGigRequest) (*dto.GigResponse, *errors.AppError)
	GetGig(ctx context.Context, userID uuid.UUID, gigID uuid.UUID) (*dto.GigResponse, *errors.AppError)
	GetPublicGig(ctx context.Context, slugStr string) (*dto.GigResponse, *errors.AppError)
	GetMyGigs(ctx context.Context, userID uuid.UUID) ([]dto.GigResponse, *errors.AppError)
	UpdateGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID, req *dto.UpdateGigRequest) (*dto.GigResponse, *errors.AppError)
	DeleteGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) *errors.AppError
	AddRole(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID, req *dto.AddRoleRequest) (*dto.RoleResponse, *errors.AppError)
	RemoveRole(ctx context.Context, ownerID uuid.UUID, roleID uuid.UUID) *errors.AppError
	GetOwnedGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) (*entity.Gig, *errors.AppError)
	CheckConflicts(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) (*dto.ConflictResponse, *errors.AppError)
	CheckWindowConflicts(ctx context.Context, userID uuid.UUID, date string, startTime, endTime *string) (*dto.ConflictResponse, *errors.AppError)
}

// NewGigService creates a new gig service
func NewGigService(repo repository.GigRepositoryInterface, calendar CalendarGateway) GigServiceInterface {
	return &GigService{repo: repo, calendar: calendar}
}

// CreateGig creates a gig owned by the caller
func (s *GigService) CreateGig(ctx context.Context, ownerID uuid.UUID, req *dto.CreateGigRequest) (*dto.GigResponse, *errors.AppError) {
	if appErr := validateSchedule(req.Date, req.CallTime, req.StartTime, req.OnStageTime, req.EndTime); appErr != nil {
		return nil, appErr
	}

	gig := &entity.Gig{
		OwnerID:      ownerID,
		Title:        req.Title,
		VenueName:    req.VenueName,
		VenueAddress: req.VenueAddress,
		Date:         req.Date,
		CallTime:     req.CallTime,
		StartTime:    req.StartTime,
		OnStageTime:  req.OnStageTime,
		EndTime:      req.EndTime,
		DressCode:    req.DressCode,
		ParkingInfo:  req.ParkingInfo,
		Notes:        req.Notes,
		ScheduleText: req.ScheduleText,
		IsPublic:     req.IsPublic,
	}

	if req.OrganizationID != nil {
		orgID, parseErr := uuid.Parse(*req.OrganizationID)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid organization id", parseErr)
		}
		gig.OrganizationID = &orgID
	}

	if req.IsPublic {
		publicSlug := slug.Make(req.Title) + "-" + utils.GenerateID()
		gig.PublicSlug = &publicSlug
	}

	created, err := s.repo.CreateGig(ctx, gig)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create gig", err)
	}

	logger.Info("GigService:CreateGig:Created", "gigID", created.ID, "ownerID", ownerID)
	return dto.ToGigResponse(created, nil), nil
}

// GetGig returns one gig with its lineup. Visible to the owner and to
// musicians holding a slot on it.
func (s *GigService) GetGig(ctx context.Context, userID uuid.UUID, gigID uuid.UUID) (*dto.GigResponse, *errors.AppError) {
	gig, err := s.repo.GetGigByID(ctx, gigID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get gig", err)
	}
	if gig == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Gig not found", nil)
	}

	if gig.OwnerID != userID {
		member, err := s.repo.IsLineupMember(ctx, gigID, userID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to check lineup membership", err)
		}
		if !member {
			return nil, errors.NewAppError(errors.ErrForbidden, "Not allowed to view this gig", nil)
		}
	}

	roles, err := s.repo.GetRolesByGigID(ctx, gigID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get gig roles", err)
	}
	return dto.ToGigResponse(gig, roles), nil
}

// GetPublicGig returns a public gig by its share slug. No authentication.
func (s *GigService) GetPublicGig(ctx context.Context, slugStr string) (*dto.GigResponse, *errors.AppError) {
	gig, err := s.repo.GetGigByPublicSlug(ctx, slugStr)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get gig", err)
	}
	if gig == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Gig not found", nil)
	}

	roles, err := s.repo.GetRolesByGigID(ctx, gig.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get gig roles", err)
	}
	return dto.ToGigResponse(gig, roles), nil
}

// GetMyGigs lists gigs owned by the caller, newest date first
func (s *GigService) GetMyGigs(ctx context.Context, userID uuid.UUID) ([]dto.GigResponse, *errors.AppError) {
	gigs, err := s.repo.GetGigsByOwner(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list gigs", err)
	}

	responses := make([]dto.GigResponse, 0, len(gigs))
	for i := range gigs {
		responses = append(responses, *dto.ToGigResponse(&gigs[i], nil))
	}
	return responses, nil
}

// UpdateGig applies the non-nil fields of req to an owned gig
func (s *GigService) UpdateGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID, req *dto.UpdateGigRequest) (*dto.GigResponse, *errors.AppError) {
	gig, appErr := s.GetOwnedGig(ctx, ownerID, gigID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Title != nil {
		gig.Title = *req.Title
	}
	if req.VenueName != nil {
		gig.VenueName = req.VenueName
	}
	if req.VenueAddress != nil {
		gig.VenueAddress = req.VenueAddress
	}
	if req.Date != nil {
		gig.Date = *req.Date
	}
	if req.CallTime != nil {
		gig.CallTime = req.CallTime
	}
	if req.StartTime != nil {
		gig.StartTime = req.StartTime
	}
	if req.OnStageTime != nil {
		gig.OnStageTime = req.OnStageTime
	}
	if req.EndTime != nil {
		gig.EndTime = req.EndTime
	}
	if req.DressCode != nil {
		gig.DressCode = req.DressCode
	}
	if req.ParkingInfo != nil {
		gig.ParkingInfo = req.ParkingInfo
	}
	if req.Notes != nil {
		gig.Notes = req.Notes
	}
	if req.ScheduleText != nil {
		gig.ScheduleText = req.ScheduleText
	}
	if req.IsPublic != nil {
		gig.IsPublic = *req.IsPublic
		if gig.IsPublic && gig.PublicSlug == nil {
			publicSlug := slug.Make(gig.Title) + "-" + utils.GenerateID()
			gig.PublicSlug = &publicSlug
		}
	}

	if appErr := validateSchedule(gig.Date, gig.CallTime, gig.StartTime, gig.OnStageTime, gig.EndTime); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.UpdateGig(ctx, gig); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update gig", err)
	}

	roles, err := s.repo.GetRolesByGigID(ctx, gigID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get gig roles", err)
	}
	return dto.ToGigResponse(gig, roles), nil
}

// DeleteGig removes an owned gig. Remote calendar events and watch channels
// created for its lineup are cleaned up best-effort first; a provider failure
// never blocks the local delete.
func (s *GigService) DeleteGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) *errors.AppError {
	gig, appErr := s.GetOwnedGig(ctx, ownerID, gigID)
	if appErr != nil {
		return appErr
	}

	roles, err := s.repo.GetRolesByGigID(ctx, gigID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to get gig roles", err)
	}

	for i := range roles {
		role := &roles[i]
		if role.CalendarEventID != nil && *role.CalendarEventID != "" {
			if delErr := s.calendar.DeleteEventForUser(ctx, ownerID, *role.CalendarEventID); delErr != nil {
				logger.Warn("GigService:DeleteGig:RemoteCleanupFailed",
					"roleID", role.ID, "eventID", *role.CalendarEventID, "error", delErr)
			}
		}
		if watchErr := s.calendar.RemoveWatchForRole(ctx, role.ID); watchErr != nil {
			logger.Warn("GigService:DeleteGig:WatchCleanupFailed", "roleID", role.ID, "error", watchErr)
		}
	}

	if err := s.repo.DeleteGig(ctx, gig.ID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete gig", err)
	}

	logger.Info("GigService:DeleteGig:Deleted", "gigID", gigID, "ownerID", ownerID)
	return nil
}

// AddRole adds a lineup slot to an owned gig in the pending state
func (s *GigService) AddRole(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID, req *dto.AddRoleRequest) (*dto.RoleResponse, *errors.AppError) {
	if _, appErr := s.GetOwnedGig(ctx, ownerID, gigID); appErr != nil {
		return nil, appErr
	}
	if req.MusicianID == nil && req.ContactID == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Role needs a musician or a contact", nil)
	}

	role := &entity.GigRole{
		GigID:            gigID,
		RoleName:         req.RoleName,
		InvitationStatus: entity.InvitationStatusPending,
	}
	if req.MusicianID != nil {
		id, parseErr := uuid.Parse(*req.MusicianID)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid musician id", parseErr)
		}
		role.MusicianID = &id
	}
	if req.ContactID != nil {
		id, parseErr := uuid.Parse(*req.ContactID)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid contact id", parseErr)
		}
		role.ContactID = &id
	}

	created, err := s.repo.CreateRole(ctx, role)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to add role", err)
	}
	return dto.ToRoleResponse(created), nil
}

// RemoveRole deletes a lineup slot from an owned gig, cleaning up any remote
// event and watch channel best-effort.
func (s *GigService) RemoveRole(ctx context.Context, ownerID uuid.UUID, roleID uuid.UUID) *errors.AppError {
	role, err := s.repo.GetRoleByID(ctx, roleID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to get role", err)
	}
	if role == nil {
		return errors.NewAppError(errors.ErrNotFound, "Role not found", nil)
	}
	if _, appErr := s.GetOwnedGig(ctx, ownerID, role.GigID); appErr != nil {
		return appErr
	}

	if role.CalendarEventID != nil && *role.CalendarEventID != "" {
		if delErr := s.calendar.DeleteEventForUser(ctx, ownerID, *role.CalendarEventID); delErr != nil {
			logger.Warn("GigService:RemoveRole:RemoteCleanupFailed",
				"roleID", role.ID, "eventID", *role.CalendarEventID, "error", delErr)
		}
	}
	if watchErr := s.calendar.RemoveWatchForRole(ctx, role.ID); watchErr != nil {
		logger.Warn("GigService:RemoveRole:WatchCleanupFailed", "roleID", role.ID, "error", watchErr)
	}

	if err := s.repo.DeleteRole(ctx, roleID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete role", err)
	}
	return nil
}

// GetOwnedGig loads a gig and enforces ownership
func (s *GigService) GetOwnedGig(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) (*entity.Gig, *errors.AppError) {
	gig, err := s.repo.GetGigByID(ctx, gigID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get gig", err)
	}
	if gig == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Gig not found", nil)
	}
	if gig.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not the gig owner", nil)
	}
	return gig, nil
}

func validateSchedule(date string, times ...*string) *errors.AppError {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.NewAppError(errors.ErrInvalidSchedule, "Date must be YYYY-MM-DD", err)
	}
	for _, t := range times {
		if t == nil || *t == "" {
			continue
		}
		if _, err := time.Parse("15:04", *t); err != nil {
			return errors.NewAppError(errors.ErrInvalidSchedule, "Times must be HH:MM", err)
		}
	}
	return nil
}
