package service

import (
	"context"

	apperrors "gig-roster-api/core/errors"
	"gig-roster-api/core/logger"
	"gig-roster-api/modules/calendar/dto"
	gigentity "gig-roster-api/modules/gig/entity"
	gigrepo "gig-roster-api/modules/gig/repository"

	"github.com/google/uuid"
)

// SyncServiceInterface reconciles externally-imported gigs against their
// live provider events.
type SyncServiceInterface interface {
	Refresh(ctx context.Context, userID uuid.UUID, gigID uuid.UUID, apply bool) (*dto.DriftResult, *apperrors.AppError)
	SyncAll(ctx context.Context, userID uuid.UUID) (*dto.RefreshResult, *apperrors.AppError)
}

type syncService struct {
	calendar CalendarServiceInterface
	gigRepo  gigrepo.GigRepositoryInterface
}

func NewSyncService(calendar CalendarServiceInterface, gigRepo gigrepo.GigRepositoryInterface) SyncServiceInterface {
	return &syncService{calendar: calendar, gigRepo: gigRepo}
}

// Comparison set: the only columns drift reconciliation may write. Earnings,
// setlists and player notes stay local even when the remote side is
// canonical.
var driftColumns = map[string]string{
	"title":    "title",
	"date":     "gig_date",
	"start":    "start_time",
	"end":      "end_time",
	"venue":    "venue_name",
	"notes":    "notes",
	"schedule": "schedule_text",
}

// Refresh fetches the live remote event behind an external gig, diffs it
// field-by-field against the stored copy and, when apply is set, writes only
// the diffed fields back. No diff is a normal outcome.
func (s *syncService) Refresh(ctx context.Context, userID uuid.UUID, gigID uuid.UUID, apply bool) (*dto.DriftResult, *apperrors.AppError) {
	gig, err := s.gigRepo.GetGigByID(ctx, gigID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to get gig", err)
	}
	if gig == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Gig not found", nil)
	}
	if !gig.IsExternal || gig.ExternalEventID == nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "Gig is not calendar-sourced", nil)
	}

	if gig.OwnerID != userID {
		member, err := s.gigRepo.IsLineupMember(ctx, gigID, userID)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to check lineup membership", err)
		}
		if !member {
			return nil, apperrors.NewAppError(apperrors.ErrForbidden, "Not allowed to sync this gig", nil)
		}
	}

	event, appErr := s.calendar.GetEventForUser(ctx, userID, *gig.ExternalEventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status == "cancelled" {
		return nil, apperrors.NewAppError(apperrors.ErrRemoteNotFound, "Remote event was cancelled", nil)
	}

	changes := diffAgainstRemote(gig, event)
	result := &dto.DriftResult{
		HasChanges: len(changes) > 0,
		Changes:    changes,
	}

	if apply && len(changes) > 0 {
		fields := make(map[string]any, len(changes))
		for _, change := range changes {
			col, ok := driftColumns[change.Field]
			if !ok {
				continue
			}
			if change.Remote != nil {
				fields[col] = *change.Remote
			} else {
				fields[col] = nil
			}
		}
		if err := s.gigRepo.UpdateGigFields(ctx, gig.ID, fields); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrUpdateFailed, "Failed to apply remote changes", err)
		}
		result.Applied = true
		logger.Info("SyncService:Refresh:Applied", "gigID", gigID, "fields", len(fields))
	}
	return result, nil
}

// SyncAll reconciles every upcoming external gig the user owns, applying
// drift as it goes. Per-gig failures are collected, not fatal.
func (s *syncService) SyncAll(ctx context.Context, userID uuid.UUID) (*dto.RefreshResult, *apperrors.AppError) {
	gigs, err := s.gigRepo.GetExternalGigsByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to list external gigs", err)
	}

	result := &dto.RefreshResult{}
	for i := range gigs {
		result.Checked++
		drift, appErr := s.Refresh(ctx, userID, gigs[i].ID, true)
		if appErr != nil {
			if appErr.Code == apperrors.ErrCalendarNotConnected {
				return nil, appErr
			}
			result.Failures = append(result.Failures, gigs[i].ID.String()+": "+appErr.Message)
			continue
		}
		if drift.HasChanges {
			result.Drifted++
		}
		if drift.Applied {
			result.Applied++
		}
	}
	return result, nil
}

// diffAgainstRemote re-derives the comparable fields from the remote event
// and diffs them null-safely against the stored gig.
func diffAgainstRemote(gig *gigentity.Gig, event *dto.GoogleEvent) []dto.DriftChange {
	var changes []dto.DriftChange
	add := func(field string, local, remote *string) {
		if !ptrEqual(local, remote) {
			changes = append(changes, dto.DriftChange{Field: field, Local: local, Remote: remote})
		}
	}

	remoteTitle := event.Summary
	add("title", strPtr(gig.Title), strPtr(remoteTitle))

	date, start, end, winErr := RemoteWindow(event, localLocation())
	if winErr == nil {
		add("date", strPtr(gig.Date), strPtr(date))
		add("start", gig.StartTime, start)
		add("end", gig.EndTime, end)
	} else {
		logger.Warn("SyncService:diffAgainstRemote:UnparsableWindow", "eventID", event.ID, "error", winErr)
	}

	var remoteVenue *string
	if event.Location != "" {
		remoteVenue = &event.Location
	}
	add("venue", gig.VenueName, remoteVenue)

	parsed := ParseEventDescription(event.Description)
	var remoteNotes, remoteSchedule *string
	if parsed.Notes != "" {
		remoteNotes = &parsed.Notes
	}
	if parsed.ScheduleText != "" {
		remoteSchedule = &parsed.ScheduleText
	}
	add("notes", gig.Notes, remoteNotes)
	add("schedule", gig.ScheduleText, remoteSchedule)

	return changes
}

func ptrEqual(a, b *string) bool {
	if a == nil || *a == "" {
		return b == nil || *b == ""
	}
	if b == nil {
		return false
	}
	return *a == *b
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
