package service

import (
	"context"

	"gig-roster-api/core/errors"
	"gig-roster-api/core/logger"
	"gig-roster-api/modules/gig/dto"

	"github.com/google/uuid"
)

// CheckConflicts reports everything colliding with a gig's date and explicit
// time window: other local gigs the owner is on, and provider calendar
// events. Conflict checking is advisory; the provider side degrades to empty
// when the calendar is unreachable or not connected, and local results are
// still returned.
//
// A gig or event missing an explicit time bound is treated as spanning the
// whole day and always conflicts.
func (s *GigService) CheckConflicts(ctx context.Context, ownerID uuid.UUID, gigID uuid.UUID) (*dto.ConflictResponse, *errors.AppError) {
	gig, appErr := s.GetOwnedGig(ctx, ownerID, gigID)
	if appErr != nil {
		return nil, appErr
	}

	var candStart, candEnd string
	if gig.StartTime != nil && gig.EndTime != nil {
		candStart, candEnd = *gig.StartTime, *gig.EndTime
	}

	// Events the dispatcher created for this gig's own lineup must not be
	// reported as collisions with it.
	ownEventIDs := map[string]bool{}
	if gig.ExternalEventID != nil {
		ownEventIDs[*gig.ExternalEventID] = true
	}
	roles, err := s.repo.GetRolesByGigID(ctx, gigID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load gig roles", err)
	}
	for i := range roles {
		if roles[i].CalendarEventID != nil {
			ownEventIDs[*roles[i].CalendarEventID] = true
		}
	}

	return s.collectConflicts(ctx, ownerID, gig.Date, candStart, candEnd, gig.ID, ownEventIDs)
}

// CheckWindowConflicts runs the same detection for a date and time window
// that is not a saved gig yet, so a booking form can warn before anything is
// persisted. Missing time bounds make the candidate span the whole day.
func (s *GigService) CheckWindowConflicts(ctx context.Context, userID uuid.UUID, date string, startTime, endTime *string) (*dto.ConflictResponse, *errors.AppError) {
	if appErr := validateSchedule(date, startTime, endTime); appErr != nil {
		return nil, appErr
	}

	var candStart, candEnd string
	if startTime != nil && *startTime != "" && endTime != nil && *endTime != "" {
		candStart, candEnd = *startTime, *endTime
	}

	return s.collectConflicts(ctx, userID, date, candStart, candEnd, uuid.Nil, nil)
}

func (s *GigService) collectConflicts(ctx context.Context, userID uuid.UUID, date, candStart, candEnd string, excludeGigID uuid.UUID, ownEventIDs map[string]bool) (*dto.ConflictResponse, *errors.AppError) {
	resp := &dto.ConflictResponse{Conflicts: []dto.ConflictItem{}}

	sameDay, err := s.repo.GetGigsForUserOnDate(ctx, userID, date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load gigs for date", err)
	}
	for i := range sameDay {
		other := &sameDay[i]
		if other.ID == excludeGigID {
			continue
		}
		// Skip the mirror of this gig that sync imported from the calendar.
		if other.IsExternal && other.ExternalEventID != nil && ownEventIDs[*other.ExternalEventID] {
			continue
		}

		var oStart, oEnd string
		if other.StartTime != nil && other.EndTime != nil {
			oStart, oEnd = *other.StartTime, *other.EndTime
		}
		if windowsConflict(candStart, candEnd, oStart, oEnd) {
			resp.Conflicts = append(resp.Conflicts, dto.ConflictItem{
				Source:    "gig",
				ID:        other.ID.String(),
				Title:     other.Title,
				Date:      other.Date,
				StartTime: oStart,
				EndTime:   oEnd,
			})
		}
	}

	busy, calErr := s.calendar.ListBusyIntervals(ctx, userID, date)
	if calErr != nil {
		logger.Warn("GigService:collectConflicts:CalendarUnavailable", "date", date, "error", calErr)
	}
	for _, b := range busy {
		if b.EventID != "" && ownEventIDs[b.EventID] {
			continue
		}
		if windowsConflict(candStart, candEnd, b.Start, b.End) {
			resp.Conflicts = append(resp.Conflicts, dto.ConflictItem{
				Source:    "calendar",
				ID:        b.EventID,
				Title:     b.Title,
				Date:      date,
				StartTime: b.Start,
				EndTime:   b.End,
			})
		}
	}

	resp.HasConflicts = len(resp.Conflicts) > 0
	return resp, nil
}

// windowsConflict compares two HH:MM windows on the same date. An empty
// bound on either side means that side spans the whole day, which always
// conflicts.
func windowsConflict(aStart, aEnd, bStart, bEnd string) bool {
	if aStart == "" || aEnd == "" || bStart == "" || bEnd == "" {
		return true
	}
	return timesOverlap(aStart, aEnd, bStart, bEnd)
}

// timesOverlap reports whether two half-open HH:MM intervals intersect.
// Lexicographic comparison is correct for zero-padded clock strings, and
// back-to-back bookings do not count as a conflict.
func timesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
