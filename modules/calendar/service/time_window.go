package service

import (
	"time"

	"gig-roster-api/core/constants"
	"gig-roster-api/core/errors"
	"gig-roster-api/modules/calendar/dto"
	gigentity "gig-roster-api/modules/gig/entity"
)

// ResolveEventWindow maps a gig's partial clock fields to the absolute
// timestamps a provider event needs.
//
// Start is the earliest of call and start time; with neither set the default
// evening start applies. End resolution order: explicit end, on-stage plus
// the standard set length, start plus the standard set length, call plus the
// call buffer. An end at or before the start is taken to run past midnight
// and rolls to the next day.
func ResolveEventWindow(g *gigentity.Gig, loc *time.Location) (time.Time, time.Time, *errors.AppError) {
	day, err := time.ParseInLocation("2006-01-02", g.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidSchedule, "Gig date must be YYYY-MM-DD", err)
	}

	startClock := constants.DefaultGigStartTime
	switch {
	case hasClock(g.CallTime) && hasClock(g.StartTime):
		startClock = minClockStr(*g.CallTime, *g.StartTime)
	case hasClock(g.CallTime):
		startClock = *g.CallTime
	case hasClock(g.StartTime):
		startClock = *g.StartTime
	}

	start, err := atClock(day, startClock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidSchedule, "Times must be HH:MM", err)
	}

	var end time.Time
	switch {
	case hasClock(g.EndTime):
		end, err = atClock(day, *g.EndTime, loc)
	case hasClock(g.OnStageTime):
		end, err = atClock(day, *g.OnStageTime, loc)
		end = end.Add(constants.DefaultDurationFromStart)
	case hasClock(g.StartTime):
		end, err = atClock(day, *g.StartTime, loc)
		end = end.Add(constants.DefaultDurationFromStart)
	case hasClock(g.CallTime):
		end, err = atClock(day, *g.CallTime, loc)
		end = end.Add(constants.DefaultDurationFromCall)
	default:
		end = start.Add(constants.DefaultDurationFromStart)
	}
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidSchedule, "Times must be HH:MM", err)
	}

	// A show ending "earlier" than it starts runs past midnight.
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// RemoteWindow maps a provider event's start/end back to local gig fields.
// Timed events yield a date plus HH:MM strings; all-day events yield only
// the date.
func RemoteWindow(event *dto.GoogleEvent, loc *time.Location) (string, *string, *string, *errors.AppError) {
	if event.Start == nil {
		return "", nil, nil, errors.NewAppError(errors.ErrInvalidSchedule, "Event has no start", nil)
	}

	if event.Start.Date != "" {
		if _, err := time.Parse("2006-01-02", event.Start.Date); err != nil {
			return "", nil, nil, errors.NewAppError(errors.ErrInvalidSchedule, "Unparsable event date", err)
		}
		return event.Start.Date, nil, nil, nil
	}

	startAt, err := time.Parse(time.RFC3339, event.Start.DateTime)
	if err != nil {
		return "", nil, nil, errors.NewAppError(errors.ErrInvalidSchedule, "Unparsable event start", err)
	}
	startAt = startAt.In(loc)

	date := startAt.Format("2006-01-02")
	startClock := startAt.Format("15:04")

	var endClock *string
	if event.End != nil && event.End.DateTime != "" {
		endAt, err := time.Parse(time.RFC3339, event.End.DateTime)
		if err != nil {
			return "", nil, nil, errors.NewAppError(errors.ErrInvalidSchedule, "Unparsable event end", err)
		}
		clock := endAt.In(loc).Format("15:04")
		endClock = &clock
	}
	return date, &startClock, endClock, nil
}

func localLocation() *time.Location {
	return time.Local
}

func hasClock(s *string) bool {
	return s != nil && *s != ""
}

func minClockStr(a, b string) string {
	if a < b {
		return a
	}
	return b
}

func atClock(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
