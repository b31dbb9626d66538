package service

import (
	"context"
	"strings"

	"gig-roster-api/core/cache"
	"gig-roster-api/core/constants"
	"gig-roster-api/core/logger"
	calendarservice "gig-roster-api/modules/calendar/service"
	gigrepo "gig-roster-api/modules/gig/repository"
)

// Google sends state "sync" once when a channel is registered.
const webhookStateSync = "sync"

type WebhookServiceInterface interface {
	HandleCalendarPush(ctx context.Context, channelID, resourceID, state, messageNumber string)
}

// WebhookService turns provider push notifications into invitation status
// changes. Every outcome is absorbed: the provider only ever needs a 200,
// and anything unusual goes to the log.
type WebhookService struct {
	gigRepo  gigrepo.GigRepositoryInterface
	calendar calendarservice.CalendarServiceInterface
	status   StatusServiceInterface
	cache    cache.Cache
}

func NewWebhookService(gigRepo gigrepo.GigRepositoryInterface, calendar calendarservice.CalendarServiceInterface, status StatusServiceInterface, c cache.Cache) *WebhookService {
	return &WebhookService{gigRepo: gigRepo, calendar: calendar, status: status, cache: c}
}

func (s *WebhookService) HandleCalendarPush(ctx context.Context, channelID, resourceID, state, messageNumber string) {
	if channelID == "" || state == webhookStateSync {
		// sync is the registration handshake, nothing to process
		return
	}

	if messageNumber != "" {
		fresh, err := s.cache.MarkWebhookSeen(ctx, channelID+":"+messageNumber, constants.WebhookDedupeTTL)
		if err != nil {
			logger.Warn("WebhookService:HandleCalendarPush:DedupeFailed", "channelID", channelID, "error", err)
		} else if !fresh {
			return
		}
	}

	watch, appErr := s.calendar.ResolveWatch(ctx, channelID)
	if appErr != nil {
		logger.Error("WebhookService:HandleCalendarPush:ResolveFailed", "channelID", channelID, "error", appErr)
		return
	}
	if watch == nil {
		// Expired or foreign channel. Google keeps pushing until the channel
		// TTL runs out, so this is routine.
		logger.Info("WebhookService:HandleCalendarPush:UnknownChannel", "channelID", channelID)
		return
	}

	role, err := s.gigRepo.GetRoleByID(ctx, watch.RoleID)
	if err != nil || role == nil {
		logger.Warn("WebhookService:HandleCalendarPush:RoleGone", "roleID", watch.RoleID, "error", err)
		return
	}

	event, appErr := s.calendar.GetEventForUser(ctx, watch.UserID, watch.EventID)
	if appErr != nil {
		logger.Warn("WebhookService:HandleCalendarPush:FetchFailed", "eventID", watch.EventID, "error", appErr)
		return
	}
	if event.Status == "cancelled" {
		// The organizer deleted the event from the calendar side. The slot
		// keeps its status; the next dispatch will mint a fresh event.
		logger.Info("WebhookService:HandleCalendarPush:EventCancelled", "roleID", role.ID)
		return
	}

	recipient := strings.ToLower(role.RecipientEmail())
	for _, attendee := range event.Attendees {
		if attendee.Self || !strings.EqualFold(strings.TrimSpace(attendee.Email), recipient) {
			continue
		}
		if appErr := s.status.ApplyRemoteResponse(ctx, role.ID, attendee.ResponseStatus); appErr != nil {
			logger.Error("WebhookService:HandleCalendarPush:ApplyFailed", "roleID", role.ID, "error", appErr)
		}
		return
	}
}
