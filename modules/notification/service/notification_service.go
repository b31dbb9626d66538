package service

import (
	"context"
	"encoding/json"
	"time"

	coreEntity "gig-roster-api/core/entity"
	"gig-roster-api/core/logger"
	"gig-roster-api/core/params"
	"gig-roster-api/core/queue"
	"gig-roster-api/modules/notification/dto"
	"gig-roster-api/modules/notification/entity"
	"gig-roster-api/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type NotificationService struct {
	repo  *repository.NotificationRepository
	queue *queue.Queue
}

func NewNotificationService(repo *repository.NotificationRepository, q *queue.Queue) *NotificationService {
	return &NotificationService{repo: repo, queue: q}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	return s.repo.Create(ctx, notif)
}

// Emit queues a notification for background delivery. Best-effort by
// contract: a broken queue falls back to a direct write, and even that
// failing only logs. Callers never see an error.
func (s *NotificationService) Emit(ctx context.Context, req *dto.CreateNotificationRequest) {
	payload := &queue.NotificationPayload{
		UserID:  req.UserID.String(),
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    req.Data,
	}

	if err := s.queue.EnqueueNotification(ctx, payload); err != nil {
		logger.Warn("NotificationService:Emit:EnqueueFailed", "userID", req.UserID, "error", err)
		if err := s.Create(ctx, req); err != nil {
			logger.Error("NotificationService:Emit:FallbackFailed", "userID", req.UserID, "error", err)
		}
	}
}

// HandleDeliverTask is the asynq worker callback that persists a queued
// notification.
func (s *NotificationService) HandleDeliverTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.NotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("NotificationService:HandleDeliverTask:BadPayload", "error", err)
		return err
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		logger.Error("NotificationService:HandleDeliverTask:BadUserID", "userID", payload.UserID, "error", err)
		return nil // not retryable
	}

	return s.Create(ctx, &dto.CreateNotificationRequest{
		UserID:  userID,
		Title:   payload.Title,
		Message: payload.Message,
		Type:    payload.Type,
		Data:    payload.Data,
	})
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
