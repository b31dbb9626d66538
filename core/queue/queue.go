package queue

import (
	"context"
	"encoding/json"
	"time"

	"gig-roster-api/core/config"
	"gig-roster-api/core/logger"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeNotificationDeliver = "notification:deliver"
)

// NotificationPayload is the body of a notification delivery task.
type NotificationPayload struct {
	UserID  string         `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data,omitempty"`
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Queue enqueues best-effort background tasks.
type Queue struct {
	client *asynq.Client
}

func NewQueue(cfg config.RedisConfig) *Queue {
	return &Queue{client: asynq.NewClient(redisOpt(cfg))}
}

// EnqueueNotification schedules a notification delivery. Callers treat
// failures as non-fatal; the error is returned only for logging.
func (q *Queue) EnqueueNotification(ctx context.Context, payload *NotificationPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeNotificationDeliver, b)
	_, err = q.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Second),
	)
	return err
}

func (q *Queue) Close() error {
	return q.client.Close()
}

// Worker runs the in-process task handlers.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig) *Worker {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 5,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:TaskFailed", "type", task.Type(), "error", err)
		}),
	})

	return &Worker{srv: srv, mux: asynq.NewServeMux()}
}

func (w *Worker) HandleFunc(pattern string, handler func(context.Context, *asynq.Task) error) {
	w.mux.HandleFunc(pattern, handler)
}

func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
