package notification

import (
	"gig-roster-api/core/database"
	"gig-roster-api/core/middleware"
	"gig-roster-api/core/queue"
	"gig-roster-api/modules/notification/controller"
	"gig-roster-api/modules/notification/repository"
	"gig-roster-api/modules/notification/router"
	"gig-roster-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module, registers routes and the queue
// worker handler.
func Init(e *echo.Group, db database.IDatabase, mw *middleware.Middleware, q *queue.Queue, worker *queue.Worker) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, q)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)
	worker.HandleFunc(queue.TypeNotificationDeliver, svc.HandleDeliverTask)

	return svc
}
