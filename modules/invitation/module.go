package invitation

import (
	"gig-roster-api/core/cache"
	"gig-roster-api/core/config"
	"gig-roster-api/core/database"
	"gig-roster-api/core/middleware"
	"gig-roster-api/core/utils"
	calendarservice "gig-roster-api/modules/calendar/service"
	gigrepo "gig-roster-api/modules/gig/repository"
	gigservice "gig-roster-api/modules/gig/service"
	"gig-roster-api/modules/invitation/controller"
	"gig-roster-api/modules/invitation/repository"
	"gig-roster-api/modules/invitation/router"
	"gig-roster-api/modules/invitation/service"
	notifservice "gig-roster-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the invitation module and registers routes. It sits on
// top of the gig, calendar and notification modules, which must be
// initialized first.
func Init(
	e *echo.Echo,
	db database.IDatabase,
	mw *middleware.Middleware,
	cfg *config.Config,
	gigSvc gigservice.GigServiceInterface,
	calendarSvc calendarservice.CalendarServiceInterface,
	notifSvc *notifservice.NotificationService,
	mailer utils.Mailer,
	c cache.Cache,
) {
	repo := repository.NewInvitationRepository(db)
	gigRepo := gigrepo.NewGigRepository(db)

	statusSvc := service.NewStatusService(repo, gigRepo, notifSvc, c)
	dispatcherSvc := service.NewDispatcherService(repo, gigSvc, gigRepo, calendarSvc, mailer, notifSvc, cfg)
	webhookSvc := service.NewWebhookService(gigRepo, calendarSvc, statusSvc, c)

	ctrl := controller.NewInvitationController(dispatcherSvc, statusSvc, webhookSvc)
	rtr := router.NewInvitationRouter(ctrl)
	rtr.Setup(e, mw)
}
