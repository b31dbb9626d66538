package calendar

import (
	"gig-roster-api/core/database"
	"gig-roster-api/core/middleware"
	"gig-roster-api/modules/calendar/controller"
	"gig-roster-api/modules/calendar/repository"
	"gig-roster-api/modules/calendar/router"
	"gig-roster-api/modules/calendar/service"
	gigrepo "gig-roster-api/modules/gig/repository"

	"github.com/labstack/echo/v4"
)

// Services bundles what other modules need from the calendar module.
type Services struct {
	Calendar service.CalendarServiceInterface
	Sync     service.SyncServiceInterface
}

// Init initializes the calendar module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) *Services {
	repo := repository.NewCalendarRepository(db)
	client := service.NewGoogleClient()
	refresher := service.NewOAuthTokenRefresher()

	calendarSvc := service.NewCalendarService(repo, client, refresher)
	syncSvc := service.NewSyncService(calendarSvc, gigrepo.NewGigRepository(db))

	ctrl := controller.NewCalendarController(calendarSvc, syncSvc)
	rtr := router.NewCalendarRouter(ctrl)
	rtr.Setup(e, mw)

	return &Services{Calendar: calendarSvc, Sync: syncSvc}
}
