package gig

import (
	"gig-roster-api/core/database"
	"gig-roster-api/core/middleware"
	"gig-roster-api/modules/gig/controller"
	"gig-roster-api/modules/gig/repository"
	"gig-roster-api/modules/gig/router"
	"gig-roster-api/modules/gig/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the gig module and registers routes. The calendar gateway
// comes from the calendar module, which must be initialized first.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, calendar service.CalendarGateway) service.GigServiceInterface {
	repo := repository.NewGigRepository(db)
	svc := service.NewGigService(repo, calendar)
	ctrl := controller.NewGigController(svc)
	rtr := router.NewGigRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
