package router

import (
	"gig-roster-api/core/middleware"
	"gig-roster-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

// CalendarRouter handles calendar routes
type CalendarRouter struct {
	CalendarController *controller.CalendarController
}

// NewCalendarRouter creates a new router
func NewCalendarRouter(calendarController *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		CalendarController: calendarController,
	}
}

// Setup registers calendar routes
func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	calendarRoutes := privateRoutes.Group("/calendar", mw.AuthMiddleware())

	// Connection lifecycle
	calendarRoutes.POST("/connect", r.CalendarController.ConnectGoogle)
	calendarRoutes.GET("/connections", r.CalendarController.GetConnections)
	calendarRoutes.PUT("/settings", r.CalendarController.UpdateSettings)
	calendarRoutes.DELETE("/disconnect", r.CalendarController.Disconnect)

	// Drift reconciliation
	calendarRoutes.POST("/gigs/:id/refresh", r.CalendarController.RefreshGig)
	calendarRoutes.POST("/sync", r.CalendarController.SyncAll)
}
