package router

import (
	"gig-roster-api/core/middleware"
	"gig-roster-api/modules/gig/controller"

	"github.com/labstack/echo/v4"
)

// GigRouter handles gig routes
type GigRouter struct {
	GigController *controller.GigController
}

// NewGigRouter creates a new router
func NewGigRouter(gigController *controller.GigController) *GigRouter {
	return &GigRouter{
		GigController: gigController,
	}
}

// Setup registers gig routes
func (r *GigRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")
	publicRoutes := v1.Group("/public")

	gigRoutes := privateRoutes.Group("/gigs", mw.AuthMiddleware())

	// CRUD
	gigRoutes.POST("", r.GigController.CreateGig)
	gigRoutes.GET("", r.GigController.GetMyGigs)
	gigRoutes.GET("/:id", r.GigController.GetGig)
	gigRoutes.PUT("/:id", r.GigController.UpdateGig)
	gigRoutes.DELETE("/:id", r.GigController.DeleteGig)

	// Lineup
	gigRoutes.POST("/:id/roles", r.GigController.AddRole)
	gigRoutes.DELETE("/roles/:roleId", r.GigController.RemoveRole)

	// Schedule conflicts, for a saved gig or a candidate window
	gigRoutes.GET("/:id/conflicts", r.GigController.CheckConflicts)
	gigRoutes.GET("/conflicts", r.GigController.CheckWindowConflicts)

	// Shareable gig page, no auth
	publicRoutes.GET("/gigs/:slug", r.GigController.GetPublicGig)
}
