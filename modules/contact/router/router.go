package router

import (
	"gig-roster-api/core/middleware"
	"gig-roster-api/modules/contact/controller"

	"github.com/labstack/echo/v4"
)

// ContactRouter handles contact routes
type ContactRouter struct {
	ContactController *controller.ContactController
}

// NewContactRouter creates a new router
func NewContactRouter(contactController *controller.ContactController) *ContactRouter {
	return &ContactRouter{
		ContactController: contactController,
	}
}

// Setup registers contact routes
func (r *ContactRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	contactRoutes := privateRoutes.Group("/contacts", mw.AuthMiddleware())
	contactRoutes.POST("", r.ContactController.CreateContact)
	contactRoutes.GET("", r.ContactController.GetMyContacts)
	contactRoutes.GET("/:id", r.ContactController.GetContact)
	contactRoutes.PUT("/:id", r.ContactController.UpdateContact)
	contactRoutes.DELETE("/:id", r.ContactController.DeleteContact)
}
