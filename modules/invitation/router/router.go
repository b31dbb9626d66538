package router

import (
	"gig-roster-api/core/middleware"
	"gig-roster-api/modules/invitation/controller"

	"github.com/labstack/echo/v4"
)

// InvitationRouter handles invitation routes
type InvitationRouter struct {
	InvitationController *controller.InvitationController
}

// NewInvitationRouter creates a new router
func NewInvitationRouter(invitationController *controller.InvitationController) *InvitationRouter {
	return &InvitationRouter{
		InvitationController: invitationController,
	}
}

// Setup registers invitation routes
func (r *InvitationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")
	publicRoutes := v1.Group("/public")

	// Dispatch lives under the gig, responses under the role
	gigRoutes := privateRoutes.Group("/gigs", mw.AuthMiddleware())
	gigRoutes.POST("/:id/invitations", r.InvitationController.SendInvites)

	inviteRoutes := privateRoutes.Group("/invitations", mw.AuthMiddleware())
	inviteRoutes.POST("/:roleId/respond", r.InvitationController.Respond)
	inviteRoutes.PUT("/:roleId/status", r.InvitationController.SetStatus)
	inviteRoutes.POST("/:roleId/reinvite", r.InvitationController.Reinvite)
	inviteRoutes.GET("/:roleId/history", r.InvitationController.GetHistory)
	inviteRoutes.POST("/bulk-accept", r.InvitationController.BulkAccept)

	// Magic-link endpoints, reached from the email without a session
	publicRoutes.GET("/invitations/preview", r.InvitationController.PreviewInvite)
	publicRoutes.POST("/invitations/redeem", r.InvitationController.RedeemInvite)

	// Google push endpoint
	publicRoutes.POST("/calendar/webhook", r.InvitationController.CalendarWebhook)
}
