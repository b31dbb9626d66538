package controller

import (
	"net/http"

	"gig-roster-api/core/constants"
	"gig-roster-api/core/controller"
	"gig-roster-api/core/errors"
	"gig-roster-api/core/utils"
	"gig-roster-api/modules/invitation/dto"
	"gig-roster-api/modules/invitation/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InvitationController handles invitation HTTP requests, including the
// public magic-link and webhook endpoints.
type InvitationController struct {
	controller.BaseController
	Dispatcher service.DispatcherServiceInterface
	Status     service.StatusServiceInterface
	Webhook    service.WebhookServiceInterface
}

// NewInvitationController creates a new controller
func NewInvitationController(dispatcher service.DispatcherServiceInterface, status service.StatusServiceInterface, webhook service.WebhookServiceInterface) *InvitationController {
	return &InvitationController{
		BaseController: controller.NewBaseController(),
		Dispatcher:     dispatcher,
		Status:         status,
		Webhook:        webhook,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *InvitationController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	data, ok := tokenData.(*utils.TokenData)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return data.UserID, nil
}

// SendInvites handles POST /gigs/:id/invitations
func (c *InvitationController) SendInvites(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	gigID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid gig id")
	}

	var req dto.SendInvitesRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.Dispatcher.SendInvites(ctx.Request().Context(), userID, gigID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Invitations dispatched")
}

// Reinvite handles POST /invitations/:roleId/reinvite
func (c *InvitationController) Reinvite(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	roleID, err := uuid.Parse(ctx.Param("roleId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid role id")
	}

	result, appErr := c.Dispatcher.Reinvite(ctx.Request().Context(), userID, roleID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Invitation re-sent")
}

// Respond handles POST /invitations/:roleId/respond
func (c *InvitationController) Respond(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	roleID, err := uuid.Parse(ctx.Param("roleId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid role id")
	}

	var req dto.RespondRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.Status == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Status is required")
	}

	result, appErr := c.Status.Respond(ctx.Request().Context(), userID, roleID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Response recorded")
}

// SetStatus handles PUT /invitations/:roleId/status
func (c *InvitationController) SetStatus(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	roleID, err := uuid.Parse(ctx.Param("roleId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid role id")
	}

	var req dto.SetStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.Status == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Status is required")
	}

	result, appErr := c.Status.ManagerSetStatus(ctx.Request().Context(), userID, roleID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Status updated")
}

// BulkAccept handles POST /invitations/bulk-accept
func (c *InvitationController) BulkAccept(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.BulkAcceptRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if len(req.RoleIDs) == 0 {
		return c.BadRequest(errors.ErrInvalidRequestData, "At least one role id is required")
	}

	result, appErr := c.Status.BulkAccept(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Bulk accept processed")
}

// GetHistory handles GET /invitations/:roleId/history
func (c *InvitationController) GetHistory(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	roleID, err := uuid.Parse(ctx.Param("roleId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid role id")
	}

	result, appErr := c.Status.GetHistory(ctx.Request().Context(), userID, roleID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "History retrieved")
}

// PreviewInvite handles GET /public/invitations/preview?token=...
func (c *InvitationController) PreviewInvite(ctx echo.Context) error {
	token := ctx.QueryParam("token")
	if token == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing invitation token")
	}

	result, appErr := c.Status.PreviewInvite(ctx.Request().Context(), token)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Invitation retrieved")
}

// RedeemInvite handles POST /public/invitations/redeem
func (c *InvitationController) RedeemInvite(ctx echo.Context) error {
	var req dto.RedeemRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.Token == "" || req.Status == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Token and status are required")
	}

	result, appErr := c.Status.RedeemInviteToken(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Response recorded")
}

// CalendarWebhook handles POST /public/calendar/webhook. Google expects a
// bare 2xx regardless of what we make of the notification.
func (c *InvitationController) CalendarWebhook(ctx echo.Context) error {
	channelID := ctx.Request().Header.Get("X-Goog-Channel-ID")
	resourceID := ctx.Request().Header.Get("X-Goog-Resource-ID")
	state := ctx.Request().Header.Get("X-Goog-Resource-State")
	messageNumber := ctx.Request().Header.Get("X-Goog-Message-Number")

	c.Webhook.HandleCalendarPush(ctx.Request().Context(), channelID, resourceID, state, messageNumber)
	return ctx.NoContent(http.StatusOK)
}
