package controller

import (
	"gig-roster-api/core/constants"
	"gig-roster-api/core/controller"
	"gig-roster-api/core/errors"
	"gig-roster-api/core/utils"
	"gig-roster-api/modules/gig/dto"
	"gig-roster-api/modules/gig/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GigController handles gig HTTP requests
type GigController struct {
	controller.BaseController
	GigService service.GigServiceInterface
}

// NewGigController creates a new controller
func NewGigController(svc service.GigServiceInterface) *GigController {
	return &GigController{
		BaseController: controller.NewBaseController(),
		GigService:     svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *GigController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateGig handles POST /gigs
func (c *GigController) CreateGig(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateGigRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.Title == "" || req.Date == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Title and date are required")
	}

	result, appErr := c.GigService.CreateGig(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Gig created successfully")
}

// GetMyGigs handles GET /gigs
func (c *GigController) GetMyGigs(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.GigService.GetMyGigs(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Gigs retrieved successfully")
}

// GetGig handles GET /gigs/:id
func (c *GigController) GetGig(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	gigID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid gig id")
	}

	result, appErr := c.GigService.GetGig(ctx.Request().Context(), userID, gigID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Gig retrieved successfully")
}

// GetPublicGig handles GET /public/gigs/:slug
func (c *GigController) GetPublicGig(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing gig slug")
	}

	result, appErr := c.GigService.GetPublicGig(ctx.Request().Context(), slug)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Gig retrieved successfully")
}

// UpdateGig handles PUT /gigs/:id
func (c *GigController) UpdateGig(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	gigID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid gig id")
	}

	var req dto.UpdateGigRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.GigService.UpdateGig(ctx.Request().Context(), userID, gigID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Gig updated successfully")
}

// DeleteGig handles DELETE /gigs/:id
func (c *GigController) DeleteGig(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	gigID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid gig id")
	}

	if appErr := c.GigService.DeleteGig(ctx.Request().Context(), userID, gigID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Gig deleted successfully")
}

// AddRole handles POST /gigs/:id/roles
func (c *GigController) AddRole(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	gigID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid gig id")
	}

	var req dto.AddRoleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.RoleName == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Role name is required")
	}

	result, appErr := c.GigService.AddRole(ctx.Request().Context(), userID, gigID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Role added successfully")
}

// RemoveRole handles DELETE /gigs/roles/:roleId
func (c *GigController) RemoveRole(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	roleID, err := uuid.Parse(ctx.Param("roleId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid role id")
	}

	if appErr := c.GigService.RemoveRole(ctx.Request().Context(), userID, roleID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Role removed successfully")
}

// CheckConflicts handles GET /gigs/:id/conflicts
func (c *GigController) CheckConflicts(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	gigID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid gig id")
	}

	result, appErr := c.GigService.CheckConflicts(ctx.Request().Context(), userID, gigID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Conflicts checked successfully")
}

// CheckWindowConflicts handles GET /gigs/conflicts?date=...&start_time=...&end_time=...
func (c *GigController) CheckWindowConflicts(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	date := ctx.QueryParam("date")
	if date == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Date is required")
	}
	var startTime, endTime *string
	if v := ctx.QueryParam("start_time"); v != "" {
		startTime = &v
	}
	if v := ctx.QueryParam("end_time"); v != "" {
		endTime = &v
	}

	result, appErr := c.GigService.CheckWindowConflicts(ctx.Request().Context(), userID, date, startTime, endTime)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Conflicts checked successfully")
}
