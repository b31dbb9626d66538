package controller

import (
	"gig-roster-api/core/constants"
	"gig-roster-api/core/controller"
	"gig-roster-api/core/errors"
	"gig-roster-api/core/utils"
	"gig-roster-api/modules/contact/dto"
	"gig-roster-api/modules/contact/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContactController handles contact HTTP requests
type ContactController struct {
	controller.BaseController
	ContactService service.ContactServiceInterface
}

// NewContactController creates a new controller
func NewContactController(svc service.ContactServiceInterface) *ContactController {
	return &ContactController{
		BaseController: controller.NewBaseController(),
		ContactService: svc,
	}
}

func (c *ContactController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CreateContact handles POST /contacts
func (c *ContactController) CreateContact(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateContactRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ContactService.CreateContact(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Contact created successfully")
}

// GetMyContacts handles GET /contacts?search=
func (c *ContactController) GetMyContacts(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ContactService.GetMyContacts(ctx.Request().Context(), userID, ctx.QueryParam("search"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Contacts retrieved successfully")
}

// GetContact handles GET /contacts/:id
func (c *ContactController) GetContact(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	contactID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid contact id")
	}

	result, appErr := c.ContactService.GetContact(ctx.Request().Context(), userID, contactID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Contact retrieved successfully")
}

// UpdateContact handles PUT /contacts/:id
func (c *ContactController) UpdateContact(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	contactID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid contact id")
	}

	var req dto.UpdateContactRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ContactService.UpdateContact(ctx.Request().Context(), userID, contactID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Contact updated successfully")
}

// DeleteContact handles DELETE /contacts/:id
func (c *ContactController) DeleteContact(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	contactID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid contact id")
	}

	if appErr := c.ContactService.DeleteContact(ctx.Request().Context(), userID, contactID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Contact deleted successfully")
}
