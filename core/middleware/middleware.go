package middleware

import (
	"strings"

	"gig-roster-api/core/constants"
	"gig-roster-api/core/controller"
	"gig-roster-api/core/errors"
	"gig-roster-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	base controller.BaseController
}

func NewMiddleware() *Middleware {
	return &Middleware{base: controller.NewBaseController()}
}

// AuthMiddleware validates the Bearer token and stores the caller identity
// in the request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return m.base.Unauthorized(errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "authorization header must be a Bearer token")
			}

			tokenData, appErr := utils.ValidateAndParseToken(parts[1])
			if appErr != nil {
				return m.base.Unauthorized(appErr.Code, appErr.Message)
			}

			if tokenData.Scope != constants.ScopeTokenAccess {
				return m.base.Unauthorized(errors.ErrUnauthorized, "token scope not valid for API access")
			}

			c.Set(constants.ContextTokenData, tokenData)
			return next(c)
		}
	}
}

// TokenData extracts the authenticated identity set by AuthMiddleware.
func TokenData(c echo.Context) (*utils.TokenData, bool) {
	td, ok := c.Get(constants.ContextTokenData).(*utils.TokenData)
	return td, ok
}
