package middleware

import (
	"strings"

	"clinic-booking-api/core/controller"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/utils"

	"github.com/labstack/echo/v4"
)

// ContextKeyAccountID is where AuthMiddleware stores the authenticated
// account id on the echo context.
const ContextKeyAccountID = "account_id"

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the Bearer token on private routes and stores the
// account id on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "authorization header must be a bearer token")
			}

			tokenData, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}

			c.Set(ContextKeyAccountID, tokenData.AccountID)
			return next(c)
		}
	}
}
