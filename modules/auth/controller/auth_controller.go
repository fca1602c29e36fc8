package controller

import (
	"clinic-booking-api/core/controller"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/auth/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	service service.AuthService
}

func NewAuthController(svc service.AuthService) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// GoogleAuthURL returns the consent URL for connecting a Google calendar.
// GET /api/v1/private/auth/google
func (c *AuthController) GoogleAuthURL(ctx echo.Context) error {
	accountID, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	resp, err := c.service.GetGoogleAuthURL(ctx.Request().Context(), accountID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "auth url generated")
}

// GoogleCallback is Google's redirect target. The state token carries the
// account binding, so this route needs no bearer token.
// GET /api/v1/public/auth/google/callback
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")
	if code == "" || state == "" {
		return c.BadRequest(errors.ErrInvalidInput, "code and state are required")
	}

	resp, err := c.service.HandleGoogleCallback(ctx.Request().Context(), code, state)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "calendar connected")
}
