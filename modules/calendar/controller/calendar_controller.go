package controller

import (
	"clinic-booking-api/core/controller"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/calendar/dto"
	"clinic-booking-api/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	service service.CalendarService
}

func NewCalendarController(svc service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

func accountIDFromContext(ctx echo.Context) (uuid.UUID, bool) {
	id, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	return id, ok
}

// GetConnection returns the current account's calendar connection.
// GET /api/v1/private/calendar/connection
func (c *CalendarController) GetConnection(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	conn, err := c.service.GetConnection(ctx.Request().Context(), accountID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, conn, "connection retrieved")
}

// ListExternalCalendars lists the calendars available on the connected
// provider account, so the user can pick one.
// GET /api/v1/private/calendar/external
func (c *CalendarController) ListExternalCalendars(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	calendars, err := c.service.ListExternalCalendars(ctx.Request().Context(), accountID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, calendars, "calendars retrieved")
}

// ChooseCalendar selects which external calendar sync runs against.
// PUT /api/v1/private/calendar/connection/calendar
func (c *CalendarController) ChooseCalendar(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	var req dto.ChooseCalendarRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	if err := c.service.ChooseCalendar(ctx.Request().Context(), accountID, req.CalendarID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "calendar selected")
}

// SetSyncEnabled toggles sync for the connection.
// PUT /api/v1/private/calendar/connection/sync
func (c *CalendarController) SetSyncEnabled(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	var req dto.SetSyncEnabledRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	if err := c.service.SetSyncEnabled(ctx.Request().Context(), accountID, req.Enabled); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "sync flag updated")
}

// Disconnect removes the calendar connection and all synced state.
// DELETE /api/v1/private/calendar/connection
func (c *CalendarController) Disconnect(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	if err := c.service.Disconnect(ctx.Request().Context(), accountID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "calendar disconnected")
}
