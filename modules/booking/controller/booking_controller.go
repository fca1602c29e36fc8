package controller

import (
	"clinic-booking-api/core/controller"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/booking/dto"
	"clinic-booking-api/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingController struct {
	controller.BaseController
	service service.BookingService
}

func NewBookingController(svc service.BookingService) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// Create records a client booking request against a professional.
// POST /api/v1/public/bookings
func (c *BookingController) Create(ctx echo.Context) error {
	var req dto.CreateBookingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	booking, err := c.service.Create(ctx.Request().Context(), &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, booking, "booking created")
}

// GetByReference lets a client look their booking up by its public reference.
// GET /api/v1/public/bookings/:reference
func (c *BookingController) GetByReference(ctx echo.Context) error {
	booking, err := c.service.GetByReference(ctx.Request().Context(), ctx.Param("reference"))
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, booking, "booking retrieved")
}

// List returns the current professional's bookings.
// GET /api/v1/private/bookings
func (c *BookingController) List(ctx echo.Context) error {
	accountID, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	bookings, err := c.service.ListForProfessional(ctx.Request().Context(), accountID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, bookings, "bookings retrieved")
}

// Confirm confirms a pending booking and pushes it to the calendar.
// PUT /api/v1/private/bookings/:id/confirm
func (c *BookingController) Confirm(ctx echo.Context) error {
	accountID, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid booking id")
	}

	booking, err := c.service.Confirm(ctx.Request().Context(), accountID, bookingID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, booking, "booking confirmed")
}

// Cancel cancels a booking and removes its calendar event.
// PUT /api/v1/private/bookings/:id/cancel
func (c *BookingController) Cancel(ctx echo.Context) error {
	accountID, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid booking id")
	}

	booking, err := c.service.Cancel(ctx.Request().Context(), accountID, bookingID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, booking, "booking cancelled")
}
