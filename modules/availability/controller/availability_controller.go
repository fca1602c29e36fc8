package controller

import (
	"time"

	"clinic-booking-api/core/controller"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/availability/dto"
	"clinic-booking-api/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AvailabilityController struct {
	controller.BaseController
	service service.AvailabilityService
}

func NewAvailabilityController(svc service.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// ListBlockedTimes returns blocked times in a date range, synced and manual.
// GET /api/v1/private/availability/blocked?from=YYYY-MM-DD&to=YYYY-MM-DD
func (c *AvailabilityController) ListBlockedTimes(ctx echo.Context) error {
	accountID, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 30)
	if raw := ctx.QueryParam("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "to must be YYYY-MM-DD")
		}
		to = parsed
	}

	blocks, err := c.service.ListBlockedTimes(ctx.Request().Context(), accountID, from, to)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, blocks, "blocked times retrieved")
}

// CreateBlockedTime records a manual unavailability override.
// POST /api/v1/private/availability/blocked
func (c *AvailabilityController) CreateBlockedTime(ctx echo.Context) error {
	accountID, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	var req dto.CreateBlockedTimeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	block, err := c.service.CreateOverride(ctx.Request().Context(), accountID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, block, "blocked time created")
}

// DeleteBlockedTime removes a manual override. Synced records are refused.
// DELETE /api/v1/private/availability/blocked/:id
func (c *AvailabilityController) DeleteBlockedTime(ctx echo.Context) error {
	accountID, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid blocked time id")
	}

	if err := c.service.DeleteOverride(ctx.Request().Context(), accountID, blockID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "blocked time deleted")
}
