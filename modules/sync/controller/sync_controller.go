package controller

import (
	"net/http"

	"clinic-booking-api/core/controller"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/sync/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Google notification headers.
const (
	headerChannelID     = "X-Goog-Channel-ID"
	headerChannelToken  = "X-Goog-Channel-Token"
	headerResourceState = "X-Goog-Resource-State"
)

type SyncController struct {
	controller.BaseController
	webhookService service.WebhookService
	importService  service.ImportService
}

func NewSyncController(webhookService service.WebhookService, importService service.ImportService) *SyncController {
	return &SyncController{
		BaseController: controller.NewBaseController(),
		webhookService: webhookService,
		importService:  importService,
	}
}

// HandleWebhook receives Google push notifications. The body is ignored;
// everything we act on comes from verified headers. Always answers 200 so
// the provider does not retry notifications we chose to drop.
// POST /api/v1/public/sync/webhook
func (c *SyncController) HandleWebhook(ctx echo.Context) error {
	channelID := ctx.Request().Header.Get(headerChannelID)
	channelToken := ctx.Request().Header.Get(headerChannelToken)
	resourceState := ctx.Request().Header.Get(headerResourceState)

	if channelID == "" || channelToken == "" {
		logger.Warn("SyncController:HandleWebhook:MissingHeaders")
		return ctx.NoContent(http.StatusOK)
	}

	if err := c.webhookService.HandleNotification(ctx.Request().Context(), channelID, resourceState, channelToken); err != nil {
		logger.Warn("SyncController:HandleWebhook:Dropped", "channel_id", channelID, "error", err)
	}
	return ctx.NoContent(http.StatusOK)
}

// TriggerSync runs an import pass for the current account on demand.
// POST /api/v1/private/sync/run
func (c *SyncController) TriggerSync(ctx echo.Context) error {
	accountID, ok := ctx.Get(middleware.ContextKeyAccountID).(uuid.UUID)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid account")
	}

	result, err := c.importService.ImportForAccount(ctx.Request().Context(), accountID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, result, "sync completed")
}
