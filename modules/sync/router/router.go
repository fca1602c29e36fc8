package router

import (
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/sync/controller"

	"github.com/labstack/echo/v4"
)

type SyncRouter struct {
	controller *controller.SyncController
}

func NewSyncRouter(controller *controller.SyncController) *SyncRouter {
	return &SyncRouter{
		controller: controller,
	}
}

func (r *SyncRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Public: the provider cannot authenticate with our API tokens; the
	// signed channel token in the notification headers authenticates it.
	v1.POST("/public/sync/webhook", r.controller.HandleWebhook)

	syncRoutes := v1.Group("/private/sync")
	syncRoutes.Use(mw.AuthMiddleware())
	syncRoutes.POST("/run", r.controller.TriggerSync)
}
