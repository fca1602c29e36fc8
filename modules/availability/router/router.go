package router

import (
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

type AvailabilityRouter struct {
	controller *controller.AvailabilityController
}

func NewAvailabilityRouter(controller *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		controller: controller,
	}
}

func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	availabilityRoutes := v1.Group("/private/availability")
	availabilityRoutes.Use(mw.AuthMiddleware())

	availabilityRoutes.GET("/blocked", r.controller.ListBlockedTimes)
	availabilityRoutes.POST("/blocked", r.controller.CreateBlockedTime)
	availabilityRoutes.DELETE("/blocked/:id", r.controller.DeleteBlockedTime)
}
