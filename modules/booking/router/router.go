package router

import (
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

type BookingRouter struct {
	controller *controller.BookingController
}

func NewBookingRouter(controller *controller.BookingController) *BookingRouter {
	return &BookingRouter{
		controller: controller,
	}
}

func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Public routes used by clients booking an appointment.
	v1.POST("/public/bookings", r.controller.Create)
	v1.GET("/public/bookings/:reference", r.controller.GetByReference)

	bookingRoutes := v1.Group("/private/bookings")
	bookingRoutes.Use(mw.AuthMiddleware())

	bookingRoutes.GET("", r.controller.List)
	bookingRoutes.PUT("/:id/confirm", r.controller.Confirm)
	bookingRoutes.PUT("/:id/cancel", r.controller.Cancel)
}
