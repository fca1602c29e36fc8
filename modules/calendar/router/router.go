package router

import (
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	calendarRoutes := v1.Group("/private/calendar")
	calendarRoutes.Use(mw.AuthMiddleware())

	calendarRoutes.GET("/connection", r.controller.GetConnection)
	calendarRoutes.DELETE("/connection", r.controller.Disconnect)
	calendarRoutes.PUT("/connection/calendar", r.controller.ChooseCalendar)
	calendarRoutes.PUT("/connection/sync", r.controller.SetSyncEnabled)

	calendarRoutes.GET("/external", r.controller.ListExternalCalendars)
}
