package availability

import (
	"clinic-booking-api/core/database"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/availability/controller"
	"clinic-booking-api/modules/availability/repository"
	"clinic-booking-api/modules/availability/router"
	"clinic-booking-api/modules/availability/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase) {
	repo := repository.NewAvailabilityRepository(db)
	svc := service.NewAvailabilityService(repo)
	ctrl := controller.NewAvailabilityController(svc)
	mw := middleware.NewMiddleware()
	router.NewAvailabilityRouter(ctrl).Setup(e, mw)
}
