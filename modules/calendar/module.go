package calendar

import (
	"clinic-booking-api/core/config"
	"clinic-booking-api/core/database"
	"clinic-booking-api/core/middleware"
	availabilityRepository "clinic-booking-api/modules/availability/repository"
	bookingRepository "clinic-booking-api/modules/booking/repository"
	"clinic-booking-api/modules/calendar/controller"
	"clinic-booking-api/modules/calendar/repository"
	"clinic-booking-api/modules/calendar/router"
	"clinic-booking-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, cfg *config.Config) {
	calRepo := repository.NewCalendarRepository(db)
	availRepo := availabilityRepository.NewAvailabilityRepository(db)
	bkRepo := bookingRepository.NewBookingRepository(db)

	oauthConfig := service.NewGoogleOAuthConfig(cfg)
	tokenManager := service.NewTokenManager(calRepo, oauthConfig)
	client := service.NewGoogleCalendarClient()

	svc := service.NewCalendarService(calRepo, availRepo, bkRepo, tokenManager, client)
	ctrl := controller.NewCalendarController(svc)
	mw := middleware.NewMiddleware()
	router.NewCalendarRouter(ctrl).Setup(e, mw)
}
