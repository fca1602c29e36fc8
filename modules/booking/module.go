package booking

import (
	"clinic-booking-api/core/config"
	"clinic-booking-api/core/database"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/modules/booking/controller"
	"clinic-booking-api/modules/booking/repository"
	"clinic-booking-api/modules/booking/router"
	"clinic-booking-api/modules/booking/service"
	calendarRepository "clinic-booking-api/modules/calendar/repository"
	calendarService "clinic-booking-api/modules/calendar/service"
	syncService "clinic-booking-api/modules/sync/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, cfg *config.Config) {
	bkRepo := repository.NewBookingRepository(db)
	calRepo := calendarRepository.NewCalendarRepository(db)

	oauthConfig := calendarService.NewGoogleOAuthConfig(cfg)
	tokenManager := calendarService.NewTokenManager(calRepo, oauthConfig)
	client := calendarService.NewGoogleCalendarClient()
	exportSvc := syncService.NewExportService(calRepo, bkRepo, tokenManager, client)

	svc := service.NewBookingService(bkRepo, exportSvc)
	ctrl := controller.NewBookingController(svc)
	mw := middleware.NewMiddleware()
	router.NewBookingRouter(ctrl).Setup(e, mw)
}
