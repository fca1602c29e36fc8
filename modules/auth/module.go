package auth

import (
	"clinic-booking-api/core/cache"
	"clinic-booking-api/core/config"
	"clinic-booking-api/core/database"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/core/queue"
	"clinic-booking-api/modules/auth/controller"
	"clinic-booking-api/modules/auth/repository"
	"clinic-booking-api/modules/auth/router"
	"clinic-booking-api/modules/auth/service"
	availabilityRepository "clinic-booking-api/modules/availability/repository"
	bookingRepository "clinic-booking-api/modules/booking/repository"
	calendarRepository "clinic-booking-api/modules/calendar/repository"
	calendarService "clinic-booking-api/modules/calendar/service"
	syncService "clinic-booking-api/modules/sync/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, q queue.Queue, cfg *config.Config) {
	authRepo := repository.NewAuthRepository(db)
	calRepo := calendarRepository.NewCalendarRepository(db)
	availRepo := availabilityRepository.NewAvailabilityRepository(db)
	bkRepo := bookingRepository.NewBookingRepository(db)

	oauthConfig := calendarService.NewGoogleOAuthConfig(cfg)
	tokenManager := calendarService.NewTokenManager(calRepo, oauthConfig)
	client := calendarService.NewGoogleCalendarClient()

	calSvc := calendarService.NewCalendarService(calRepo, availRepo, bkRepo, tokenManager, client)
	webhookSvc := syncService.NewWebhookService(calRepo, tokenManager, client, q, cfg.Sync.WebhookCallbackURL)

	svc := service.NewAuthService(authRepo, calSvc, webhookSvc, q, oauthConfig)
	ctrl := controller.NewAuthController(svc)
	mw := middleware.NewMiddleware()
	router.NewAuthRouter(ctrl).Setup(e, mw)
}
