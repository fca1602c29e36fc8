package sync

import (
	"clinic-booking-api/core/cache"
	"clinic-booking-api/core/config"
	"clinic-booking-api/core/database"
	"clinic-booking-api/core/middleware"
	"clinic-booking-api/core/queue"
	availabilityRepository "clinic-booking-api/modules/availability/repository"
	calendarRepository "clinic-booking-api/modules/calendar/repository"
	calendarService "clinic-booking-api/modules/calendar/service"
	"clinic-booking-api/modules/sync/controller"
	"clinic-booking-api/modules/sync/router"
	"clinic-booking-api/modules/sync/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init wires the sync module's HTTP surface and registers its background
// task handlers on the worker mux.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, q queue.Queue, cfg *config.Config, mux *asynq.ServeMux) {
	calRepo := calendarRepository.NewCalendarRepository(db)
	availRepo := availabilityRepository.NewAvailabilityRepository(db)

	oauthConfig := calendarService.NewGoogleOAuthConfig(cfg)
	tokenManager := calendarService.NewTokenManager(calRepo, oauthConfig)
	client := calendarService.NewGoogleCalendarClient()

	importSvc := service.NewImportService(calRepo, availRepo, tokenManager, client, c)
	webhookSvc := service.NewWebhookService(calRepo, tokenManager, client, q, cfg.Sync.WebhookCallbackURL)
	schedulerSvc := service.NewSchedulerService(calRepo, importSvc)

	service.NewTaskHandlers(schedulerSvc, importSvc, webhookSvc).Register(mux)

	ctrl := controller.NewSyncController(webhookSvc, importSvc)
	mw := middleware.NewMiddleware()
	router.NewSyncRouter(ctrl).Setup(e, mw)
}
