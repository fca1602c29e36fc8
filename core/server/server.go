package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking-api/core/cache"
	"clinic-booking-api/core/config"
	"clinic-booking-api/core/database"
	"clinic-booking-api/core/logger"
	"clinic-booking-api/core/queue"
	"clinic-booking-api/modules/auth"
	"clinic-booking-api/modules/availability"
	"clinic-booking-api/modules/booking"
	"clinic-booking-api/modules/calendar"
	"clinic-booking-api/modules/sync"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run wires every module and serves until interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to init cache: %w", err)
	}

	q := queue.NewQueue(cfg.Redis)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mux := asynq.NewServeMux()

	auth.Init(e, db, c, q, cfg)
	calendar.Init(e, db, cfg)
	availability.Init(e, db)
	booking.Init(e, db, cfg)
	sync.Init(e, db, c, q, cfg, mux)

	worker := queue.NewServer(cfg.Redis)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:Worker:Stopped", "error", err)
		}
	}()

	scheduler, err := queue.NewScheduler(cfg.Redis, cfg.Sync.IntervalMinutes)
	if err != nil {
		return fmt.Errorf("failed to init scheduler: %w", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Server:Scheduler:Stopped", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Server:Listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:ShuttingDown")
	scheduler.Shutdown()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
