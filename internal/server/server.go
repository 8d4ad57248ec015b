// Package server boots the application: configuration, logging,
// storage, queues, events, routes, and the HTTP listener with graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/jobs"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/listeners"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/routes"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	_ "github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/database/migrations"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/cache"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/migration"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/notification"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/queue"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/router"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/schedule"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/storage"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/ws"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 15 * time.Second
)

// Boot wires every subsystem. Call once before Serve or RunWorkers.
// hub is nil in processes without a websocket surface.
func Boot(hub *ws.Hub) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if uri := config.MongoLogURI(); uri != "" {
		handler, err := logger.NewMongoHandler(uri, config.MongoLogDatabase(), "app_logs")
		if err != nil {
			logger.Warn("mongo log sink unavailable, keeping stdout", "error", err)
		} else {
			logger.UseHandler(handler)
		}
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := migration.Up(database.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, cache and throttling degrade to open", "error", err)
	}

	storage.Connect()
	notification.UseStore(repositories.NewNotificationRepository().Create)

	jobs.RegisterAll()
	queue.UseDB(database.DB)
	if cache.RDB != nil {
		queue.UseDriver(queue.NewRedisDriver(cache.RDB))
	}

	listeners.Register(hub)
	return nil
}

// Serve runs the HTTP API until SIGINT or SIGTERM, then drains.
func Serve() error {
	hub := ws.NewHub()
	if err := Boot(hub); err != nil {
		return err
	}
	go hub.Run()

	queue.StartWorkers(queueWorkers)
	defer queue.Stop()

	RegisterSchedule()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	schedule.Start(ctx)

	r := router.New()
	routes.Register(r, hub)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := database.Close(); err != nil {
		logger.Warn("closing database", "error", err)
	}
	return nil
}

// RunWorkers runs only the queue consumers and the scheduler, for a
// dedicated worker process alongside the API.
func RunWorkers() error {
	if err := Boot(nil); err != nil {
		return err
	}

	queue.StartWorkers(queueWorkers)
	defer queue.Stop()

	RegisterSchedule()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	schedule.Start(ctx)

	logger.Info("workers running", "count", queueWorkers)
	<-ctx.Done()
	logger.Info("workers stopping")
	return nil
}

func RegisterSchedule() {
	otp := services.NewOtpService()
	schedule.Every(10).Minutes().Name("otp:sweep").WithoutOverlapping().Run(func() {
		otp.SweepExpired()
	})
}
