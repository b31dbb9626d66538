package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gig-roster-api/core/cache"
	"gig-roster-api/core/config"
	"gig-roster-api/core/database"
	"gig-roster-api/core/logger"
	mw "gig-roster-api/core/middleware"
	"gig-roster-api/core/queue"
	"gig-roster-api/core/utils"
	"gig-roster-api/modules/calendar"
	"gig-roster-api/modules/contact"
	"gig-roster-api/modules/gig"
	"gig-roster-api/modules/invitation"
	"gig-roster-api/modules/notification"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole service together and blocks until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer c.Close()

	q := queue.NewQueue(cfg.Redis)
	defer q.Close()
	worker := queue.NewWorker(cfg.Redis)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	middleware := mw.NewMiddleware()
	mailer := utils.NewSMTPMailer(cfg.SMTP)
	privateGroup := e.Group("/api/v1/private")

	// Module init order follows the dependency direction: notification and
	// calendar first, then gig (needs the calendar gateway), then invitation
	// on top of all three.
	notifSvc := notification.Init(privateGroup, &db, middleware, q, worker)
	calendarSvcs := calendar.Init(e, &db, middleware)
	contact.Init(e, &db, middleware)
	gigSvc := gig.Init(e, &db, middleware, calendarSvcs.Calendar)
	invitation.Init(e, &db, middleware, cfg, gigSvc, calendarSvcs.Calendar, notifSvc, mailer, c)

	if err := worker.Start(); err != nil {
		return fmt.Errorf("start queue worker: %w", err)
	}
	defer worker.Shutdown()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Server starting", "addr", addr, "env", cfg.Server.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
