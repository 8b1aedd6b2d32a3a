package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"hikvision-sync/core/loader"
	"hikvision-sync/core/logger"
	"hikvision-sync/core/middleware/auth"
	"hikvision-sync/core/middleware/rayid"
	"hikvision-sync/feature/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "hikvision-sync/docs/swagger"
)

// @title Hikvision Sync API
// @version 1.0
// @description Status and trigger API of the membership to Hikvision reader sync.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the sync service",
	Long:  `Runs a sync cycle immediately, then one every sync interval, and serves the status API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration and logger
		cfg, logg, err := loadRuntime(true)
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 2. State, engine, scheduler
		store, err := newStateStore(ctx, cfg, logg)
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg, logg, store)
		if err != nil {
			return err
		}
		svc := scheduler.NewService(engine, store, cfg.Sync, logg)

		// 3. Status API
		var app *fiber.App
		if cfg.Server.Enabled {
			app = newStatusApp(cfg.Server.ApiKey, logg, svc)
			go func() {
				logg.Info("Starting server", zap.String("port", cfg.Server.Port))
				if err := app.Listen(cfg.Server.Addr()); err != nil {
					logg.Error("Server stopped", zap.Error(err))
					stop()
				}
			}()
		}

		// 4. Scheduler until a signal arrives
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error("Scheduler failed", zap.Error(err))
			}
		}()

		<-ctx.Done()
		logg.Info("Shutting down...")
		if app != nil {
			if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout()); err != nil {
				logg.Warn("Server shutdown incomplete", zap.Error(err))
			}
		}
		wg.Wait()
		return nil
	},
}

// newStatusApp builds the Fiber app serving health, swagger and the scheduler routes.
func newStatusApp(apiKey string, logg *zap.Logger, svc *scheduler.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every log line can be traced
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public routes
	app.Get("/health", handleHealth)
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{ApiKey: apiKey}))

	mgr := loader.NewManager()
	mgr.Register(scheduler.NewFeature(svc, logg))
	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}

	return app
}

// handleHealth is the liveness check.
// @Summary Health
// @Description Liveness check.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "OK"
// @Router /health [get]
func handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func init() {
	RootCmd.AddCommand(startCmd)
}
