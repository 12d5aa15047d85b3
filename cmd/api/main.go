package main

import (
	"context"
	"fmt"

	"plm-connector/internal/app"
	common_api "plm-connector/internal/common/api"
	"plm-connector/internal/config"
	"plm-connector/internal/features/admin"
	"plm-connector/internal/features/audit"
	cron_feature "plm-connector/internal/features/cron"
	"plm-connector/internal/features/rules"
	"plm-connector/internal/features/settings"
	"plm-connector/internal/features/sync"
	"plm-connector/internal/features/system"
	"plm-connector/internal/middleware"

	_ "plm-connector/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("type", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("HTTP server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					logger.Error("Server failed to start", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// @title           PLM Connector API
// @version         1.0
// @description     Syncs completed Arena PLM items into Cin7 as products.

// @host            localhost:8000
// @BasePath        /
func main() {
	fx.New(
		app.Core,
		fx.Provide(
			// Initialize Fiber Server
			NewFiberServer,

			// Scheduler
			cron_feature.NewSchedulerFromConfig,

			// Initialize Controller
			admin.NewAdminController,
			audit.NewAuditController,
			settings.NewSettingsController,
			rules.NewRuleController,
			sync.NewSyncController,
			cron_feature.NewSchedulerController,
			system.NewHealthController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(admin.NewAdminApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(settings.NewSettingsApi),
			AsRoute(rules.NewRuleApi),
			AsRoute(sync.NewSyncApi),
			AsRoute(cron_feature.NewSchedulerApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			cron_feature.RegisterHooks,
		),
	).Run()
}
