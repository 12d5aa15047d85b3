package cron_feature

import (
	"context"

	"plm-connector/internal/common/api"
	"plm-connector/internal/config"
	"plm-connector/internal/features/settings"
	sync_feature "plm-connector/internal/features/sync"
	"plm-connector/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type SchedulerApi struct {
	controller *SchedulerController
	config     *config.Config
}

func NewSchedulerApi(controller *SchedulerController, config *config.Config) api.Route {
	return &SchedulerApi{
		controller: controller,
		config:     config,
	}
}

func (h *SchedulerApi) Setup(app *fiber.App) {
	app.Get("/sync/status", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.GetStatus)
}

// NewSchedulerFromConfig builds the production scheduler on a cron trigger.
func NewSchedulerFromConfig(runner sync_feature.SyncService, settingsService settings.SettingsService, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return NewScheduler(runner, settingsService, NewCronTrigger(cfg.SyncSchedule), cfg.SyncSchedule, logger)
}

func RegisterHooks(lc fx.Lifecycle, scheduler *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
}
