package sync

import (
	"context"

	"plm-connector/internal/common/api"
	"plm-connector/internal/config"
	"plm-connector/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
}

func NewSyncApi(controller *SyncController, config *config.Config) api.Route {
	return &SyncApi{
		controller: controller,
		config:     config,
	}
}

func (h *SyncApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	group := app.Group("/sync", auth)
	group.Post("/cin7", h.controller.RunSync)
	group.Post("/on-demand", h.controller.SyncItem)
	group.Get("/results", h.controller.ListResults)
	group.Get("/results/latest", h.controller.LatestResult)
	group.Get("/results/export", h.controller.ExportResults)

	app.Get("/test/arena/item/:guid", auth, h.controller.InspectItem)
}

// RegisterHooks makes sure the capped result collection exists before the first pass.
func RegisterHooks(lc fx.Lifecycle, repo ResultRepository, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.EnsureCollection(ctx, cfg.SyncResultLogSize); err != nil {
				return err
			}
			logger.Info("Sync result log ready", zap.Int64("max_results", cfg.SyncResultLogSize))
			return nil
		},
	})
}
