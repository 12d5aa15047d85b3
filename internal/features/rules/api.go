package rules

import (
	"context"

	"plm-connector/internal/common/api"
	"plm-connector/internal/config"
	"plm-connector/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RuleApi struct {
	controller *RuleController
	config     *config.Config
}

func NewRuleApi(controller *RuleController, config *config.Config) api.Route {
	return &RuleApi{
		controller: controller,
		config:     config,
	}
}

func (h *RuleApi) Setup(app *fiber.App) {
	group := app.Group("/rules", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListRules)
	group.Post("/", h.controller.CreateRule)
	group.Put("/:id", h.controller.UpdateRule)
}

// RegisterHooks creates the rule_key index and seeds the default rules into an empty store.
func RegisterHooks(lc fx.Lifecycle, repo RuleRepository, service RuleService, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.EnsureIndexes(ctx); err != nil {
				return err
			}
			if !cfg.SeedDefaultRules {
				return nil
			}
			count, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			added, err := service.SeedDefaults(ctx)
			if err != nil {
				return err
			}
			logger.Info("Seeded default sync rules", zap.Int("count", added))
			return nil
		},
	})
}
