package audit

import (
	"context"

	"plm-connector/internal/common/api"
	"plm-connector/internal/config"
	"plm-connector/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) api.Route {
	return &AuditApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/admin/audit", middleware.AuthMiddleware(h.config.SkipAuth), middleware.AdminMiddleware())

	audit.Get("/", h.controller.ListLogs)
}

// RegisterHooks creates the audit trail indexes. A failure is logged; the trail still works unindexed.
func RegisterHooks(lc fx.Lifecycle, repo AuditRepository, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.EnsureIndexes(ctx); err != nil {
				logger.Warn("Failed to create audit indexes", zap.Error(err))
			}
			return nil
		},
	})
}
