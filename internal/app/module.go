// Package app holds the fx wiring shared by the API server and the operator CLI.
package app

import (
	"plm-connector/internal/config"
	"plm-connector/internal/connectors"
	"plm-connector/internal/database"
	"plm-connector/internal/features/audit"
	"plm-connector/internal/features/rules"
	"plm-connector/internal/features/settings"
	"plm-connector/internal/features/sync"
	"plm-connector/internal/logger"
	"plm-connector/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Core provides configuration, storage, logging and the sync engine services.
var Core = fx.Options(
	fx.Provide(
		// Load Config
		config.LoadConfig,

		// Initialize Database
		database.NewDatabase,
		database.NewRedisClient,

		// Initialize Logger
		logger.NewLogBufferFromConfig,
		logger.NewLogger,

		// Upstream connectors
		connectors.NewFactory,

		// Initialize Repository
		audit.NewAuditRepository,
		settings.NewSettingsRepository,
		rules.NewRuleRepository,
		sync.NewResultRepository,

		// Initialize Service
		audit.NewAuditService,
		settings.NewSettingsService,
		rules.NewRuleService,
		sync.NewLocker,
		sync.NewHub,
		sync.NewSyncService,
	),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),
	fx.Invoke(
		func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
		audit.RegisterHooks,
		rules.RegisterHooks,
		sync.RegisterHooks,
	),
)
