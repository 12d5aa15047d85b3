package logger

import (
	"plm-connector/internal/config"
	"plm-connector/internal/database"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the application logger. Output goes to the console as usual,
// and every entry is also teed into the recent-lines buffer and the Mongo log writer.
func NewLogger(cfg *config.Config, mongodb *database.MongodbDB, buffer *LogBuffer) (*zap.Logger, error) {

	// 1. Setup Base Config (Console/JSON)
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	// 2. Async DB Writer (optional for tools that run without a database)
	var dbWriter *DBLogWriter
	if mongodb != nil {
		dbWriter = NewDBLogWriter(mongodb, cfg)
	}

	// 3. Wrap the Core
	finalCore := NewDBCore(baseLogger.Core(), lineEncoder(), buffer, dbWriter)

	logger := zap.New(finalCore, zap.AddCaller())
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// lineEncoder renders the single-line form served by the admin log endpoint.
func lineEncoder() zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(encCfg)
}
