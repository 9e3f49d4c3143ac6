package logger

import (
	"context"

	"crm-analytics/internal/config"
	"crm-analytics/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the service logger. Entries go to the console and,
// asynchronously, to the logs collection.
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Caller function names are stored with each DB entry
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(NewMongoLogSink(mongodb), cfg.AppId)
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)
	logger := zap.New(finalCore, zap.AddCaller())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			dbWriter.Close()
			_ = logger.Sync()
			return nil
		},
	})

	return logger, nil
}
