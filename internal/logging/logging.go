// Package logging builds the zap logger used at the edges of startrack.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/acf-tools/startrack/internal/config"
)

// New builds a production logger from cfg. Debug switches to the
// development encoder at debug level.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if len(cfg.Output) > 0 {
		zc.OutputPaths = cfg.Output
	}
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return log.Named("startrack"), nil
}
