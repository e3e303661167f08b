package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
)

// New builds a zap logger: JSON at info level in production, console with debug level elsewhere.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg != nil && cfg.Production() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.OutputPaths = []string{"stdout"}

	return zcfg.Build()
}
