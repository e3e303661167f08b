package config

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exposes configuration loader for fx graphs and logs the effective settings once.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(logEffective),
)

func logEffective(cfg *Config, logger *zap.Logger) {
	logger.Info("configuration loaded",
		zap.String("addr", cfg.RunAddress),
		zap.String("env", cfg.Environment),
		zap.Strings("serviceable_pincodes", cfg.ServiceablePinCodes),
		zap.Bool("redis", cfg.RedisURL != ""),
		zap.Bool("amqp", cfg.AMQPURL != ""),
		zap.Int("relay_batch", cfg.RelayBatchSize),
		zap.Int("workers", cfg.WorkerPoolSize),
	)
}
