package ratelimit

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
)

// Module provides the auth and password reset limiters. Counters live in Redis when REDIS_URL is set.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(newLimiters),
)

type storeParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.Logger
}

func newStore(p storeParams) (Store, error) {
	if p.Config.RedisURL == "" {
		p.Logger.Info("rate limit counters kept in memory")
		return NewMemoryStore(), nil
	}

	client, err := NewRedisClient(p.Ctx, p.Config.RedisURL)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error { return client.Close() },
	})
	p.Logger.Info("rate limit counters shared through redis", zap.String("addr", client.Options().Addr))
	return NewRedisStore(client), nil
}

func newLimiters(cfg *config.Config, store Store, logger *zap.Logger) Limiters {
	log := logger.Named("ratelimit")
	return Limiters{
		Auth:  NewLimiter("auth", cfg.AuthRateLimit, cfg.AuthRateWindow, AuthMessage, store, log),
		Reset: NewLimiter("reset", cfg.ResetRateLimit, cfg.ResetRateWindow, ResetMessage, store, log),
	}
}
