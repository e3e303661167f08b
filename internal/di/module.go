package di

import (
	"go.uber.org/fx"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/adapter/rabbitmq"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/app"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/logger"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/metrics"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/ratelimit"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/router"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/storage/postgres"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		ratelimit.Module,
		rabbitmq.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
