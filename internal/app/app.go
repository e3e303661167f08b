package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/adapter/rabbitmq"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/metrics"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/handlers"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/storage/postgres"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/worker"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewStorefrontFacade,
		func(f *StorefrontFacade) handlers.StorefrontFacade { return f },
		func(s *postgres.Storage) HealthChecker { return s },
		newHTTPServer,
		newOutboxRelay,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

type relayParams struct {
	fx.In

	Events    repository.EventRepository
	Publisher rabbitmq.Publisher
	Metrics   *metrics.Metrics `optional:"true"`
	Config    *config.Config
	Logger    *zap.Logger
}

func newOutboxRelay(p relayParams) *worker.OutboxRelay {
	return worker.NewOutboxRelay(
		p.Events,
		p.Publisher,
		p.Metrics,
		p.Config.RelayPollInterval,
		p.Config.RelayBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger.Named("relay"),
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *zap.Logger
	Server     *http.Server
	Relay      *worker.OutboxRelay
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting bazzarnet", zap.String("addr", p.Server.Addr), zap.String("env", p.Config.Environment))
			// The start context expires once fx finishes starting; the relay must outlive it.
			p.Relay.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", zap.Error(err))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Relay.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("bazzarnet stopped")
			return nil
		},
	})
}
