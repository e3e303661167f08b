package rabbitmq

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
)

// Module provides the event Publisher. Without AMQP_URL events are only logged.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.Logger
}

var dial = func(url string) (Publisher, error) {
	return Dial(url)
}

func newPublisher(p publisherParams) (Publisher, error) {
	logger := p.Logger.Named("events")
	if p.Config.AMQPURL == "" {
		logger.Info("AMQP_URL not set, order events are logged instead of published")
		return NewLogPublisher(logger), nil
	}

	publisher, err := dial(p.Config.AMQPURL)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error { return publisher.Close() },
	})
	logger.Info("order events published to rabbitmq", zap.String("exchange", Exchange))
	return publisher, nil
}
