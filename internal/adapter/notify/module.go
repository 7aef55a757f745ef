package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/quickmart/internal/config"
)

// Module exposes status event publisher to fx graph.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	var publisher Publisher
	if p.Config.AMQPURL == "" {
		p.Logger.Warn("AMQP_URL not set, status events will only be logged")
		publisher = NewLogPublisher(p.Logger)
	} else {
		rabbit, err := DialRabbit(p.Config.AMQPURL, p.Config.AMQPExchange, p.Logger)
		if err != nil {
			return nil, err
		}
		publisher = rabbit
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
