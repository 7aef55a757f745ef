package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/quickmart/internal/adapter/notify"
	"github.com/polkiloo/quickmart/internal/app"
	"github.com/polkiloo/quickmart/internal/config"
	"github.com/polkiloo/quickmart/internal/logger"
	"github.com/polkiloo/quickmart/internal/metrics"
	"github.com/polkiloo/quickmart/internal/pkg/auth"
	"github.com/polkiloo/quickmart/internal/pricing"
	"github.com/polkiloo/quickmart/internal/server/http/handlers"
	"github.com/polkiloo/quickmart/internal/server/http/router"
	"github.com/polkiloo/quickmart/internal/storage/postgres"
	"github.com/polkiloo/quickmart/internal/usecase"
	"github.com/polkiloo/quickmart/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		notify.Module,
		pricing.Module,
		usecase.Module,
		fx.Provide(
			func(m *metrics.Metrics) usecase.TransitionRecorder { return m },
			func(m *metrics.Metrics) worker.PublishRecorder { return m },
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f },
			func(f *app.StorefrontFacade) app.AdminBootstrapper { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
