package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/quickmart/internal/adapter/notify"
	"github.com/polkiloo/quickmart/internal/config"
	"github.com/polkiloo/quickmart/internal/domain/repository"
	"github.com/polkiloo/quickmart/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewStorefrontFacade,
		newHTTPServer,
		newEventRelay,
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
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type relayParams struct {
	fx.In

	Events    repository.EventRepository
	Publisher notify.Publisher
	Recorder  worker.PublishRecorder
	Config    *config.Config
	Logger    *slog.Logger
}

func newEventRelay(p relayParams) *worker.EventRelay {
	return worker.NewEventRelay(
		p.Events,
		p.Publisher,
		p.Recorder,
		p.Config.RelayPollInterval,
		p.Config.RelayBatchSize,
		p.Config.RelayWorkers,
		p.Logger,
	)
}

// AdminBootstrapper creates the configured admin account.
type AdminBootstrapper interface {
	EnsureAdmin(ctx context.Context, email, password string) error
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Relay      *worker.EventRelay
	Admin      AdminBootstrapper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Config.AdminEmail != "" {
				if err := p.Admin.EnsureAdmin(ctx, p.Config.AdminEmail, p.Config.AdminPassword); err != nil {
					return fmt.Errorf("bootstrap admin: %w", err)
				}
				p.Logger.Info("admin account ready", slog.String("email", p.Config.AdminEmail))
			}

			p.Logger.Info("starting quickmart", slog.String("addr", p.Server.Addr))
			// Relay lifetime is bound to OnStop, not to the start context.
			p.Relay.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Relay.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("quickmart stopped")
			return nil
		},
	})
}
