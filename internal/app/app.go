package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/restaurant/internal/adapter/mail"
	"github.com/polkiloo/restaurant/internal/config"
	"github.com/polkiloo/restaurant/internal/metrics"
	"github.com/polkiloo/restaurant/internal/notify"
	"github.com/polkiloo/restaurant/internal/server/http/handlers"
	"github.com/polkiloo/restaurant/internal/usecase"
	"github.com/polkiloo/restaurant/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewRestaurantFacade,
		func(f *RestaurantFacade) handlers.RestaurantFacade { return f },
		newHTTPServer,
		newMailQueue,
		newDispatcher,
		func(d *notify.Dispatcher) usecase.Notifier { return d },
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

type queueParams struct {
	fx.In

	Transport mail.Sender
	Config    *config.Config
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

func newMailQueue(p queueParams) *worker.MailQueue {
	return worker.NewMailQueue(p.Transport, worker.MailQueueOptions{
		Workers:     p.Config.NotifyWorkers,
		QueueSize:   p.Config.NotifyQueueSize,
		MaxAttempts: p.Config.NotifyMaxAttempts,
		RetryDelay:  p.Config.NotifyRetryDelay,
		Timeout:     p.Config.MailTimeout,
		Metrics:     p.Metrics,
		Logger:      p.Logger,
	})
}

type dispatcherParams struct {
	fx.In

	Transport mail.Sender
	Queue     *worker.MailQueue
	Config    *config.Config
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// newDispatcher routes notifications straight to the transport in strict mode
// and through the background queue in async mode.
func newDispatcher(p dispatcherParams) *notify.Dispatcher {
	async := p.Config.NotifyMode == config.NotifyModeAsync

	var sender notify.Sender = p.Transport
	timeout := p.Config.MailTimeout
	if async {
		sender = p.Queue
		timeout = 0
	}

	return notify.NewDispatcher(sender, notify.Options{
		From:     p.Config.MailFrom,
		OpsEmail: p.Config.OpsEmail,
		Timeout:  timeout,
		Queued:   async,
		Metrics:  p.Metrics,
		Logger:   p.Logger,
	})
}

var listen = net.Listen

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Queue      *worker.MailQueue
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	async := p.Config.NotifyMode == config.NotifyModeAsync

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting restaurant",
				slog.String("addr", p.Server.Addr),
				slog.String("notify_mode", p.Config.NotifyMode),
			)
			ln, err := listen("tcp", p.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", p.Server.Addr, err)
			}
			if async {
				p.Queue.Start(ctx)
			}
			go func() {
				if err := p.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
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

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			if async {
				if err := p.Queue.Stop(shutdownCtx); err != nil {
					p.Logger.Warn("mail queue not drained", slog.Int("pending", p.Queue.Pending()), slog.String("error", err.Error()))
				}
			}
			p.Logger.Info("restaurant stopped")
			return nil
		},
	})
}
