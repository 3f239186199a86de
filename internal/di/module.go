package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/restaurant/internal/adapter/mail"
	"github.com/polkiloo/restaurant/internal/app"
	"github.com/polkiloo/restaurant/internal/config"
	"github.com/polkiloo/restaurant/internal/logger"
	"github.com/polkiloo/restaurant/internal/metrics"
	"github.com/polkiloo/restaurant/internal/pkg/auth"
	"github.com/polkiloo/restaurant/internal/server/http/router"
	"github.com/polkiloo/restaurant/internal/storage/postgres"
	"github.com/polkiloo/restaurant/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		mail.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
