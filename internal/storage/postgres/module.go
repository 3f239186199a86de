package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/restaurant/internal/config"
	"github.com/polkiloo/restaurant/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.UserRepository { return s.Users() },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.TransactionManager { return s },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Config.DBTimeout, p.Logger)
}

// registerLifecycle refuses to start while the database does not answer
// and closes the pool on shutdown.
func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := storage.HealthCheck(ctx); err != nil {
				return err
			}
			storage.logger.Info("postgres storage ready")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			storage.Close()
			storage.logger.Info("postgres storage closed")
			return nil
		},
	})
}
