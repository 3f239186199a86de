package usecase

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/domain/repository"
)

// OrderUseCase records dish orders and alerts the operations mailbox.
type OrderUseCase struct {
	orders   repository.OrderRepository
	txm      repository.TransactionManager
	notifier Notifier
	policy   NotifyPolicy
	validate *validator.Validate
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	txm repository.TransactionManager,
	notifier Notifier,
	policy NotifyPolicy,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		txm:      txm,
		notifier: notifier,
		policy:   policy,
		validate: newValidator(),
		logger:   logger,
	}
}

// Submit validates and stores order, then sends the new order alert.
// A non-positive quantity counts as a missing field.
func (u *OrderUseCase) Submit(ctx context.Context, order *model.Order) error {
	if err := validateInput(u.validate, order); err != nil {
		return err
	}

	if u.policy == NotifyStrict {
		return u.txm.Execute(ctx, func(repos repository.Factory) error {
			if err := repos.Orders().Create(ctx, order); err != nil {
				return err
			}
			return u.notifier.SendNewOrderAlert(ctx, *order)
		})
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return err
	}
	logDetachedFailure(u.logger, model.EventNewOrder, u.notifier.SendNewOrderAlert(ctx, *order))
	return nil
}
