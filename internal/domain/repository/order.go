package repository

import (
	"context"

	"github.com/polkiloo/restaurant/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
}
