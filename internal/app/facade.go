package app

import (
	"context"

	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/usecase"
)

// HealthChecker reports whether the backing store answers.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RestaurantFacade exposes use cases to the HTTP layer.
type RestaurantFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
	health HealthChecker
}

func NewRestaurantFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, health HealthChecker) *RestaurantFacade {
	return &RestaurantFacade{auth: auth, orders: orders, health: health}
}

func (f *RestaurantFacade) Register(ctx context.Context, username, email, password string) error {
	_, err := f.auth.Register(ctx, usecase.Registration{Username: username, Email: email, Password: password})
	return err
}

func (f *RestaurantFacade) Login(ctx context.Context, username, password string) error {
	_, err := f.auth.Login(ctx, usecase.Credentials{Username: username, Password: password})
	return err
}

func (f *RestaurantFacade) SubmitOrder(ctx context.Context, order model.Order) error {
	return f.orders.Submit(ctx, &order)
}

func (f *RestaurantFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
