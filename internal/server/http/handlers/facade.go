package handlers

import (
	"context"

	"github.com/polkiloo/restaurant/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) error
}

// OrderFacade accepts orders placed through the website.
type OrderFacade interface {
	SubmitOrder(ctx context.Context, order model.Order) error
}

// HealthFacade reports whether backing services are reachable.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// RestaurantFacade aggregates the full set of operations used across handlers.
type RestaurantFacade interface {
	AuthFacade
	OrderFacade
	HealthFacade
}
