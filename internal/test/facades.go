package test

import (
	"context"
	"sync"

	"github.com/polkiloo/restaurant/internal/domain/model"
)

// AuthFacadeStub provides controllable behaviour for registration and login.
type AuthFacadeStub struct {
	RegisterFn func(ctx context.Context, username, email, password string) error
	LoginFn    func(ctx context.Context, username, password string) error
}

// Register delegates to RegisterFn or succeeds.
func (s AuthFacadeStub) Register(ctx context.Context, username, email, password string) error {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, username, email, password)
	}
	return nil
}

// Login delegates to LoginFn or succeeds.
func (s AuthFacadeStub) Login(ctx context.Context, username, password string) error {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, username, password)
	}
	return nil
}

// OrderFacadeStub records submitted orders.
type OrderFacadeStub struct {
	SubmitFn func(ctx context.Context, order model.Order) error

	mu        *sync.Mutex
	submitted *[]model.Order
}

// NewOrderFacadeStub creates a stub that remembers submitted orders.
func NewOrderFacadeStub(fn func(ctx context.Context, order model.Order) error) OrderFacadeStub {
	return OrderFacadeStub{SubmitFn: fn, mu: &sync.Mutex{}, submitted: &[]model.Order{}}
}

// SubmitOrder records order and delegates to SubmitFn.
func (s OrderFacadeStub) SubmitOrder(ctx context.Context, order model.Order) error {
	if s.submitted != nil {
		s.mu.Lock()
		*s.submitted = append(*s.submitted, order)
		s.mu.Unlock()
	}
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, order)
	}
	return nil
}

// Submitted returns recorded orders.
func (s OrderFacadeStub) Submitted() []model.Order {
	if s.submitted == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Order(nil), *s.submitted...)
}

// HealthFacadeStub reports a configurable health state.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns Err.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// RestaurantFacadeStub aggregates all facade stubs.
type RestaurantFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	HealthFacadeStub
}
