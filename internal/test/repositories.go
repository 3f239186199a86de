package test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu    sync.Mutex
	Users map[string]*model.User
	Next  int64
	Err   error
	// Lookups counts GetByUsername calls.
	Lookups int
}

// NewUserRepositoryStub constructs stub repository with initialized map.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{Users: make(map[string]*model.User), Next: 1}
}

// Create registers user unless the username is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if _, exists := s.Users[user.Username]; exists {
		return domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user.ID = s.Next
	user.CreatedAt = time.Now()
	s.Next++
	stored := *user
	s.Users[user.Username] = &stored
	return nil
}

// GetByUsername fetches user by username or returns not found.
func (s *UserRepositoryStub) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups++
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[username]; ok {
		found := *user
		return &found, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Count returns the number of stored users.
func (s *UserRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Users)
}

// OrderRepositoryStub keeps created orders in insertion order.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders []model.Order
	Err    error
}

// Create appends order unless stub has explicit error.
func (s *OrderRepositoryStub) Create(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	order.ID = int64(len(s.Orders) + 1)
	order.CreatedAt = time.Now()
	s.Orders = append(s.Orders, *order)
	return nil
}

// Count returns the number of stored orders.
func (s *OrderRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Orders)
}

// TransactionManagerStub emulates a transaction over the in-memory repositories:
// state is restored when the callback fails.
type TransactionManagerStub struct {
	UsersRepo  *UserRepositoryStub
	OrdersRepo *OrderRepositoryStub
	BeginErr   error

	Commits   int
	Rollbacks int
}

// NewTransactionManagerStub wires the stub to the given repositories.
func NewTransactionManagerStub(users *UserRepositoryStub, orders *OrderRepositoryStub) *TransactionManagerStub {
	return &TransactionManagerStub{UsersRepo: users, OrdersRepo: orders}
}

// Users returns the user repository.
func (s *TransactionManagerStub) Users() repository.UserRepository { return s.UsersRepo }

// Orders returns the order repository.
func (s *TransactionManagerStub) Orders() repository.OrderRepository { return s.OrdersRepo }

// Execute runs fn and rolls back repository state when it fails.
func (s *TransactionManagerStub) Execute(_ context.Context, fn func(repository.Factory) error) error {
	if s.BeginErr != nil {
		return s.BeginErr
	}

	var (
		users  map[string]*model.User
		next   int64
		orders []model.Order
	)
	if s.UsersRepo != nil {
		s.UsersRepo.mu.Lock()
		users, next = maps.Clone(s.UsersRepo.Users), s.UsersRepo.Next
		s.UsersRepo.mu.Unlock()
	}
	if s.OrdersRepo != nil {
		s.OrdersRepo.mu.Lock()
		orders = slices.Clone(s.OrdersRepo.Orders)
		s.OrdersRepo.mu.Unlock()
	}

	if err := fn(s); err != nil {
		if s.UsersRepo != nil {
			s.UsersRepo.mu.Lock()
			s.UsersRepo.Users, s.UsersRepo.Next = users, next
			s.UsersRepo.mu.Unlock()
		}
		if s.OrdersRepo != nil {
			s.OrdersRepo.mu.Lock()
			s.OrdersRepo.Orders = orders
			s.OrdersRepo.mu.Unlock()
		}
		s.Rollbacks++
		return err
	}
	s.Commits++
	return nil
}

var (
	_ repository.UserRepository     = (*UserRepositoryStub)(nil)
	_ repository.OrderRepository    = (*OrderRepositoryStub)(nil)
	_ repository.TransactionManager = (*TransactionManagerStub)(nil)
	_ repository.Factory            = (*TransactionManagerStub)(nil)
)
