package test

import (
	"context"
	"sync"

	"github.com/polkiloo/restaurant/internal/domain/model"
)

// NotifierStub records notification requests and fails on demand.
type NotifierStub struct {
	mu sync.Mutex

	WelcomeErr error
	LoginErr   error
	OrderErr   error

	Welcomes []string
	Logins   []string
	Orders   []model.Order
}

// SendRegistrationWelcome records the recipient.
func (n *NotifierStub) SendRegistrationWelcome(_ context.Context, toEmail, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Welcomes = append(n.Welcomes, toEmail)
	return n.WelcomeErr
}

// SendLoginAlert records the recipient.
func (n *NotifierStub) SendLoginAlert(_ context.Context, toEmail, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Logins = append(n.Logins, toEmail)
	return n.LoginErr
}

// SendNewOrderAlert records the order.
func (n *NotifierStub) SendNewOrderAlert(_ context.Context, order model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Orders = append(n.Orders, order)
	return n.OrderErr
}

// SenderStub is a mail transport double. Fn receives the 1-based attempt number.
type SenderStub struct {
	mu       sync.Mutex
	Fn       func(attempt int, msg model.Message) error
	attempts int
	Sent     []model.Message
}

// Send calls Fn and keeps successfully sent messages.
func (s *SenderStub) Send(_ context.Context, msg model.Message) error {
	s.mu.Lock()
	s.attempts++
	attempt := s.attempts
	fn := s.Fn
	s.mu.Unlock()

	if fn != nil {
		if err := fn(attempt, msg); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.Sent = append(s.Sent, msg)
	s.mu.Unlock()
	return nil
}

// Attempts returns the number of Send calls.
func (s *SenderStub) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// SentCount returns the number of delivered messages.
func (s *SenderStub) SentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}
