// Package notify composes the transactional emails sent on registration,
// login and order submission.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pkgerrors "github.com/pkg/errors"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/metrics"
)

// Subjects of the notification emails.
const (
	SubjectRegistrationWelcome = "Welcome to our Restaurant!"
	SubjectLoginAlert          = "Login Alert"
	SubjectNewOrder            = "New Order Received"
)

// ErrQueueFull is returned by queueing senders when a message had to be dropped.
var ErrQueueFull = errors.New("notification queue is full")

// Sender hands a message over for delivery.
type Sender interface {
	Send(ctx context.Context, msg model.Message) error
}

// Dispatcher builds messages and passes them to a Sender.
type Dispatcher struct {
	from     string
	opsEmail string
	sender   Sender
	timeout  time.Duration
	outcome  string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Options configure a Dispatcher.
type Options struct {
	From     string
	OpsEmail string
	Timeout  time.Duration
	// Queued marks the sender as a background queue: a nil error means the
	// message was accepted, not delivered.
	Queued  bool
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher on top of sender.
func NewDispatcher(sender Sender, opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	outcome := metrics.OutcomeSent
	if opts.Queued {
		outcome = metrics.OutcomeQueued
	}
	return &Dispatcher{
		from:     opts.From,
		opsEmail: opts.OpsEmail,
		sender:   sender,
		timeout:  opts.Timeout,
		outcome:  outcome,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// SendRegistrationWelcome greets a newly registered user.
func (d *Dispatcher) SendRegistrationWelcome(ctx context.Context, toEmail, username string) error {
	return d.dispatch(ctx, model.Message{
		Event:   model.EventRegistration,
		To:      toEmail,
		Subject: SubjectRegistrationWelcome,
		Body:    fmt.Sprintf("Hi %s,\n\nThank you for registering with our restaurant. We look forward to serving you!\n", username),
	})
}

// SendLoginAlert tells a user their account was just signed in to.
func (d *Dispatcher) SendLoginAlert(ctx context.Context, toEmail, username string) error {
	return d.dispatch(ctx, model.Message{
		Event:   model.EventLogin,
		To:      toEmail,
		Subject: SubjectLoginAlert,
		Body:    fmt.Sprintf("Hi %s,\n\nYour account was just logged into. If this wasn't you, please contact us immediately.\n", username),
	})
}

// SendNewOrderAlert forwards an order summary to the operations mailbox.
func (d *Dispatcher) SendNewOrderAlert(ctx context.Context, order model.Order) error {
	return d.dispatch(ctx, model.Message{
		Event:   model.EventNewOrder,
		To:      d.opsEmail,
		Subject: SubjectNewOrder,
		Body: fmt.Sprintf("A new order has been placed.\n\nName: %s\nEmail: %s\nPhone: %s\nDish: %s\nQuantity: %d\n",
			order.Name, order.Email, order.Phone, order.Dish, order.Quantity),
	})
}

func (d *Dispatcher) dispatch(ctx context.Context, msg model.Message) error {
	msg.From = d.from

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	err := d.sender.Send(ctx, msg)
	switch {
	case err == nil:
		d.metrics.Notification(msg.Event, d.outcome)
		d.logger.Debug("notification dispatched", slog.String("event", string(msg.Event)), slog.String("outcome", d.outcome))
		return nil
	case errors.Is(err, domainErrors.ErrInvalidMessage):
		d.metrics.Notification(msg.Event, metrics.OutcomeRejected)
		d.logger.Warn("notification rejected", slog.String("event", string(msg.Event)), slog.String("error", err.Error()))
		return pkgerrors.WithStack(err)
	case errors.Is(err, ErrQueueFull):
		d.metrics.Notification(msg.Event, metrics.OutcomeDropped)
		d.logger.Error("notification dropped", slog.String("event", string(msg.Event)), slog.String("error", err.Error()))
		return err
	default:
		d.metrics.Notification(msg.Event, metrics.OutcomeFailed)
		d.logger.Error("notification failed", slog.String("event", string(msg.Event)), slog.String("error", err.Error()))
		return domainErrors.Unavailable(err, "send "+string(msg.Event)+" notification")
	}
}
