package usecase

import (
	"context"
	"log/slog"

	"github.com/polkiloo/restaurant/internal/config"
	"github.com/polkiloo/restaurant/internal/domain/model"
)

// Notifier sends the transactional emails attached to each operation.
type Notifier interface {
	SendRegistrationWelcome(ctx context.Context, toEmail, username string) error
	SendLoginAlert(ctx context.Context, toEmail, username string) error
	SendNewOrderAlert(ctx context.Context, order model.Order) error
}

// NotifyPolicy decides whether a failed notification fails the request.
type NotifyPolicy int

const (
	// NotifyStrict sends inside the write transaction; a failed send rolls the write back.
	NotifyStrict NotifyPolicy = iota
	// NotifyAsync hands the message to a background queue after the write commits.
	NotifyAsync
)

// PolicyFromConfig maps the configured notify mode to a policy.
func PolicyFromConfig(cfg *config.Config) NotifyPolicy {
	if cfg.NotifyMode == config.NotifyModeAsync {
		return NotifyAsync
	}
	return NotifyStrict
}

func logDetachedFailure(logger *slog.Logger, event model.Event, err error) {
	if err == nil {
		return
	}
	logger.Warn("notification not queued", slog.String("event", string(event)), slog.String("error", err.Error()))
}
