package repository

import (
	"context"

	"github.com/polkiloo/restaurant/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
