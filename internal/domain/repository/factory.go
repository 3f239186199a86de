package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Orders() OrderRepository
}

// TransactionManager runs fn with repositories bound to a single transaction.
// The transaction commits only when fn returns nil.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(Factory) error) error
}
