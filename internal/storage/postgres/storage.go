package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pkgerrors "github.com/pkg/errors"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/domain/repository"
)

const uniqueViolation = "23505"

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool    pgxPool
	logger  *slog.Logger
	timeout time.Duration
}

type userRepository struct {
	storage *Storage
	q       querier
}

type orderRepository struct {
	storage *Storage
	q       querier
}

type txFactory struct {
	storage *Storage
	tx      pgx.Tx
}

// New creates storage with schema initialization. Every statement is bounded by timeout.
func New(ctx context.Context, dsn string, timeout time.Duration, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger, timeout: timeout}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Users returns a user repository bound to the pool.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s, q: s.pool}
}

// Orders returns an order repository bound to the pool.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s, q: s.pool}
}

// Execute runs fn with repositories sharing one transaction.
func (s *Storage) Execute(ctx context.Context, fn func(repository.Factory) error) error {
	return s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return fn(&txFactory{storage: s, tx: tx})
	})
}

func (f *txFactory) Users() repository.UserRepository {
	return &userRepository{storage: f.storage, q: f.tx}
}

func (f *txFactory) Orders() repository.OrderRepository {
	return &orderRepository{storage: f.storage, q: f.tx}
}

// HealthCheck pings the database.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return domainErrors.Unavailable(err, "ping database")
	}
	return nil
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            email TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            dish TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// classify maps driver errors onto domain error kinds.
func classify(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pkgerrors.Wrap(domainErrors.ErrAlreadyExists, op)
	}
	if isUnavailable(err) {
		return domainErrors.Unavailable(err, op)
	}
	return pkgerrors.Wrap(err, op)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return classify(err, "insert user")
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `SELECT id, username, email, password_hash, created_at FROM users WHERE username=$1`
	var u model.User
	err := r.q.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, classify(err, "select user")
	}
	return &u, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `INSERT INTO orders (name, email, phone, quantity, dish) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, order.Name, order.Email, order.Phone, order.Quantity, order.Dish).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return classify(err, "insert order")
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && s.logger != nil {
				s.logger.Warn("transaction rollback failed", slog.String("error", rbErr.Error()))
			}
		} else if cErr := tx.Commit(ctx); cErr != nil {
			err = classify(cErr, "commit transaction")
		}
	}()

	err = fn(tx)
	return err
}

var (
	_ repository.TransactionManager = (*Storage)(nil)
	_ repository.Factory            = (*Storage)(nil)
)
