package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/domain/repository"
	pkgAuth "github.com/polkiloo/restaurant/internal/pkg/auth"
)

// Registration is the input of AuthUseCase.Register.
type Registration struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// Credentials is the input of AuthUseCase.Login.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// AuthUseCase handles account creation and sign-in.
type AuthUseCase struct {
	users    repository.UserRepository
	txm      repository.TransactionManager
	hasher   pkgAuth.PasswordHasher
	notifier Notifier
	policy   NotifyPolicy
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	txm repository.TransactionManager,
	hasher pkgAuth.PasswordHasher,
	notifier Notifier,
	policy NotifyPolicy,
	logger *slog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		users:    users,
		txm:      txm,
		hasher:   hasher,
		notifier: notifier,
		policy:   policy,
		validate: newValidator(),
		logger:   logger,
	}
}

// Register stores a new user with a hashed password and sends the welcome email.
func (u *AuthUseCase) Register(ctx context.Context, in Registration) (*model.User, error) {
	if err := validateInput(u.validate, in); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}

	user := &model.User{Username: in.Username, Email: in.Email, PasswordHash: hash}

	if u.policy == NotifyStrict {
		err := u.txm.Execute(ctx, func(repos repository.Factory) error {
			if err := repos.Users().Create(ctx, user); err != nil {
				return err
			}
			return u.notifier.SendRegistrationWelcome(ctx, user.Email, user.Username)
		})
		if err != nil {
			return nil, err
		}
		return user, nil
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logDetachedFailure(u.logger, model.EventRegistration, u.notifier.SendRegistrationWelcome(ctx, user.Email, user.Username))
	return user, nil
}

// Login checks credentials and sends a login alert to the account's email.
// Unknown usernames and wrong passwords fail identically, including the time spent hashing.
func (u *AuthUseCase) Login(ctx context.Context, in Credentials) (*model.User, error) {
	if err := validateInput(u.validate, in); err != nil {
		return nil, err
	}

	user, err := u.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.hasher.VerifyDummy(in.Password)
			return nil, pkgerrors.WithStack(domainErrors.ErrInvalidCredentials)
		}
		return nil, err
	}

	if !u.hasher.Verify(user.PasswordHash, in.Password) {
		return nil, pkgerrors.WithStack(domainErrors.ErrInvalidCredentials)
	}

	if err := u.notifier.SendLoginAlert(ctx, user.Email, user.Username); err != nil {
		if u.policy == NotifyStrict {
			return nil, err
		}
		logDetachedFailure(u.logger, model.EventLogin, err)
	}
	return user, nil
}
