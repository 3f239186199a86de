package auth

import (
	"github.com/polkiloo/restaurant/internal/config"
	"go.uber.org/fx"
)

// Module provides authentication primitives via fx.
var Module = fx.Provide(newPasswordHasher)

type hasherParams struct {
	fx.In

	Config *config.Config
}

func newPasswordHasher(p hasherParams) PasswordHasher {
	return NewBcryptHasher(p.Config.BcryptCost)
}
