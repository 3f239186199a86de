package usecase

import (
	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validateInput reports any failed struct tag as a missing-fields error.
func validateInput(v *validator.Validate, input any) error {
	if err := v.Struct(input); err != nil {
		return domainErrors.MissingFields(err)
	}
	return nil
}
