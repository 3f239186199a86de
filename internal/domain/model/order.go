package model

import "time"

// Order describes a dish order placed through the website. Name and Email are
// free text and do not reference a registered user.
type Order struct {
	ID        int64
	Name      string `validate:"required"`
	Email     string `validate:"required"`
	Phone     string `validate:"required"`
	Quantity  int    `validate:"required,gt=0"`
	Dish      string `validate:"required"`
	CreatedAt time.Time
}
