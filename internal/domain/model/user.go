package model

import "time"

// User represents a registered restaurant customer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
