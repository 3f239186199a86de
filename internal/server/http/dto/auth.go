package dto

// RegisterRequest describes the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest describes the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
