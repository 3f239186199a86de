package dto

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
