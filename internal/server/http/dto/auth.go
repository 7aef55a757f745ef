package dto

// RegisterRequest describes a sign up payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse returns the issued access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the body of client errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
