package domain

import "time"

// User is the public view of a user. The password hash never leaves the Core layer.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`

	// ExpiresAt is used for the auth cookie and is not serialized.
	ExpiresAt time.Time `json:"-"`
}

// Identity is the verified content of a bearer token.
type Identity struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}
