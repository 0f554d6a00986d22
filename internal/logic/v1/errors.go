// Package v1 provides authentication and record business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent the failure classes a
// handler must distinguish. They are wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods.
//
// Example Usage:
//
//	if user == nil {
//	    return nil, fmt.Errorf("authenticate user %q: %w", email, ErrUserNotFound)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUserNotFound):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
//	case errors.As(err, &validationErr):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationErr.Fields})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import (
	"errors"
	"strings"
)

// Sentinel errors for authentication and record operations.
var (
	// ErrInvalidCredentials indicates the provided password is incorrect.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the user does not exist in the system.
	// HTTP Status: 401 Unauthorized (same body as ErrInvalidCredentials)
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrTokenMissing indicates the Authorization header is absent or not a Bearer credential.
	// HTTP Status: 401 Unauthorized
	ErrTokenMissing = errors.New("access token required")

	// ErrTokenInvalid indicates a bad signature, wrong algorithm, wrong issuer or expiry.
	// HTTP Status: 401 Unauthorized
	ErrTokenInvalid = errors.New("invalid or expired token")

	// ErrInvalidID indicates a malformed record identifier.
	// HTTP Status: 400 Bad Request
	ErrInvalidID = errors.New("invalid id")

	// ErrNotFound indicates the addressed record does not exist.
	// HTTP Status: 404 Not Found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a record uniqueness conflict (product name).
	// HTTP Status: 409 Conflict
	ErrDuplicate = errors.New("record already exists")

	// ErrValidation is the target of errors.Is for every *ValidationError.
	// HTTP Status: 400 Bad Request
	ErrValidation = errors.New("validation failed")
)

// FieldError describes one failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failing field of a request payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
