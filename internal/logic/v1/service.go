package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/sales-service/internal/core/domain"
	"github.com/duynhne/sales-service/middleware"
)

const bearerPrefix = "Bearer "

// dummyHash is compared against when the email is unknown so that both
// login failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("sales-service-dummy-password"), bcrypt.DefaultCost)

// AuthService implements registration, login and token authorization.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database directly.
type AuthService struct {
	users  domain.UserRepository
	tokens *TokenCodec
	cost   int
	now    func() time.Time
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, tokens *TokenCodec) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

// Register validates the payload, rejects a taken email, stores the user
// with a bcrypt hash and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	req, err := ValidateRegister(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register %q: %w", req.Email, ErrUserExists)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := &domain.UserRow{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, row); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			span.SetAttributes(attribute.Bool("registration.success", false))
			return nil, fmt.Errorf("register %q: %w", req.Email, ErrUserExists)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	response, err := s.issue(row)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("user.id", row.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return response, nil
}

// Login verifies the password against the stored hash and returns the user
// with a fresh token. Unknown email and wrong password are reported as
// ErrUserNotFound and ErrInvalidCredentials; handlers render both identically.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	req, err := ValidateLogin(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, err
	}

	row, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	if row == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", req.Email, ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", req.Email, ErrInvalidCredentials)
	}

	response, err := s.issue(row)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return response, nil
}

// Authorize extracts the bearer token from an Authorization header value and
// verifies it. It touches no store and no shared mutable state.
func (s *AuthService) Authorize(authorization string) (domain.Identity, error) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return domain.Identity{}, ErrTokenMissing
	}
	token := strings.TrimSpace(authorization[len(bearerPrefix):])
	if token == "" {
		return domain.Identity{}, ErrTokenMissing
	}
	return s.tokens.Verify(token)
}

// CurrentUser loads the user a verified identity refers to.
func (s *AuthService) CurrentUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.current_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", identity.UserID),
	))
	defer span.End()

	row, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("lookup user %s: %w", identity.UserID, ErrUserNotFound)
	}

	user := row.ToUser()
	return &user, nil
}

// TokenTTL returns the lifetime of tokens issued by this service.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) issue(row *domain.UserRow) (*domain.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(row.ID, row.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AuthResponse{
		User:      row.ToUser(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
