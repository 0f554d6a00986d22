package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/sales-service/internal/core/domain"
	logicv1 "github.com/duynhne/sales-service/internal/logic/v1"
	"github.com/duynhne/sales-service/middleware"
)

const (
	tokenCookieName = "token"
	identityKey     = "identity"
)

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	var req domain.RegisterRequest
	if !bindJSON(c, span, logger, &req) {
		middleware.RecordAuthEvent("register", "invalid")
		return
	}

	response, err := h.svc.Auth.Register(ctx, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case writeValidationError(c, err):
			middleware.RecordAuthEvent("register", "invalid")
		case errors.Is(err, logicv1.ErrUserExists):
			middleware.RecordAuthEvent("register", "conflict")
			logger.Warn().Err(err).Msg("Registration rejected")
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists with this email"})
		default:
			middleware.RecordAuthEvent("register", "error")
			logger.Error().Err(err).Msg("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	middleware.RecordAuthEvent("register", "success")
	logger.Info().Str("user_id", response.User.ID).Msg("Registration successful")
	h.setTokenCookie(c, response.Token)
	c.JSON(http.StatusCreated, response)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	var req domain.LoginRequest
	if !bindJSON(c, span, logger, &req) {
		middleware.RecordAuthEvent("login", "invalid")
		return
	}

	response, err := h.svc.Auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case writeValidationError(c, err):
			middleware.RecordAuthEvent("login", "invalid")
		case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUserNotFound):
			// Same body for both so callers cannot probe for registered emails.
			middleware.RecordAuthEvent("login", "rejected")
			logger.Warn().Err(err).Msg("Login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			middleware.RecordAuthEvent("login", "error")
			logger.Error().Err(err).Msg("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	middleware.RecordAuthEvent("login", "success")
	logger.Info().Str("user_id", response.User.ID).Msg("Login successful")
	h.setTokenCookie(c, response.Token)
	c.JSON(http.StatusOK, response)
}

// GetMe handles GET /auth/me and returns the user behind the bearer token.
func (h *Handler) GetMe(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	user, err := h.svc.Auth.CurrentUser(ctx, identityFrom(c))
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, logicv1.ErrUserNotFound) {
			logger.Warn().Err(err).Msg("Token refers to a missing user")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		logger.Error().Err(err).Msg("Current user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity on the gin context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := h.svc.Auth.Authorize(c.GetHeader("Authorization"))
		if err != nil {
			_, span, logger := startRequest(c)
			span.SetAttributes(attribute.Bool("auth.valid", false))
			span.End()

			if errors.Is(err, logicv1.ErrTokenMissing) {
				middleware.RecordAuthEvent("authorize", "missing")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
				return
			}
			middleware.RecordAuthEvent("authorize", "invalid")
			logger.Debug().Err(err).Msg("Token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Set(middleware.UserIDKey, identity.UserID)
		c.Next()
	}
}

// identityFrom returns the identity stored by RequireAuth.
func identityFrom(c *gin.Context) domain.Identity {
	identity, _ := c.Get(identityKey)
	id, _ := identity.(domain.Identity)
	return id
}

func (h *Handler) setTokenCookie(c *gin.Context, token string) {
	if !h.cookieEnabled {
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(tokenCookieName, token, int(h.svc.Auth.TokenTTL().Seconds()), "/", "", false, true)
}
