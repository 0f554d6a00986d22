package v1

import (
	"context"
	"errors"
	"net/http"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	logicv1 "github.com/duynhne/sales-service/internal/logic/v1"
	"github.com/duynhne/sales-service/middleware"
)

// Services bundles the business logic a Handler serves.
type Services struct {
	Auth          *logicv1.AuthService
	Products      *logicv1.ProductService
	WebsiteVisits *logicv1.WebsiteVisitService
	StoreVisits   *logicv1.StoreVisitService
	SampleData    *logicv1.SampleDataService
	Dashboard     *logicv1.DashboardService
}

// Handler groups HTTP handlers for the sales API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	svc           Services
	cookieEnabled bool
}

// NewHandler creates a new Handler. When cookieEnabled is set, register and
// login also return the token as an HttpOnly cookie.
func NewHandler(svc Services, cookieEnabled bool) *Handler {
	return &Handler{svc: svc, cookieEnabled: cookieEnabled}
}

// RegisterRoutes registers all API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)

	products := newRecordHandler(h.svc.Products, "Product", "Product with this name already exists")
	websiteVisits := newRecordHandler(h.svc.WebsiteVisits, "Website visit", "Website visit already exists")
	storeVisits := newRecordHandler(h.svc.StoreVisits, "Store visit", "Store visit already exists")

	// A single product is readable without a token.
	rg.GET("/products/:id", products.Get)

	authed := rg.Group("", h.RequireAuth())
	authed.GET("/auth/me", h.GetMe)

	authed.GET("/products", products.List)
	authed.POST("/products", products.Create)
	authed.PUT("/products/:id", products.Update)
	authed.DELETE("/products/:id", products.Delete)

	websiteVisits.register(authed, "/website-visits")
	storeVisits.register(authed, "/store-visits")

	authed.POST("/data/generate", h.GenerateSampleData)
	authed.GET("/dashboard/stats", h.DashboardStats)
}

// GenerateSampleData handles POST /data/generate.
func (h *Handler) GenerateSampleData(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	identity := identityFrom(c)
	counts, err := h.svc.SampleData.Generate(ctx, identity)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Sample data generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate sample data"})
		return
	}

	logger.Info().
		Int("website_visits", counts.WebsiteVisits).
		Int("store_visits", counts.StoreVisits).
		Int("products", counts.Products).
		Msg("Sample data generated")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Sample data generated successfully",
		"data":    counts,
	})
}

// DashboardStats handles GET /dashboard/stats.
func (h *Handler) DashboardStats(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	stats, err := h.svc.Dashboard.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Dashboard stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// startRequest opens the web-layer span and returns the request logger.
func startRequest(c *gin.Context) (context.Context, trace.Span, *zerolog.Logger) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
	return ctx, span, pkgzerolog.FromContext(ctx)
}

// bindJSON decodes the body into dst, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, span trace.Span, logger *zerolog.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// writeValidationError answers 400 with per-field details when err is a
// validation failure and reports whether it did.
func writeValidationError(c *gin.Context, err error) bool {
	var validationErr *logicv1.ValidationError
	if !errors.As(err, &validationErr) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation failed",
		"details": validationErr.Fields,
	})
	return true
}
