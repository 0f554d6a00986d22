package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	logicv1 "github.com/duynhne/sales-service/internal/logic/v1"
)

// recordHandler serves list/get/create/update/delete for one record type.
type recordHandler[T any, R any] struct {
	svc      *logicv1.RecordService[T, R]
	label    string
	conflict string
}

func newRecordHandler[T any, R any](svc *logicv1.RecordService[T, R], label, conflict string) *recordHandler[T, R] {
	return &recordHandler[T, R]{svc: svc, label: label, conflict: conflict}
}

func (h *recordHandler[T, R]) register(rg *gin.RouterGroup, path string) {
	rg.GET(path, h.List)
	rg.POST(path, h.Create)
	rg.GET(path+"/:id", h.Get)
	rg.PUT(path+"/:id", h.Update)
	rg.DELETE(path+"/:id", h.Delete)
}

func (h *recordHandler[T, R]) List(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	items, err := h.svc.List(ctx)
	if err != nil {
		h.writeError(c, span, logger, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *recordHandler[T, R]) Get(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	item, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, span, logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *recordHandler[T, R]) Create(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	var req R
	if !bindJSON(c, span, logger, &req) {
		return
	}

	item, err := h.svc.Create(ctx, identityFrom(c), req)
	if err != nil {
		h.writeError(c, span, logger, err)
		return
	}
	logger.Info().Str("kind", h.label).Msg("Record created")
	c.JSON(http.StatusCreated, item)
}

func (h *recordHandler[T, R]) Update(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	var req R
	if !bindJSON(c, span, logger, &req) {
		return
	}

	item, err := h.svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		h.writeError(c, span, logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *recordHandler[T, R]) Delete(c *gin.Context) {
	ctx, span, logger := startRequest(c)
	defer span.End()

	if err := h.svc.Delete(ctx, c.Param("id")); err != nil {
		h.writeError(c, span, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.label + " deleted successfully"})
}

// writeError maps a service error onto the response. Unrecognized errors
// become 500 and are only logged.
func (h *recordHandler[T, R]) writeError(c *gin.Context, span trace.Span, logger *zerolog.Logger, err error) {
	span.RecordError(err)

	switch {
	case writeValidationError(c, err):
		span.SetAttributes(attribute.Bool("request.valid", false))
	case errors.Is(err, logicv1.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
	case errors.Is(err, logicv1.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
	case errors.Is(err, logicv1.ErrDuplicate):
		logger.Warn().Err(err).Msg("Duplicate record")
		c.JSON(http.StatusConflict, gin.H{"error": h.conflict})
	default:
		logger.Error().Err(err).Str("kind", h.label).Msg("Record operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
