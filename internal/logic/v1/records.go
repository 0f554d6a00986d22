package v1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/sales-service/internal/core/domain"
	"github.com/duynhne/sales-service/middleware"
)

// recordRepository is the shape shared by the product, website visit and
// store visit repositories.
type recordRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) (*T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RecordService implements list/get/create/update/delete for one record type.
// T is the stored record, R its request payload.
type RecordService[T any, R any] struct {
	kind     string
	repo     recordRepository[T]
	validate func(R) (T, error)
	// stamp sets id, owner and timestamps on a validated record.
	stamp func(v *T, id, userID string, createdAt, updatedAt time.Time)
	now   func() time.Time
}

// ProductService manages products.
type ProductService = RecordService[domain.Product, domain.ProductRequest]

// WebsiteVisitService manages website visits.
type WebsiteVisitService = RecordService[domain.WebsiteVisit, domain.WebsiteVisitRequest]

// StoreVisitService manages store visits.
type StoreVisitService = RecordService[domain.StoreVisit, domain.StoreVisitRequest]

// NewProductService creates a ProductService.
func NewProductService(repo domain.ProductRepository) *ProductService {
	return &ProductService{
		kind:     "product",
		repo:     repo,
		validate: ValidateProduct,
		stamp: func(p *domain.Product, id, userID string, createdAt, updatedAt time.Time) {
			p.ID, p.UserID, p.CreatedAt, p.UpdatedAt = id, userID, createdAt, updatedAt
		},
		now: time.Now,
	}
}

// NewWebsiteVisitService creates a WebsiteVisitService.
func NewWebsiteVisitService(repo domain.WebsiteVisitRepository) *WebsiteVisitService {
	return &WebsiteVisitService{
		kind:     "website_visit",
		repo:     repo,
		validate: ValidateWebsiteVisit,
		stamp: func(v *domain.WebsiteVisit, id, userID string, createdAt, updatedAt time.Time) {
			v.ID, v.UserID, v.CreatedAt, v.UpdatedAt = id, userID, createdAt, updatedAt
		},
		now: time.Now,
	}
}

// NewStoreVisitService creates a StoreVisitService.
func NewStoreVisitService(repo domain.StoreVisitRepository) *StoreVisitService {
	return &StoreVisitService{
		kind:     "store_visit",
		repo:     repo,
		validate: ValidateStoreVisit,
		stamp: func(v *domain.StoreVisit, id, userID string, createdAt, updatedAt time.Time) {
			v.ID, v.UserID, v.CreatedAt, v.UpdatedAt = id, userID, createdAt, updatedAt
		},
		now: time.Now,
	}
}

// List returns every record in the repository's default order.
func (s *RecordService[T, R]) List(ctx context.Context) ([]T, error) {
	ctx, span := s.startSpan(ctx, "list")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

// Get returns the record with id. Malformed ids yield ErrInvalidID, absent ones ErrNotFound.
func (s *RecordService[T, R]) Get(ctx context.Context, id string) (*T, error) {
	ctx, span := s.startSpan(ctx, "get")
	defer span.End()

	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get %s %s: %w", s.kind, id, err)
	}
	if item == nil {
		return nil, fmt.Errorf("get %s %s: %w", s.kind, id, ErrNotFound)
	}
	return item, nil
}

// Create validates req and stores a new record owned by the caller.
func (s *RecordService[T, R]) Create(ctx context.Context, owner domain.Identity, req R) (*T, error) {
	ctx, span := s.startSpan(ctx, "create")
	defer span.End()

	item, err := s.validate(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, err
	}

	now := s.now().UTC()
	s.stamp(&item, uuid.NewString(), owner.UserID, now, now)

	if err := s.repo.Create(ctx, &item); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("create %s: %w", s.kind, ErrDuplicate)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("create %s: %w", s.kind, err)
	}
	return &item, nil
}

// Update validates req and replaces the mutable fields of the record with id.
// Owner and creation time are kept.
func (s *RecordService[T, R]) Update(ctx context.Context, id string, req R) (*T, error) {
	ctx, span := s.startSpan(ctx, "update")
	defer span.End()

	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.validate(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, err
	}
	s.stamp(&item, id, "", time.Time{}, s.now().UTC())

	updated, err := s.repo.Update(ctx, &item)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("update %s %s: %w", s.kind, id, ErrDuplicate)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("update %s %s: %w", s.kind, id, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("update %s %s: %w", s.kind, id, ErrNotFound)
	}
	return updated, nil
}

// Delete removes the record with id.
func (s *RecordService[T, R]) Delete(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "delete")
	defer span.End()

	id, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete %s %s: %w", s.kind, id, err)
	}
	if !deleted {
		return fmt.Errorf("delete %s %s: %w", s.kind, id, ErrNotFound)
	}
	return nil
}

func (s *RecordService[T, R]) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return middleware.StartSpan(ctx, s.kind+"."+op, trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
}

// parseID canonicalizes a record id; anything that is not a UUID is ErrInvalidID.
func parseID(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("empty id: %w", ErrInvalidID)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("parse id %q: %w", id, ErrInvalidID)
	}
	return parsed.String(), nil
}
