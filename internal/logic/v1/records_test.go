package v1

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/sales-service/internal/core/domain"
	"github.com/duynhne/sales-service/internal/core/repository"
)

var owner = domain.Identity{UserID: "5f0c8a52-1b1e-4d7f-9d2b-3c6e1f1a2b3c", Email: "a@b.com"}

func widget(name string) domain.ProductRequest {
	return domain.ProductRequest{
		Name:     name,
		Category: "Electronics",
		Price:    ptr(decimal.RequireFromString("9.99")),
		Stock:    ptr(5),
	}
}

func TestProductService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(repository.NewMemoryProductRepository())

	created, err := svc.Create(ctx, owner, widget("Widget"))
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, created.UserID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)

	req := widget("Widget Pro")
	req.Price = ptr(decimal.RequireFromString("19.50"))
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("19.5")))
	assert.Equal(t, owner.UserID, updated.UserID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestProductService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(repository.NewMemoryProductRepository())

	first, err := svc.Create(ctx, owner, widget("Widget"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, widget("Gadget"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner, widget("Widget"))
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Update(ctx, second.ID, widget(first.Name))
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Get(ctx, "badId")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.Update(ctx, "badId", widget("X"))
	assert.ErrorIs(t, err, ErrInvalidID)

	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrInvalidID)

	_, err = svc.Update(ctx, uuid.NewString(), widget("X"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, owner, domain.ProductRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductService_GetCanonicalizesID(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(repository.NewMemoryProductRepository())

	created, err := svc.Create(ctx, owner, widget("Widget"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, "urn:uuid:"+created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestWebsiteVisitService_ListOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewWebsiteVisitService(repository.NewMemoryWebsiteVisitRepository())

	for _, date := range []string{"2026-01-02", "2026-03-01", "2026-02-15"} {
		_, err := svc.Create(ctx, owner, domain.WebsiteVisitRequest{URL: "https://example.com", VisitDate: date})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3, int(list[0].VisitDate.Month()))
	assert.Equal(t, 2, int(list[1].VisitDate.Month()))
	assert.Equal(t, 1, int(list[2].VisitDate.Month()))
	assert.Equal(t, 1, list[0].PageViews)
}

func TestStoreVisitService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewStoreVisitService(repository.NewMemoryStoreVisitRepository())

	created, err := svc.Create(ctx, owner, domain.StoreVisitRequest{
		CustomerName:  "Jane",
		StoreLocation: "Chicago",
		VisitDate:     "2026-02-01",
	})
	require.NoError(t, err)
	assert.Empty(t, created.ProductsViewed)

	svc.now = func() time.Time { return created.UpdatedAt.Add(time.Minute) }
	updated, err := svc.Update(ctx, created.ID, domain.StoreVisitRequest{
		CustomerName:   "Jane",
		StoreLocation:  "Houston",
		VisitDate:      "2026-02-02",
		ProductsViewed: []string{"PROD-1"},
		PurchaseMade:   true,
		PurchaseAmount: ptr(decimal.RequireFromString("42.00")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Houston", updated.StoreLocation)
	assert.Equal(t, []string{"PROD-1"}, updated.ProductsViewed)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = svc.Update(ctx, created.ID, domain.StoreVisitRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}
