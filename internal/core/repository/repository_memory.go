package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/duynhne/sales-service/internal/core/domain"
)

var (
	_ domain.UserRepository         = (*MemoryUserRepository)(nil)
	_ domain.ProductRepository      = (*MemoryProductRepository)(nil)
	_ domain.WebsiteVisitRepository = (*MemoryWebsiteVisitRepository)(nil)
	_ domain.StoreVisitRepository   = (*MemoryStoreVisitRepository)(nil)
)

// MemoryUserRepository keeps users in process memory. Email uniqueness is
// enforced under the lock, so concurrent registrations cannot both succeed.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.UserRow
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.UserRow),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.UserRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.UserRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.UserRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrDuplicate
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// memoryTable is a mutex-guarded map of records keyed by id. uniqueKey, when
// set, returns the value that must be unique across records. deepCopy, when set,
// deep-copies reference fields so callers never share storage with the table.
type memoryTable[T any] struct {
	mu        sync.RWMutex
	rows      map[string]T
	id        func(*T) string
	uniqueKey func(*T) string
	deepCopy  func(T) T
	less      func(a, b *T) int
}

func newMemoryTable[T any](id func(*T) string, less func(a, b *T) int) *memoryTable[T] {
	return &memoryTable[T]{rows: make(map[string]T), id: id, less: less}
}

func (t *memoryTable[T]) cloned(v T) T {
	if t.deepCopy == nil {
		return v
	}
	return t.deepCopy(v)
}

func (t *memoryTable[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		out = append(out, t.cloned(v))
	}
	slices.SortFunc(out, func(a, b T) int { return t.less(&a, &b) })
	return out
}

func (t *memoryTable[T]) get(id string) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[id]
	if !ok {
		return nil
	}
	v = t.cloned(v)
	return &v
}

// insertLocked requires t.mu held for writing.
func (t *memoryTable[T]) insertLocked(v T) error {
	if t.uniqueKey != nil {
		key := t.uniqueKey(&v)
		for id, existing := range t.rows {
			if id != t.id(&v) && t.uniqueKey(&existing) == key {
				return domain.ErrDuplicate
			}
		}
	}
	t.rows[t.id(&v)] = t.cloned(v)
	return nil
}

func (t *memoryTable[T]) create(v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[t.id(&v)]; ok {
		return domain.ErrDuplicate
	}
	return t.insertLocked(v)
}

// update applies patch to the stored row and returns the result, or nil when absent.
func (t *memoryTable[T]) update(id string, patch func(stored *T)) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.rows[id]
	if !ok {
		return nil, nil
	}
	patch(&v)
	if err := t.insertLocked(v); err != nil {
		return nil, err
	}
	v = t.cloned(v)
	return &v, nil
}

func (t *memoryTable[T]) delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// insertMany stores all values or, on the first conflict, none of them.
func (t *memoryTable[T]) insertMany(values []T) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	inserted := make([]string, 0, len(values))
	for _, v := range values {
		err := domain.ErrDuplicate
		if _, ok := t.rows[t.id(&v)]; !ok {
			err = t.insertLocked(v)
		}
		if err != nil {
			for _, id := range inserted {
				delete(t.rows, id)
			}
			return 0, err
		}
		inserted = append(inserted, t.id(&v))
	}
	return len(values), nil
}

// newestFirst orders by the primary time, then by creation time, both descending.
func newestFirst(a, b, aCreated, bCreated time.Time) int {
	if c := b.Compare(a); c != 0 {
		return c
	}
	return bCreated.Compare(aCreated)
}

// MemoryProductRepository keeps products in process memory.
type MemoryProductRepository struct {
	t *memoryTable[domain.Product]
}

func NewMemoryProductRepository() *MemoryProductRepository {
	t := newMemoryTable(
		func(p *domain.Product) string { return p.ID },
		func(a, b *domain.Product) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		},
	)
	t.uniqueKey = func(p *domain.Product) string { return p.Name }
	return &MemoryProductRepository{t: t}
}

func (r *MemoryProductRepository) List(context.Context) ([]domain.Product, error) {
	return r.t.list(), nil
}

func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	return r.t.get(id), nil
}

func (r *MemoryProductRepository) Create(_ context.Context, p *domain.Product) error {
	return r.t.create(*p)
}

func (r *MemoryProductRepository) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	return r.t.update(p.ID, func(stored *domain.Product) {
		stored.Name = p.Name
		stored.Category = p.Category
		stored.Price = p.Price
		stored.Stock = p.Stock
		stored.SKU = p.SKU
		stored.Description = p.Description
		stored.UpdatedAt = p.UpdatedAt
	})
}

func (r *MemoryProductRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.t.delete(id), nil
}

func (r *MemoryProductRepository) InsertMany(_ context.Context, products []domain.Product) (int, error) {
	return r.t.insertMany(products)
}

// MemoryWebsiteVisitRepository keeps website visits in process memory.
type MemoryWebsiteVisitRepository struct {
	t *memoryTable[domain.WebsiteVisit]
}

func NewMemoryWebsiteVisitRepository() *MemoryWebsiteVisitRepository {
	return &MemoryWebsiteVisitRepository{t: newMemoryTable(
		func(v *domain.WebsiteVisit) string { return v.ID },
		func(a, b *domain.WebsiteVisit) int {
			return newestFirst(a.VisitDate, b.VisitDate, a.CreatedAt, b.CreatedAt)
		},
	)}
}

func (r *MemoryWebsiteVisitRepository) List(context.Context) ([]domain.WebsiteVisit, error) {
	return r.t.list(), nil
}

func (r *MemoryWebsiteVisitRepository) GetByID(_ context.Context, id string) (*domain.WebsiteVisit, error) {
	return r.t.get(id), nil
}

func (r *MemoryWebsiteVisitRepository) Create(_ context.Context, v *domain.WebsiteVisit) error {
	return r.t.create(*v)
}

func (r *MemoryWebsiteVisitRepository) Update(_ context.Context, v *domain.WebsiteVisit) (*domain.WebsiteVisit, error) {
	return r.t.update(v.ID, func(stored *domain.WebsiteVisit) {
		stored.URL = v.URL
		stored.VisitDate = v.VisitDate
		stored.Duration = v.Duration
		stored.PageViews = v.PageViews
		stored.TrafficSource = v.TrafficSource
		stored.Referrer = v.Referrer
		stored.UserAgent = v.UserAgent
		stored.IP = v.IP
		stored.Converted = v.Converted
		stored.UpdatedAt = v.UpdatedAt
	})
}

func (r *MemoryWebsiteVisitRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.t.delete(id), nil
}

func (r *MemoryWebsiteVisitRepository) InsertMany(_ context.Context, visits []domain.WebsiteVisit) (int, error) {
	return r.t.insertMany(visits)
}

// MemoryStoreVisitRepository keeps store visits in process memory.
type MemoryStoreVisitRepository struct {
	t *memoryTable[domain.StoreVisit]
}

func NewMemoryStoreVisitRepository() *MemoryStoreVisitRepository {
	t := newMemoryTable(
		func(v *domain.StoreVisit) string { return v.ID },
		func(a, b *domain.StoreVisit) int {
			return newestFirst(a.VisitDate, b.VisitDate, a.CreatedAt, b.CreatedAt)
		},
	)
	t.deepCopy = func(v domain.StoreVisit) domain.StoreVisit {
		v.ProductsViewed = slices.Clone(v.ProductsViewed)
		return v
	}
	return &MemoryStoreVisitRepository{t: t}
}

func (r *MemoryStoreVisitRepository) List(context.Context) ([]domain.StoreVisit, error) {
	return r.t.list(), nil
}

func (r *MemoryStoreVisitRepository) GetByID(_ context.Context, id string) (*domain.StoreVisit, error) {
	return r.t.get(id), nil
}

func (r *MemoryStoreVisitRepository) Create(_ context.Context, v *domain.StoreVisit) error {
	return r.t.create(*v)
}

func (r *MemoryStoreVisitRepository) Update(_ context.Context, v *domain.StoreVisit) (*domain.StoreVisit, error) {
	return r.t.update(v.ID, func(stored *domain.StoreVisit) {
		stored.CustomerName = v.CustomerName
		stored.StoreLocation = v.StoreLocation
		stored.VisitDate = v.VisitDate
		stored.ProductsViewed = v.ProductsViewed
		stored.PurchaseMade = v.PurchaseMade
		stored.PurchaseAmount = v.PurchaseAmount
		stored.Notes = v.Notes
		stored.UpdatedAt = v.UpdatedAt
	})
}

func (r *MemoryStoreVisitRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.t.delete(id), nil
}

func (r *MemoryStoreVisitRepository) InsertMany(_ context.Context, visits []domain.StoreVisit) (int, error) {
	return r.t.insertMany(visits)
}
