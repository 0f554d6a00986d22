package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/sales-service/internal/core/domain"
)

var (
	_ domain.WebsiteVisitRepository = (*PgxWebsiteVisitRepository)(nil)
	_ domain.StoreVisitRepository   = (*PgxStoreVisitRepository)(nil)
)

const websiteVisitColumns = `id, user_id, url, visit_date, duration, page_views, traffic_source, referrer, user_agent, ip, converted, created_at, updated_at`

// PgxWebsiteVisitRepository implements domain.WebsiteVisitRepository using pgxpool.
type PgxWebsiteVisitRepository struct {
	pool *pgxpool.Pool
}

// NewWebsiteVisitRepository creates a new PgxWebsiteVisitRepository.
func NewWebsiteVisitRepository(pool *pgxpool.Pool) *PgxWebsiteVisitRepository {
	return &PgxWebsiteVisitRepository{pool: pool}
}

func (r *PgxWebsiteVisitRepository) List(ctx context.Context) ([]domain.WebsiteVisit, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+websiteVisitColumns+` FROM website_visits ORDER BY visit_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := make([]domain.WebsiteVisit, 0)
	for rows.Next() {
		v, err := scanWebsiteVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

func (r *PgxWebsiteVisitRepository) GetByID(ctx context.Context, id string) (*domain.WebsiteVisit, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+websiteVisitColumns+` FROM website_visits WHERE id = $1`, id)
	return nilOnNoRows(scanWebsiteVisit(row))
}

func (r *PgxWebsiteVisitRepository) Create(ctx context.Context, v *domain.WebsiteVisit) error {
	_, err := r.pool.Exec(ctx, insertWebsiteVisitSQL, websiteVisitArgs(v)...)
	return mapPgError(err)
}

func (r *PgxWebsiteVisitRepository) Update(ctx context.Context, v *domain.WebsiteVisit) (*domain.WebsiteVisit, error) {
	query := `
		UPDATE website_visits
		SET url = $2, visit_date = $3, duration = $4, page_views = $5, traffic_source = $6,
		    referrer = $7, user_agent = $8, ip = $9, converted = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + websiteVisitColumns

	row := r.pool.QueryRow(ctx, query, v.ID, v.URL, v.VisitDate, v.Duration, v.PageViews, v.TrafficSource,
		v.Referrer, v.UserAgent, v.IP, v.Converted, v.UpdatedAt)
	return nilOnNoRows(scanWebsiteVisit(row))
}

func (r *PgxWebsiteVisitRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM website_visits WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgxWebsiteVisitRepository) InsertMany(ctx context.Context, visits []domain.WebsiteVisit) (int, error) {
	batch := &pgx.Batch{}
	for i := range visits {
		batch.Queue(insertWebsiteVisitSQL, websiteVisitArgs(&visits[i])...)
	}
	return sendInsertBatch(ctx, r.pool, batch)
}

const insertWebsiteVisitSQL = `
	INSERT INTO website_visits (` + websiteVisitColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func websiteVisitArgs(v *domain.WebsiteVisit) []any {
	return []any{v.ID, v.UserID, v.URL, v.VisitDate, v.Duration, v.PageViews, v.TrafficSource,
		v.Referrer, v.UserAgent, v.IP, v.Converted, v.CreatedAt, v.UpdatedAt}
}

func scanWebsiteVisit(row pgx.Row) (*domain.WebsiteVisit, error) {
	var v domain.WebsiteVisit
	err := row.Scan(&v.ID, &v.UserID, &v.URL, &v.VisitDate, &v.Duration, &v.PageViews, &v.TrafficSource,
		&v.Referrer, &v.UserAgent, &v.IP, &v.Converted, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

const storeVisitColumns = `id, user_id, customer_name, store_location, visit_date, products_viewed, purchase_made, purchase_amount, notes, created_at, updated_at`

// PgxStoreVisitRepository implements domain.StoreVisitRepository using pgxpool.
type PgxStoreVisitRepository struct {
	pool *pgxpool.Pool
}

// NewStoreVisitRepository creates a new PgxStoreVisitRepository.
func NewStoreVisitRepository(pool *pgxpool.Pool) *PgxStoreVisitRepository {
	return &PgxStoreVisitRepository{pool: pool}
}

func (r *PgxStoreVisitRepository) List(ctx context.Context) ([]domain.StoreVisit, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+storeVisitColumns+` FROM store_visits ORDER BY visit_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := make([]domain.StoreVisit, 0)
	for rows.Next() {
		v, err := scanStoreVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

func (r *PgxStoreVisitRepository) GetByID(ctx context.Context, id string) (*domain.StoreVisit, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeVisitColumns+` FROM store_visits WHERE id = $1`, id)
	return nilOnNoRows(scanStoreVisit(row))
}

func (r *PgxStoreVisitRepository) Create(ctx context.Context, v *domain.StoreVisit) error {
	_, err := r.pool.Exec(ctx, insertStoreVisitSQL, storeVisitArgs(v)...)
	return mapPgError(err)
}

func (r *PgxStoreVisitRepository) Update(ctx context.Context, v *domain.StoreVisit) (*domain.StoreVisit, error) {
	query := `
		UPDATE store_visits
		SET customer_name = $2, store_location = $3, visit_date = $4, products_viewed = $5,
		    purchase_made = $6, purchase_amount = $7, notes = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + storeVisitColumns

	row := r.pool.QueryRow(ctx, query, v.ID, v.CustomerName, v.StoreLocation, v.VisitDate, nonNil(v.ProductsViewed),
		v.PurchaseMade, v.PurchaseAmount, v.Notes, v.UpdatedAt)
	return nilOnNoRows(scanStoreVisit(row))
}

func (r *PgxStoreVisitRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM store_visits WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgxStoreVisitRepository) InsertMany(ctx context.Context, visits []domain.StoreVisit) (int, error) {
	batch := &pgx.Batch{}
	for i := range visits {
		batch.Queue(insertStoreVisitSQL, storeVisitArgs(&visits[i])...)
	}
	return sendInsertBatch(ctx, r.pool, batch)
}

const insertStoreVisitSQL = `
	INSERT INTO store_visits (` + storeVisitColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func storeVisitArgs(v *domain.StoreVisit) []any {
	return []any{v.ID, v.UserID, v.CustomerName, v.StoreLocation, v.VisitDate, nonNil(v.ProductsViewed),
		v.PurchaseMade, v.PurchaseAmount, v.Notes, v.CreatedAt, v.UpdatedAt}
}

// nonNil keeps a nil slice from being encoded as SQL NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanStoreVisit(row pgx.Row) (*domain.StoreVisit, error) {
	var v domain.StoreVisit
	err := row.Scan(&v.ID, &v.UserID, &v.CustomerName, &v.StoreLocation, &v.VisitDate, &v.ProductsViewed,
		&v.PurchaseMade, &v.PurchaseAmount, &v.Notes, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
