package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/sales-service/internal/core/domain"
)

var _ domain.ProductRepository = (*PgxProductRepository)(nil)

const productColumns = `id, user_id, name, category, price, stock, sku, description, created_at, updated_at`

// PgxProductRepository implements domain.ProductRepository using pgxpool.
type PgxProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PgxProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{pool: pool}
}

// List returns all products, newest first.
func (r *PgxProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetByID returns (nil, nil) when the product does not exist.
func (r *PgxProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return nilOnNoRows(scanProduct(row))
}

// Create inserts a product.
func (r *PgxProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.pool.Exec(ctx, insertProductSQL, productArgs(p)...)
	return mapPgError(err)
}

// Update overwrites the mutable columns and returns the stored row.
func (r *PgxProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4, stock = $5, sku = $6, description = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query, p.ID, p.Name, p.Category, p.Price, p.Stock, p.SKU, p.Description, p.UpdatedAt)
	updated, err := nilOnNoRows(scanProduct(row))
	return updated, mapPgError(err)
}

// Delete returns false when no row was removed.
func (r *PgxProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// InsertMany inserts all products in a single batch round trip.
func (r *PgxProductRepository) InsertMany(ctx context.Context, products []domain.Product) (int, error) {
	batch := &pgx.Batch{}
	for i := range products {
		batch.Queue(insertProductSQL, productArgs(&products[i])...)
	}
	return sendInsertBatch(ctx, r.pool, batch)
}

const insertProductSQL = `
	INSERT INTO products (` + productColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func productArgs(p *domain.Product) []any {
	return []any{p.ID, p.UserID, p.Name, p.Category, p.Price, p.Stock, p.SKU, p.Description, p.CreatedAt, p.UpdatedAt}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.SKU, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// nilOnNoRows converts pgx.ErrNoRows into the (nil, nil) "not found" convention.
func nilOnNoRows[T any](v *T, err error) (*T, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// sendInsertBatch executes an insert-only batch and counts the stored rows.
// The batch runs as one implicit transaction, so an error stores nothing.
func sendInsertBatch(ctx context.Context, pool *pgxpool.Pool, batch *pgx.Batch) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return 0, mapPgError(err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
