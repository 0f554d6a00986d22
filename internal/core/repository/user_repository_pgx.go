package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/sales-service/internal/core/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Ensure PgxUserRepository satisfies domain.UserRepository at compile time.
var _ domain.UserRepository = (*PgxUserRepository)(nil)

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

// GetByID returns the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id string) (*domain.UserRow, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// ExistsByEmail returns true when a user with the given email already exists.
func (r *PgxUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// Create inserts a new user. The unique email index turns a lost
// registration race into domain.ErrDuplicate.
func (r *PgxUserRepository) Create(ctx context.Context, user *domain.UserRow) error {
	query := `INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	return mapPgError(err)
}

func scanUserRow(row pgx.Row) (*domain.UserRow, error) {
	var u domain.UserRow
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicate
	}
	return err
}
