// Package repository implements the domain repository contracts on
// PostgreSQL (pgx), MongoDB and process memory.
package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/duynhne/sales-service/internal/core/domain"
)

// Repositories bundles one implementation of every repository contract.
type Repositories struct {
	Users         domain.UserRepository
	Products      domain.ProductRepository
	WebsiteVisits domain.WebsiteVisitRepository
	StoreVisits   domain.StoreVisitRepository
}

// NewPgxRepositories returns PostgreSQL-backed repositories sharing pool.
func NewPgxRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool),
		Products:      NewProductRepository(pool),
		WebsiteVisits: NewWebsiteVisitRepository(pool),
		StoreVisits:   NewStoreVisitRepository(pool),
	}
}

// NewMongoRepositories returns MongoDB-backed repositories on db.
// Call EnsureMongoIndexes first so uniqueness is enforced by the server.
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:         NewMongoUserRepository(db),
		Products:      NewMongoProductRepository(db),
		WebsiteVisits: NewMongoWebsiteVisitRepository(db),
		StoreVisits:   NewMongoStoreVisitRepository(db),
	}
}

// NewMemoryRepositories returns empty in-process repositories.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Users:         NewMemoryUserRepository(),
		Products:      NewMemoryProductRepository(),
		WebsiteVisits: NewMemoryWebsiteVisitRepository(),
		StoreVisits:   NewMemoryStoreVisitRepository(),
	}
}
