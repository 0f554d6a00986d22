package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/duynhne/sales-service/internal/core/domain"
)

var (
	_ domain.UserRepository         = (*MongoUserRepository)(nil)
	_ domain.ProductRepository      = (*MongoProductRepository)(nil)
	_ domain.WebsiteVisitRepository = (*MongoWebsiteVisitRepository)(nil)
	_ domain.StoreVisitRepository   = (*MongoStoreVisitRepository)(nil)
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

// MongoUserRepository implements domain.UserRepository on a MongoDB collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a MongoUserRepository on db.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.UserRow, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.UserRow) error {
	_, err := r.coll.InsertOne(ctx, userDocument{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	return mapMongoError(err)
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (*domain.UserRow, error) {
	c := mongoCollection[domain.UserRow, userDocument]{
		coll: r.coll,
		fromDoc: func(d *userDocument) domain.UserRow {
			return domain.UserRow{ID: d.ID, Name: d.Name, Email: d.Email, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt}
		},
	}
	return c.get(ctx, filter)
}

type productDocument struct {
	ID          string          `bson:"_id"`
	UserID      string          `bson:"user_id"`
	Name        string          `bson:"name"`
	Category    string          `bson:"category"`
	Price       bson.Decimal128 `bson:"price"`
	Stock       int             `bson:"stock"`
	SKU         string          `bson:"sku,omitempty"`
	Description string          `bson:"description,omitempty"`
	CreatedAt   time.Time       `bson:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at"`
}

// MongoProductRepository implements domain.ProductRepository on a MongoDB collection.
type MongoProductRepository struct {
	c mongoCollection[domain.Product, productDocument]
}

// NewMongoProductRepository creates a MongoProductRepository on db.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{c: mongoCollection[domain.Product, productDocument]{
		coll: db.Collection(productsCollection),
		sort: bson.D{{Key: "created_at", Value: -1}},
		toDoc: func(p *domain.Product) productDocument {
			return productDocument{
				ID: p.ID, UserID: p.UserID, Name: p.Name, Category: p.Category,
				Price: toDecimal128(p.Price), Stock: p.Stock, SKU: p.SKU, Description: p.Description,
				CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
			}
		},
		fromDoc: func(d *productDocument) domain.Product {
			return domain.Product{
				ID: d.ID, UserID: d.UserID, Name: d.Name, Category: d.Category,
				Price: fromDecimal128(d.Price), Stock: d.Stock, SKU: d.SKU, Description: d.Description,
				CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
			}
		},
	}}
}

func (r *MongoProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.c.list(ctx)
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.c.get(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.c.create(ctx, p)
}

func (r *MongoProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	return r.c.update(ctx, p.ID, bson.D{
		{Key: "name", Value: p.Name},
		{Key: "category", Value: p.Category},
		{Key: "price", Value: toDecimal128(p.Price)},
		{Key: "stock", Value: p.Stock},
		{Key: "sku", Value: p.SKU},
		{Key: "description", Value: p.Description},
		{Key: "updated_at", Value: p.UpdatedAt},
	})
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.c.delete(ctx, id)
}

func (r *MongoProductRepository) InsertMany(ctx context.Context, products []domain.Product) (int, error) {
	return r.c.insertMany(ctx, products)
}

type websiteVisitDocument struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	URL           string    `bson:"url"`
	VisitDate     time.Time `bson:"visit_date"`
	Duration      int       `bson:"duration"`
	PageViews     int       `bson:"page_views"`
	TrafficSource string    `bson:"traffic_source,omitempty"`
	Referrer      string    `bson:"referrer,omitempty"`
	UserAgent     string    `bson:"user_agent,omitempty"`
	IP            string    `bson:"ip,omitempty"`
	Converted     bool      `bson:"converted"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// MongoWebsiteVisitRepository implements domain.WebsiteVisitRepository on a MongoDB collection.
type MongoWebsiteVisitRepository struct {
	c mongoCollection[domain.WebsiteVisit, websiteVisitDocument]
}

// NewMongoWebsiteVisitRepository creates a MongoWebsiteVisitRepository on db.
func NewMongoWebsiteVisitRepository(db *mongo.Database) *MongoWebsiteVisitRepository {
	return &MongoWebsiteVisitRepository{c: mongoCollection[domain.WebsiteVisit, websiteVisitDocument]{
		coll: db.Collection(websiteVisitsCollection),
		sort: bson.D{{Key: "visit_date", Value: -1}, {Key: "created_at", Value: -1}},
		toDoc: func(v *domain.WebsiteVisit) websiteVisitDocument {
			return websiteVisitDocument(*v)
		},
		fromDoc: func(d *websiteVisitDocument) domain.WebsiteVisit {
			return domain.WebsiteVisit(*d)
		},
	}}
}

func (r *MongoWebsiteVisitRepository) List(ctx context.Context) ([]domain.WebsiteVisit, error) {
	return r.c.list(ctx)
}

func (r *MongoWebsiteVisitRepository) GetByID(ctx context.Context, id string) (*domain.WebsiteVisit, error) {
	return r.c.get(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoWebsiteVisitRepository) Create(ctx context.Context, v *domain.WebsiteVisit) error {
	return r.c.create(ctx, v)
}

func (r *MongoWebsiteVisitRepository) Update(ctx context.Context, v *domain.WebsiteVisit) (*domain.WebsiteVisit, error) {
	return r.c.update(ctx, v.ID, bson.D{
		{Key: "url", Value: v.URL},
		{Key: "visit_date", Value: v.VisitDate},
		{Key: "duration", Value: v.Duration},
		{Key: "page_views", Value: v.PageViews},
		{Key: "traffic_source", Value: v.TrafficSource},
		{Key: "referrer", Value: v.Referrer},
		{Key: "user_agent", Value: v.UserAgent},
		{Key: "ip", Value: v.IP},
		{Key: "converted", Value: v.Converted},
		{Key: "updated_at", Value: v.UpdatedAt},
	})
}

func (r *MongoWebsiteVisitRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.c.delete(ctx, id)
}

func (r *MongoWebsiteVisitRepository) InsertMany(ctx context.Context, visits []domain.WebsiteVisit) (int, error) {
	return r.c.insertMany(ctx, visits)
}

type storeVisitDocument struct {
	ID             string          `bson:"_id"`
	UserID         string          `bson:"user_id"`
	CustomerName   string          `bson:"customer_name"`
	StoreLocation  string          `bson:"store_location"`
	VisitDate      time.Time       `bson:"visit_date"`
	ProductsViewed []string        `bson:"products_viewed"`
	PurchaseMade   bool            `bson:"purchase_made"`
	PurchaseAmount bson.Decimal128 `bson:"purchase_amount"`
	Notes          string          `bson:"notes,omitempty"`
	CreatedAt      time.Time       `bson:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at"`
}

// MongoStoreVisitRepository implements domain.StoreVisitRepository on a MongoDB collection.
type MongoStoreVisitRepository struct {
	c mongoCollection[domain.StoreVisit, storeVisitDocument]
}

// NewMongoStoreVisitRepository creates a MongoStoreVisitRepository on db.
func NewMongoStoreVisitRepository(db *mongo.Database) *MongoStoreVisitRepository {
	return &MongoStoreVisitRepository{c: mongoCollection[domain.StoreVisit, storeVisitDocument]{
		coll: db.Collection(storeVisitsCollection),
		sort: bson.D{{Key: "visit_date", Value: -1}, {Key: "created_at", Value: -1}},
		toDoc: func(v *domain.StoreVisit) storeVisitDocument {
			viewed := v.ProductsViewed
			if viewed == nil {
				viewed = []string{}
			}
			return storeVisitDocument{
				ID: v.ID, UserID: v.UserID, CustomerName: v.CustomerName, StoreLocation: v.StoreLocation,
				VisitDate: v.VisitDate, ProductsViewed: viewed, PurchaseMade: v.PurchaseMade,
				PurchaseAmount: toDecimal128(v.PurchaseAmount), Notes: v.Notes,
				CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt,
			}
		},
		fromDoc: func(d *storeVisitDocument) domain.StoreVisit {
			return domain.StoreVisit{
				ID: d.ID, UserID: d.UserID, CustomerName: d.CustomerName, StoreLocation: d.StoreLocation,
				VisitDate: d.VisitDate, ProductsViewed: d.ProductsViewed, PurchaseMade: d.PurchaseMade,
				PurchaseAmount: fromDecimal128(d.PurchaseAmount), Notes: d.Notes,
				CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
			}
		},
	}}
}

func (r *MongoStoreVisitRepository) List(ctx context.Context) ([]domain.StoreVisit, error) {
	return r.c.list(ctx)
}

func (r *MongoStoreVisitRepository) GetByID(ctx context.Context, id string) (*domain.StoreVisit, error) {
	return r.c.get(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoStoreVisitRepository) Create(ctx context.Context, v *domain.StoreVisit) error {
	return r.c.create(ctx, v)
}

func (r *MongoStoreVisitRepository) Update(ctx context.Context, v *domain.StoreVisit) (*domain.StoreVisit, error) {
	viewed := v.ProductsViewed
	if viewed == nil {
		viewed = []string{}
	}
	return r.c.update(ctx, v.ID, bson.D{
		{Key: "customer_name", Value: v.CustomerName},
		{Key: "store_location", Value: v.StoreLocation},
		{Key: "visit_date", Value: v.VisitDate},
		{Key: "products_viewed", Value: viewed},
		{Key: "purchase_made", Value: v.PurchaseMade},
		{Key: "purchase_amount", Value: toDecimal128(v.PurchaseAmount)},
		{Key: "notes", Value: v.Notes},
		{Key: "updated_at", Value: v.UpdatedAt},
	})
}

func (r *MongoStoreVisitRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.c.delete(ctx, id)
}

func (r *MongoStoreVisitRepository) InsertMany(ctx context.Context, visits []domain.StoreVisit) (int, error) {
	return r.c.insertMany(ctx, visits)
}

// toDecimal128 cannot fail for values accepted by the validator (two decimal places, bounded).
func toDecimal128(d decimal.Decimal) bson.Decimal128 {
	v, err := bson.ParseDecimal128(d.String())
	if err != nil {
		return bson.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v bson.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
