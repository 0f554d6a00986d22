package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Traffic sources accepted for website visits.
var TrafficSources = []string{
	"Organic Search",
	"Direct",
	"Social Media",
	"Email",
	"Referral",
	"Paid Advertising",
}

// WebsiteVisit is one recorded visit to a tracked page.
type WebsiteVisit struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId,omitempty"`
	URL           string    `json:"url"`
	VisitDate     time.Time `json:"visitDate"`
	Duration      int       `json:"duration"`
	PageViews     int       `json:"pageViews"`
	TrafficSource string    `json:"trafficSource,omitempty"`
	Referrer      string    `json:"referrer,omitempty"`
	UserAgent     string    `json:"userAgent,omitempty"`
	IP            string    `json:"ip,omitempty"`
	Converted     bool      `json:"converted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// WebsiteVisitRequest is the body of POST /website-visits and PUT /website-visits/{id}.
type WebsiteVisitRequest struct {
	URL           string `json:"url"`
	VisitDate     string `json:"visitDate"`
	Duration      *int   `json:"duration"`
	PageViews     *int   `json:"pageViews"`
	TrafficSource string `json:"trafficSource"`
	Referrer      string `json:"referrer"`
	UserAgent     string `json:"userAgent"`
	IP            string `json:"ip"`
	Converted     bool   `json:"converted"`
}

// WebsiteVisitRepository defines the data-access contract for website visits.
type WebsiteVisitRepository interface {
	// List returns all visits ordered by visit date, most recent first.
	List(ctx context.Context) ([]WebsiteVisit, error)
	GetByID(ctx context.Context, id string) (*WebsiteVisit, error)
	Create(ctx context.Context, v *WebsiteVisit) error
	Update(ctx context.Context, v *WebsiteVisit) (*WebsiteVisit, error)
	Delete(ctx context.Context, id string) (bool, error)
	InsertMany(ctx context.Context, visits []WebsiteVisit) (int, error)
}

// StoreVisit is one recorded customer visit to a physical store.
type StoreVisit struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId,omitempty"`
	CustomerName   string          `json:"customerName"`
	StoreLocation  string          `json:"storeLocation"`
	VisitDate      time.Time       `json:"visitDate"`
	ProductsViewed []string        `json:"productsViewed"`
	PurchaseMade   bool            `json:"purchaseMade"`
	PurchaseAmount decimal.Decimal `json:"purchaseAmount"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// StoreVisitRequest is the body of POST /store-visits and PUT /store-visits/{id}.
type StoreVisitRequest struct {
	CustomerName   string           `json:"customerName"`
	StoreLocation  string           `json:"storeLocation"`
	VisitDate      string           `json:"visitDate"`
	ProductsViewed []string         `json:"productsViewed"`
	PurchaseMade   bool             `json:"purchaseMade"`
	PurchaseAmount *decimal.Decimal `json:"purchaseAmount"`
	Notes          string           `json:"notes"`
}

// StoreVisitRepository defines the data-access contract for store visits.
type StoreVisitRepository interface {
	// List returns all visits ordered by visit date, most recent first.
	List(ctx context.Context) ([]StoreVisit, error)
	GetByID(ctx context.Context, id string) (*StoreVisit, error)
	Create(ctx context.Context, v *StoreVisit) error
	Update(ctx context.Context, v *StoreVisit) (*StoreVisit, error)
	Delete(ctx context.Context, id string) (bool, error)
	InsertMany(ctx context.Context, visits []StoreVisit) (int, error)
}
