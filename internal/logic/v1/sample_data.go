package v1

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/sales-service/internal/core/domain"
	"github.com/duynhne/sales-service/middleware"
)

const (
	sampleWebsiteVisits = 50
	sampleStoreVisits   = 30
	sampleProducts      = 20
	sampleWindowDays    = 30
)

var (
	sampleCities    = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"}
	sampleReferrers = []string{"https://google.com", "https://facebook.com", ""}
	sampleCustomers = []string{"Alice Nguyen", "Bob Tran", "Carol Smith", "David Le", "Emma Pham", "Frank Hoang"}
)

const sampleUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// SampleDataService fills the stores with demo records owned by the caller.
type SampleDataService struct {
	products      domain.ProductRepository
	websiteVisits domain.WebsiteVisitRepository
	storeVisits   domain.StoreVisitRepository
	now           func() time.Time
}

// NewSampleDataService creates a SampleDataService.
func NewSampleDataService(
	products domain.ProductRepository,
	websiteVisits domain.WebsiteVisitRepository,
	storeVisits domain.StoreVisitRepository,
) *SampleDataService {
	return &SampleDataService{
		products:      products,
		websiteVisits: websiteVisits,
		storeVisits:   storeVisits,
		now:           time.Now,
	}
}

// Generate inserts 50 website visits, 30 store visits and 20 products dated
// within the last 30 days. Each collection is written with one bulk insert.
// Products go first since only their unique names can conflict; the batches
// are not one transaction, so a later failure leaves earlier batches stored.
func (s *SampleDataService) Generate(ctx context.Context, owner domain.Identity) (domain.GeneratedCounts, error) {
	ctx, span := middleware.StartSpan(ctx, "sample_data.generate", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", owner.UserID),
	))
	defer span.End()

	now := s.now().UTC()
	var counts domain.GeneratedCounts
	var err error

	counts.Products, err = s.products.InsertMany(ctx, s.productBatch(owner.UserID, now))
	if err != nil {
		span.RecordError(err)
		return counts, fmt.Errorf("insert sample products: %w", err)
	}

	counts.WebsiteVisits, err = s.websiteVisits.InsertMany(ctx, s.websiteVisitBatch(owner.UserID, now))
	if err != nil {
		span.RecordError(err)
		return counts, fmt.Errorf("insert sample website visits: %w", err)
	}

	counts.StoreVisits, err = s.storeVisits.InsertMany(ctx, s.storeVisitBatch(owner.UserID, now))
	if err != nil {
		span.RecordError(err)
		return counts, fmt.Errorf("insert sample store visits: %w", err)
	}

	span.SetAttributes(
		attribute.Int("generated.website_visits", counts.WebsiteVisits),
		attribute.Int("generated.store_visits", counts.StoreVisits),
		attribute.Int("generated.products", counts.Products),
	)
	return counts, nil
}

func (s *SampleDataService) websiteVisitBatch(userID string, now time.Time) []domain.WebsiteVisit {
	visits := make([]domain.WebsiteVisit, sampleWebsiteVisits)
	for i := range visits {
		visits[i] = domain.WebsiteVisit{
			ID:            uuid.NewString(),
			UserID:        userID,
			URL:           fmt.Sprintf("https://example.com/page%d", i+1),
			VisitDate:     s.daysAgo(now),
			Duration:      rand.IntN(300) + 30,
			PageViews:     rand.IntN(10) + 1,
			TrafficSource: domain.TrafficSources[rand.IntN(len(domain.TrafficSources))],
			Referrer:      sampleReferrers[i%len(sampleReferrers)],
			UserAgent:     sampleUserAgent,
			IP:            fmt.Sprintf("192.168.1.%d", rand.IntN(255)),
			Converted:     rand.IntN(5) == 0,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}
	return visits
}

func (s *SampleDataService) storeVisitBatch(userID string, now time.Time) []domain.StoreVisit {
	visits := make([]domain.StoreVisit, sampleStoreVisits)
	for i := range visits {
		viewed := make([]string, rand.IntN(5)+1)
		for j := range viewed {
			viewed[j] = fmt.Sprintf("PROD-%d", rand.IntN(100))
		}

		purchased := i%3 != 0
		amount := decimal.Zero
		if purchased {
			amount = decimal.New(rand.Int64N(50000), -2)
		}

		var notes string
		if i%4 == 0 {
			notes = "Interested in premium products"
		}

		visits[i] = domain.StoreVisit{
			ID:             uuid.NewString(),
			UserID:         userID,
			CustomerName:   sampleCustomers[rand.IntN(len(sampleCustomers))],
			StoreLocation:  fmt.Sprintf("%s, Store #%d", sampleCities[i%len(sampleCities)], i+1),
			VisitDate:      s.daysAgo(now),
			ProductsViewed: viewed,
			PurchaseMade:   purchased,
			PurchaseAmount: amount,
			Notes:          notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	return visits
}

func (s *SampleDataService) productBatch(userID string, now time.Time) []domain.Product {
	// The suffix keeps repeated runs clear of the unique product name.
	suffix := strings.ToUpper(uuid.NewString()[:6])

	products := make([]domain.Product, sampleProducts)
	for i := range products {
		letter := string(rune('A' + i))
		created := s.daysAgo(now)
		products[i] = domain.Product{
			ID:          uuid.NewString(),
			UserID:      userID,
			Name:        fmt.Sprintf("Product %s-%s", letter, suffix),
			Category:    domain.ProductCategories[i%len(domain.ProductCategories)],
			Price:       decimal.New(rand.Int64N(20000)+1000, -2),
			Stock:       rand.IntN(100),
			SKU:         fmt.Sprintf("SKU-%d", rand.IntN(10000)),
			Description: fmt.Sprintf("High-quality product %s for everyday use", letter),
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}
	return products
}

func (s *SampleDataService) daysAgo(now time.Time) time.Time {
	return now.AddDate(0, 0, -rand.IntN(sampleWindowDays))
}
