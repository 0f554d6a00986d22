package v1

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/sales-service/internal/core/domain"
	"github.com/duynhne/sales-service/middleware"
)

var hundred = decimal.NewFromInt(100)

// DashboardService aggregates the three record collections into one summary.
type DashboardService struct {
	products      domain.ProductRepository
	websiteVisits domain.WebsiteVisitRepository
	storeVisits   domain.StoreVisitRepository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	products domain.ProductRepository,
	websiteVisits domain.WebsiteVisitRepository,
	storeVisits domain.StoreVisitRepository,
) *DashboardService {
	return &DashboardService{
		products:      products,
		websiteVisits: websiteVisits,
		storeVisits:   storeVisits,
	}
}

// Stats computes totals, conversion rate, revenue, products per category and
// website visits per month.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	ctx, span := middleware.StartSpan(ctx, "dashboard.stats", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	products, err := s.products.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	websiteVisits, err := s.websiteVisits.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list website visits: %w", err)
	}
	storeVisits, err := s.storeVisits.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list store visits: %w", err)
	}

	stats := &domain.DashboardStats{
		TotalWebsiteVisits: len(websiteVisits),
		TotalStoreVisits:   len(storeVisits),
		TotalProducts:      len(products),
		ConversionRate:     ConversionRate(len(storeVisits), len(websiteVisits)),
		Revenue:            decimal.Zero,
		ProductsByCategory: productsByCategory(products),
		VisitsByMonth:      visitsByMonth(websiteVisits),
	}
	for _, v := range storeVisits {
		if v.PurchaseMade {
			stats.Revenue = stats.Revenue.Add(v.PurchaseAmount)
		}
	}

	return stats, nil
}

// ConversionRate is storeVisits / websiteVisits * 100 rounded to one decimal,
// or zero when there are no website visits.
func ConversionRate(storeVisits, websiteVisits int) decimal.Decimal {
	if websiteVisits == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(storeVisits)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(websiteVisits))).
		Round(1)
}

func productsByCategory(products []domain.Product) []domain.CategoryCount {
	counts := make(map[string]int)
	for _, p := range products {
		category := p.Category
		if category == "" {
			category = "Uncategorized"
		}
		counts[category]++
	}

	out := make([]domain.CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, domain.CategoryCount{Category: category, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.CategoryCount) int {
		return strings.Compare(a.Category, b.Category)
	})
	return out
}

func visitsByMonth(visits []domain.WebsiteVisit) []domain.MonthlyVisits {
	counts := make(map[string]int)
	for _, v := range visits {
		counts[v.VisitDate.UTC().Format("2006-01")]++
	}

	out := make([]domain.MonthlyVisits, 0, len(counts))
	for month, n := range counts {
		out = append(out, domain.MonthlyVisits{Month: month, Visits: n})
	}
	slices.SortFunc(out, func(a, b domain.MonthlyVisits) int {
		return strings.Compare(a.Month, b.Month)
	})
	return out
}
