package domain

import "github.com/shopspring/decimal"

// GeneratedCounts reports how many records one sample-data run inserted.
type GeneratedCounts struct {
	WebsiteVisits int `json:"websiteVisits"`
	StoreVisits   int `json:"storeVisits"`
	Products      int `json:"products"`
}

// CategoryCount is the number of products in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// MonthlyVisits is the number of website visits in one calendar month (YYYY-MM).
type MonthlyVisits struct {
	Month  string `json:"month"`
	Visits int    `json:"visits"`
}

// DashboardStats is the summary shown on the dashboard landing page.
type DashboardStats struct {
	TotalWebsiteVisits int             `json:"totalWebsiteVisits"`
	TotalStoreVisits   int             `json:"totalStoreVisits"`
	TotalProducts      int             `json:"totalProducts"`
	ConversionRate     decimal.Decimal `json:"conversionRate"`
	Revenue            decimal.Decimal `json:"revenue"`
	ProductsByCategory []CategoryCount `json:"productsByCategory"`
	VisitsByMonth      []MonthlyVisits `json:"visitsByMonth"`
}
