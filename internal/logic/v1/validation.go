package v1

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/duynhne/sales-service/internal/core/domain"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes; x/crypto rejects it outright.
	maxPasswordBytes = 72
	maxTextLength    = 1000
	maxMoneyDigits   = 10
	// Counts are stored as Postgres INTEGER.
	maxCount = math.MaxInt32
)

var (
	fieldValidator = validator.New(validator.WithRequiredStructEnabled())
	maxMoney       = decimal.New(1, maxMoneyDigits)
)

// fieldErrors collects failures in the order fields are checked.
type fieldErrors []FieldError

func (f *fieldErrors) add(field, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidateRegister checks a registration payload and returns it normalized.
func ValidateRegister(req domain.RegisterRequest) (domain.RegisterRequest, error) {
	var errs fieldErrors

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if utf8.RuneCountInString(req.Name) < minNameLength {
		errs.add("name", "Name must be at least 2 characters")
	}
	if !isEmail(req.Email) {
		errs.add("email", "Invalid email address")
	}
	switch {
	case utf8.RuneCountInString(req.Password) < minPasswordLength:
		errs.add("password", "Password must be at least 6 characters")
	case len(req.Password) > maxPasswordBytes:
		errs.add("password", "Password must be at most 72 bytes")
	}

	return req, errs.err()
}

// ValidateLogin checks a login payload and returns it normalized.
func ValidateLogin(req domain.LoginRequest) (domain.LoginRequest, error) {
	var errs fieldErrors

	req.Email = strings.TrimSpace(req.Email)

	if !isEmail(req.Email) {
		errs.add("email", "Invalid email address")
	}
	if req.Password == "" {
		errs.add("password", "Password is required")
	}

	return req, errs.err()
}

// ValidateProduct turns a product payload into a Product without id, owner or timestamps.
func ValidateProduct(req domain.ProductRequest) (domain.Product, error) {
	var errs fieldErrors

	p := domain.Product{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		SKU:         strings.TrimSpace(req.SKU),
		Description: strings.TrimSpace(req.Description),
	}

	if p.Name == "" {
		errs.add("name", "Product name is required")
	}
	switch {
	case p.Category == "":
		errs.add("category", "Category is required")
	case !slices.Contains(domain.ProductCategories, p.Category):
		errs.add("category", "Category must be one of: "+strings.Join(domain.ProductCategories, ", "))
	}
	if req.Price == nil {
		errs.add("price", "Price is required")
	} else if msg := checkMoney("Price", *req.Price); msg != "" {
		errs.add("price", msg)
	} else {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			errs.add("stock", "Stock must be a non-negative integer")
		} else if *req.Stock > maxCount {
			errs.add("stock", "Stock is too large")
		} else {
			p.Stock = *req.Stock
		}
	}
	if utf8.RuneCountInString(p.Description) > maxTextLength {
		errs.add("description", "Description must be at most 1000 characters")
	}

	return p, errs.err()
}

// ValidateWebsiteVisit turns a website visit payload into a WebsiteVisit without id, owner or timestamps.
func ValidateWebsiteVisit(req domain.WebsiteVisitRequest) (domain.WebsiteVisit, error) {
	var errs fieldErrors

	v := domain.WebsiteVisit{
		URL:           strings.TrimSpace(req.URL),
		PageViews:     1,
		TrafficSource: strings.TrimSpace(req.TrafficSource),
		Referrer:      strings.TrimSpace(req.Referrer),
		UserAgent:     strings.TrimSpace(req.UserAgent),
		IP:            strings.TrimSpace(req.IP),
		Converted:     req.Converted,
	}

	if !isHTTPURL(v.URL) {
		errs.add("url", "Invalid URL format")
	}
	if date, msg := parseVisitDate(req.VisitDate); msg != "" {
		errs.add("visitDate", msg)
	} else {
		v.VisitDate = date
	}
	if req.Duration != nil {
		if *req.Duration < 0 {
			errs.add("duration", "Duration cannot be negative")
		} else if *req.Duration > maxCount {
			errs.add("duration", "Duration is too large")
		} else {
			v.Duration = *req.Duration
		}
	}
	if req.PageViews != nil {
		if *req.PageViews < 0 {
			errs.add("pageViews", "Page views cannot be negative")
		} else if *req.PageViews > maxCount {
			errs.add("pageViews", "Page views is too large")
		} else {
			v.PageViews = *req.PageViews
		}
	}
	if v.TrafficSource != "" && !slices.Contains(domain.TrafficSources, v.TrafficSource) {
		errs.add("trafficSource", "Traffic source must be one of: "+strings.Join(domain.TrafficSources, ", "))
	}
	if v.Referrer != "" && !isHTTPURL(v.Referrer) {
		errs.add("referrer", "Invalid URL format")
	}
	if v.IP != "" && fieldValidator.Var(v.IP, "ip") != nil {
		errs.add("ip", "Invalid IP address")
	}

	return v, errs.err()
}

// ValidateStoreVisit turns a store visit payload into a StoreVisit without id, owner or timestamps.
func ValidateStoreVisit(req domain.StoreVisitRequest) (domain.StoreVisit, error) {
	var errs fieldErrors

	v := domain.StoreVisit{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		StoreLocation:  strings.TrimSpace(req.StoreLocation),
		ProductsViewed: make([]string, 0, len(req.ProductsViewed)),
		PurchaseMade:   req.PurchaseMade,
		Notes:          strings.TrimSpace(req.Notes),
	}

	if v.CustomerName == "" {
		errs.add("customerName", "Customer name is required")
	}
	if v.StoreLocation == "" {
		errs.add("storeLocation", "Store location is required")
	}
	if date, msg := parseVisitDate(req.VisitDate); msg != "" {
		errs.add("visitDate", msg)
	} else {
		v.VisitDate = date
	}
	for _, p := range req.ProductsViewed {
		if p = strings.TrimSpace(p); p != "" {
			v.ProductsViewed = append(v.ProductsViewed, p)
		}
	}
	if req.PurchaseAmount != nil {
		if msg := checkMoney("Purchase amount", *req.PurchaseAmount); msg != "" {
			errs.add("purchaseAmount", msg)
		} else {
			v.PurchaseAmount = *req.PurchaseAmount
		}
	}
	if utf8.RuneCountInString(v.Notes) > maxTextLength {
		errs.add("notes", "Notes must be at most 1000 characters")
	}

	return v, errs.err()
}

func isEmail(s string) bool {
	return s != "" && fieldValidator.Var(s, "email") == nil
}

func isHTTPURL(s string) bool {
	return s != "" && fieldValidator.Var(s, "http_url") == nil
}

// checkMoney returns a message when d is negative, too large or finer than a cent.
func checkMoney(label string, d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return label + " cannot be negative"
	case d.GreaterThanOrEqual(maxMoney):
		return label + " is too large"
	case !d.Equal(d.Round(2)):
		return label + " must have at most 2 decimal places"
	}
	return ""
}

// parseVisitDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func parseVisitDate(s string) (time.Time, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, "Visit date is required"
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), ""
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), ""
	}
	return time.Time{}, "Visit date must be an RFC 3339 timestamp or YYYY-MM-DD"
}
