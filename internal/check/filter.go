package check

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Filter narrows a list of checks. All fields are optional and combined with AND.
// Owner scoping is applied by the store and is not part of the filter.
type Filter struct {
	// CreatedFrom is the first day included, at local midnight.
	CreatedFrom *time.Time
	// CreatedTo is the last day included; the whole day counts.
	CreatedTo   *time.Time
	MinTotal    *decimal.Decimal
	MaxTotal    *decimal.Decimal
	PaymentType *PaymentType
}

// CreatedBefore returns the exclusive upper bound derived from CreatedTo.
func (f Filter) CreatedBefore() *time.Time {
	if f.CreatedTo == nil {
		return nil
	}
	end := f.CreatedTo.AddDate(0, 0, 1)
	return &end
}

// Validate rejects negative or inverted bounds and unknown payment types.
func (f Filter) Validate() error {
	if f.MinTotal != nil && f.MinTotal.IsNegative() {
		return invalidFilter("min_total", "min_total cannot be negative")
	}
	if f.MaxTotal != nil && f.MaxTotal.IsNegative() {
		return invalidFilter("max_total", "max_total cannot be negative")
	}
	if f.MinTotal != nil && f.MaxTotal != nil && f.MinTotal.GreaterThan(*f.MaxTotal) {
		return invalidFilter("min_total", "min_total cannot exceed max_total")
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return invalidFilter("created_from", "created_from cannot be after created_to")
	}
	if f.PaymentType != nil && !f.PaymentType.Valid() {
		return invalidFilter("payment_type", "payment_type must be cash or card")
	}
	return nil
}

// Matches reports whether c satisfies every predicate of f.
func (f Filter) Matches(c Check) bool {
	if f.CreatedFrom != nil && c.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if before := f.CreatedBefore(); before != nil && !c.CreatedAt.Before(*before) {
		return false
	}
	if f.MinTotal != nil && c.Total.LessThan(*f.MinTotal) {
		return false
	}
	if f.MaxTotal != nil && c.Total.GreaterThan(*f.MaxTotal) {
		return false
	}
	if f.PaymentType != nil && c.PaymentType != *f.PaymentType {
		return false
	}
	return true
}

// ParseFilter reads filter query parameters. Dates are YYYY-MM-DD interpreted in loc.
func ParseFilter(values url.Values, loc *time.Location) (Filter, error) {
	if loc == nil {
		loc = time.UTC
	}
	var f Filter
	if raw := strings.TrimSpace(values.Get("created_from")); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return Filter{}, invalidFilter("created_from", "created_from must be a date in YYYY-MM-DD format")
		}
		f.CreatedFrom = &t
	}
	if raw := strings.TrimSpace(values.Get("created_to")); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return Filter{}, invalidFilter("created_to", "created_to must be a date in YYYY-MM-DD format")
		}
		f.CreatedTo = &t
	}
	if raw := strings.TrimSpace(values.Get("min_total")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Filter{}, invalidFilter("min_total", "min_total must be a number")
		}
		f.MinTotal = &d
	}
	if raw := strings.TrimSpace(values.Get("max_total")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Filter{}, invalidFilter("max_total", "max_total must be a number")
		}
		f.MaxTotal = &d
	}
	if raw := strings.TrimSpace(values.Get("payment_type")); raw != "" {
		p := PaymentType(strings.ToLower(raw))
		f.PaymentType = &p
	}
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}
