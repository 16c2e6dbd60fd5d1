package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	// CurrencyPlaces is the number of fractional digits kept for money values.
	CurrencyPlaces int32 = 2
	// QuantityPlaces is the number of fractional digits accepted for quantities.
	QuantityPlaces int32 = 3
)

var (
	// MaxMoney is the largest amount a NUMERIC(14,2) column holds.
	MaxMoney = decimal.RequireFromString("999999999999.99")
	// MaxQuantity is the largest quantity a NUMERIC(12,3) column holds.
	MaxQuantity = decimal.RequireFromString("999999999.999")
)

// ErrInsufficientPayment is returned when the tendered amount does not cover the total.
var ErrInsufficientPayment = errors.New("pricing: payment amount is less than the total")

// Item describes a line item used for pricing calculation.
type Item struct {
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
}

// Summary aggregates computed pricing components.
type Summary struct {
	Lines   []decimal.Decimal
	Total   decimal.Decimal
	Payment decimal.Decimal
	Rest    decimal.Decimal
}

// LineTotal returns unitPrice × quantity rounded to currency precision.
func LineTotal(unitPrice, quantity decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(quantity).Round(CurrencyPlaces)
}

// CheckTotal sums the line totals of items.
func CheckTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it.UnitPrice, it.Quantity))
	}
	return total
}

// Change computes the rest due to the customer.
func Change(paymentAmount, total decimal.Decimal) (decimal.Decimal, error) {
	if paymentAmount.LessThan(total) {
		return decimal.Zero, ErrInsufficientPayment
	}
	return paymentAmount.Sub(total), nil
}

// Compute calculates per-line totals, the check total and the change for payment.
func Compute(items []Item, payment decimal.Decimal) (Summary, error) {
	lines := make([]decimal.Decimal, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		line := LineTotal(it.UnitPrice, it.Quantity)
		lines = append(lines, line)
		total = total.Add(line)
	}
	rest, err := Change(payment, total)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Lines:   lines,
		Total:   total,
		Payment: payment,
		Rest:    rest,
	}, nil
}

// FitsPlaces reports whether d has at most places fractional digits.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
