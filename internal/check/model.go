package check

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType tags how a check was paid.
type PaymentType string

const (
	PaymentCash PaymentType = "cash"
	PaymentCard PaymentType = "card"
)

// Valid reports whether p is one of the supported payment types.
func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentCard
}

// LineItem is one product row of a check. Total is frozen at creation.
type LineItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Total    decimal.Decimal
}

// Check is a persisted receipt header together with its line items.
type Check struct {
	ID            int64
	UserID        int64
	OwnerName     string
	CreatedAt     time.Time
	Total         decimal.Decimal
	PaymentType   PaymentType
	PaymentAmount decimal.Decimal
	Rest          decimal.Decimal
	Products      []LineItem
}

// LineItemInput is a requested line before totals are computed.
type LineItemInput struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Payment describes the tendered payment.
type Payment struct {
	Type   PaymentType     `json:"type" validate:"required,oneof=cash card"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateInput is the raw request to assemble a check.
type CreateInput struct {
	Products []LineItemInput `json:"products" validate:"required,min=1,dive"`
	Payment  Payment         `json:"payment"`
}

// NewCheck is a fully computed check ready to be persisted atomically.
type NewCheck struct {
	UserID        int64
	Total         decimal.Decimal
	Rest          decimal.Decimal
	PaymentType   PaymentType
	PaymentAmount decimal.Decimal
	Products      []LineItem
}
