package check

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/receipthub/backend-receipt/internal/common"
	"github.com/receipthub/backend-receipt/internal/obs"
	"github.com/receipthub/backend-receipt/internal/pricing"
)

// MaxNameLength bounds the product name in runes.
const MaxNameLength = 255

// Service assembles, stores and fetches checks.
type Service struct {
	Store  Store
	Logger zerolog.Logger

	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service with a silent logger.
func NewService(store Store) *Service {
	return &Service{Store: store, Logger: zerolog.Nop(), DefaultLimit: DefaultLimit, MaxLimit: MaxLimit}
}

// ListResult is a page of checks plus the number of checks matching the filter.
type ListResult struct {
	Checks []Check
	Total  int64
	Page   Page
}

// Create validates the request, computes line totals, the check total and the
// change, then persists everything atomically.
func (s *Service) Create(ctx context.Context, ownerID int64, in CreateInput) (Check, error) {
	paymentType := "unknown"
	if in.Payment.Type.Valid() {
		paymentType = string(in.Payment.Type)
	}
	if ownerID <= 0 {
		return Check{}, common.NewAppError("UNAUTHORIZED", "authentication required", http.StatusUnauthorized, nil)
	}
	if err := validatePayment(in.Payment); err != nil {
		obs.ObserveCheckCreated(paymentType, "invalid")
		return Check{}, err
	}
	if err := validateItems(in.Products); err != nil {
		obs.ObserveCheckCreated(paymentType, "invalid")
		return Check{}, err
	}

	priced := make([]pricing.Item, len(in.Products))
	for i, p := range in.Products {
		priced[i] = pricing.Item{UnitPrice: p.Price, Quantity: p.Quantity}
	}
	if err := checkTotals(priced); err != nil {
		obs.ObserveCheckCreated(paymentType, "invalid")
		return Check{}, err
	}
	summary, err := pricing.Compute(priced, in.Payment.Amount)
	if err != nil {
		if errors.Is(err, pricing.ErrInsufficientPayment) {
			obs.ObserveCheckCreated(paymentType, "insufficient_payment")
			total := pricing.CheckTotal(priced)
			return Check{}, insufficientPayment(total.StringFixed(pricing.CurrencyPlaces), in.Payment.Amount.StringFixed(pricing.CurrencyPlaces))
		}
		return Check{}, err
	}

	lines := make([]LineItem, len(in.Products))
	for i, p := range in.Products {
		lines[i] = LineItem{
			Name:     strings.TrimSpace(p.Name),
			Price:    p.Price,
			Quantity: p.Quantity,
			Total:    summary.Lines[i],
		}
	}

	created, err := s.Store.Create(ctx, NewCheck{
		UserID:        ownerID,
		Total:         summary.Total,
		Rest:          summary.Rest,
		PaymentType:   in.Payment.Type,
		PaymentAmount: summary.Payment,
		Products:      lines,
	})
	if err != nil {
		obs.ObserveCheckCreated(paymentType, "error")
		s.Logger.Error().Err(err).Int64("user_id", ownerID).Msg("persist check")
		return Check{}, persistenceFailure("failed to persist check", err)
	}

	obs.ObserveCheckCreated(paymentType, "success")
	s.Logger.Info().
		Int64("check_id", created.ID).
		Int64("user_id", ownerID).
		Str("payment_type", paymentType).
		Str("total", created.Total.StringFixed(pricing.CurrencyPlaces)).
		Int("items", len(created.Products)).
		Msg("check created")
	return created, nil
}

// Get returns a check owned by ownerID.
func (s *Service) Get(ctx context.Context, checkID, ownerID int64) (Check, error) {
	if checkID <= 0 {
		return Check{}, notFound()
	}
	c, err := s.Store.GetByID(ctx, checkID, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Check{}, notFound()
		}
		s.Logger.Error().Err(err).Int64("check_id", checkID).Msg("load check")
		return Check{}, persistenceFailure("failed to load check", err)
	}
	return c, nil
}

// List returns the owner's checks matching f, newest first.
func (s *Service) List(ctx context.Context, ownerID int64, f Filter, p Page) (ListResult, error) {
	if err := f.Validate(); err != nil {
		return ListResult{}, err
	}
	p = p.Normalize(s.DefaultLimit, s.MaxLimit)

	total, err := s.Store.Count(ctx, ownerID, f)
	if err != nil {
		s.Logger.Error().Err(err).Int64("user_id", ownerID).Msg("count checks")
		return ListResult{}, persistenceFailure("failed to list checks", err)
	}
	checks, err := s.Store.List(ctx, ownerID, f, p)
	if err != nil {
		s.Logger.Error().Err(err).Int64("user_id", ownerID).Msg("list checks")
		return ListResult{}, persistenceFailure("failed to list checks", err)
	}
	if checks == nil {
		checks = []Check{}
	}
	return ListResult{Checks: checks, Total: total, Page: p}, nil
}

func validatePayment(p Payment) error {
	if !p.Type.Valid() {
		return invalidPayment("type", "payment type must be cash or card")
	}
	if p.Amount.IsNegative() {
		return invalidPayment("amount", "payment amount cannot be negative")
	}
	if !pricing.FitsPlaces(p.Amount, pricing.CurrencyPlaces) {
		return invalidPayment("amount", "payment amount allows at most 2 decimal places")
	}
	if p.Amount.GreaterThan(pricing.MaxMoney) {
		return invalidPayment("amount", "payment amount exceeds "+pricing.MaxMoney.String())
	}
	return nil
}

func validateItems(items []LineItemInput) error {
	if len(items) == 0 {
		return invalidLineItem(-1, "products", "at least one product is required")
	}
	for i, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return invalidLineItem(i, "name", "product name is required")
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return invalidLineItem(i, "name", "product name is too long")
		}
		if strings.IndexFunc(name, unicode.IsControl) >= 0 {
			return invalidLineItem(i, "name", "product name cannot contain control characters")
		}
		if err := checkAmount(i, "price", it.Price, pricing.CurrencyPlaces, pricing.MaxMoney); err != nil {
			return err
		}
		if err := checkAmount(i, "quantity", it.Quantity, pricing.QuantityPlaces, pricing.MaxQuantity); err != nil {
			return err
		}
	}
	return nil
}

func checkAmount(index int, field string, v decimal.Decimal, places int32, limit decimal.Decimal) error {
	if v.IsNegative() {
		return invalidLineItem(index, field, field+" cannot be negative")
	}
	if !pricing.FitsPlaces(v, places) {
		return invalidLineItem(index, field, field+" has too many decimal places")
	}
	if v.GreaterThan(limit) {
		return invalidLineItem(index, field, field+" exceeds "+limit.String())
	}
	return nil
}

// checkTotals rejects line and check totals that would not fit the money columns.
func checkTotals(items []pricing.Item) error {
	total := decimal.Zero
	for i, it := range items {
		line := pricing.LineTotal(it.UnitPrice, it.Quantity)
		if line.GreaterThan(pricing.MaxMoney) {
			return invalidLineItem(i, "total", "line total exceeds "+pricing.MaxMoney.String())
		}
		total = total.Add(line)
	}
	if total.GreaterThan(pricing.MaxMoney) {
		return invalidLineItem(-1, "total", "check total exceeds "+pricing.MaxMoney.String())
	}
	return nil
}
