package check

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/receipthub/backend-receipt/internal/common"
	"github.com/receipthub/backend-receipt/internal/obs"
	"github.com/receipthub/backend-receipt/internal/pricing"
)

// Text width bounds accepted by the text endpoint.
const (
	MinTextWidth = 20
	MaxTextWidth = 120
)

// ReceiptRenderer produces the plain-text receipt of a check.
type ReceiptRenderer interface {
	RenderWidth(c Check, width int) string
}

// Handler exposes HTTP handlers for checks.
type Handler struct {
	Service   *Service
	Receipts  ReceiptRenderer
	Validate  *validator.Validate
	Location  *time.Location
	TextWidth int
	// BasePath prefixes the receipt_url returned for a single check.
	BasePath string
}

type productResponse struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Total    string `json:"total"`
}

type paymentResponse struct {
	Type   PaymentType `json:"type"`
	Amount string      `json:"amount"`
}

type checkResponse struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	CreatedAt  time.Time         `json:"created_at"`
	Total      string            `json:"total"`
	Payment    paymentResponse   `json:"payment"`
	Rest       string            `json:"rest"`
	Products   []productResponse `json:"products"`
	ReceiptURL string            `json:"receipt_url,omitempty"`
}

// Create handles POST /api/v1/checks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "check service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var req CreateInput
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	req.Payment.Type = PaymentType(strings.ToLower(strings.TrimSpace(string(req.Payment.Type))))
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.WriteError(w, fromValidation(err))
			return
		}
	}
	c, err := h.Service.Create(r.Context(), userID, req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	resp := toResponse(c)
	resp.ReceiptURL = h.receiptURL(c.ID)
	w.Header().Set("Location", fmt.Sprintf("%s/checks/%d", h.basePath(), c.ID))
	common.Data(w, http.StatusCreated, resp)
}

// List handles GET /api/v1/checks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "check service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	filter, err := ParseFilter(r.URL.Query(), h.Location)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	offset, limit := common.ParseOffsetLimit(r, h.Service.DefaultLimit, h.Service.MaxLimit)
	result, err := h.Service.List(r.Context(), userID, filter, Page{Offset: offset, Limit: limit})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	items := make([]checkResponse, 0, len(result.Checks))
	for _, c := range result.Checks {
		items = append(items, toResponse(c))
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data": items,
		"pagination": common.Pagination{
			Offset:     result.Page.Offset,
			Limit:      result.Page.Limit,
			TotalItems: result.Total,
		},
	})
}

// Get handles GET /api/v1/checks/{checkId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	resp := toResponse(c)
	resp.ReceiptURL = h.receiptURL(c.ID)
	common.Data(w, http.StatusOK, resp)
}

// Text handles GET /api/v1/checks/{checkId}/text.
func (h *Handler) Text(w http.ResponseWriter, r *http.Request) {
	if h.Receipts == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "receipt renderer not configured", nil)
		return
	}
	width := h.TextWidth
	if raw := strings.TrimSpace(r.URL.Query().Get("width")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < MinTextWidth || n > MaxTextWidth {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST",
				fmt.Sprintf("width must be an integer between %d and %d", MinTextWidth, MaxTextWidth), nil)
			return
		}
		width = n
	}
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	body := h.Receipts.RenderWidth(c, width)
	obs.ObserveReceiptRendered()
	common.Text(w, http.StatusOK, body)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (Check, bool) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "check service not configured", nil)
		return Check{}, false
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return Check{}, false
	}
	checkID, err := strconv.ParseInt(chi.URLParam(r, "checkId"), 10, 64)
	if err != nil || checkID <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid check id", nil)
		return Check{}, false
	}
	c, err := h.Service.Get(r.Context(), checkID, userID)
	if err != nil {
		common.WriteError(w, err)
		return Check{}, false
	}
	return c, true
}

func (h *Handler) basePath() string {
	if h.BasePath == "" {
		return "/api/v1"
	}
	return strings.TrimRight(h.BasePath, "/")
}

func (h *Handler) receiptURL(id int64) string {
	return fmt.Sprintf("%s/checks/%d/text", h.basePath(), id)
}

func toResponse(c Check) checkResponse {
	products := make([]productResponse, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, productResponse{
			Name:     p.Name,
			Price:    money(p.Price),
			Quantity: p.Quantity.String(),
			Total:    money(p.Total),
		})
	}
	return checkResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		Total:     money(c.Total),
		Payment:   paymentResponse{Type: c.PaymentType, Amount: money(c.PaymentAmount)},
		Rest:      money(c.Rest),
		Products:  products,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(pricing.CurrencyPlaces)
}

// fromValidation maps struct validation failures onto the domain error kinds.
func fromValidation(err error) error {
	fields := common.ValidationErrors(err)
	if len(fields) == 0 {
		return common.NewAppError("BAD_REQUEST", "invalid request payload", http.StatusBadRequest, err)
	}
	first := fields[0]
	if strings.HasPrefix(first.Field, "payment") {
		return invalidPayment(strings.TrimPrefix(first.Field, "payment."), first.Field+" failed the "+first.Rule+" rule")
	}
	index := -1
	field := first.Field
	if open := strings.Index(field, "["); open >= 0 {
		if end := strings.Index(field[open:], "]"); end > 0 {
			if n, convErr := strconv.Atoi(field[open+1 : open+end]); convErr == nil {
				index = n
			}
			field = strings.TrimPrefix(field[open+end+1:], ".")
		}
	}
	if field == "" {
		field = "products"
	}
	return invalidLineItem(index, field, first.Field+" failed the "+first.Rule+" rule")
}
