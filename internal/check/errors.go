package check

import (
	"errors"
	"net/http"

	"github.com/receipthub/backend-receipt/internal/common"
	"github.com/receipthub/backend-receipt/internal/pricing"
)

var (
	// ErrInsufficientPayment reports a tendered amount below the computed total.
	ErrInsufficientPayment = pricing.ErrInsufficientPayment
	// ErrInvalidLineItem reports a blank name, a negative price or quantity, or an empty check.
	ErrInvalidLineItem = errors.New("check: invalid line item")
	// ErrInvalidPayment reports an unknown payment type or a malformed amount.
	ErrInvalidPayment = errors.New("check: invalid payment")
	// ErrInvalidFilter reports inconsistent list filters.
	ErrInvalidFilter = errors.New("check: invalid filter")
	// ErrNotFound is returned for missing checks and for checks owned by someone else.
	ErrNotFound = errors.New("check: not found")
	// ErrPersistence wraps failures of the storage collaborator.
	ErrPersistence = errors.New("check: persistence failure")
)

func insufficientPayment(total, amount string) *common.AppError {
	return common.NewAppError("INSUFFICIENT_PAYMENT", "payment amount is less than the total price", http.StatusBadRequest, ErrInsufficientPayment).
		WithDetails(map[string]any{"total": total, "amount": amount})
}

func invalidLineItem(index int, field, message string) *common.AppError {
	details := map[string]any{"field": field}
	if index >= 0 {
		details["index"] = index
	}
	return common.NewAppError("INVALID_LINE_ITEM", message, http.StatusUnprocessableEntity, ErrInvalidLineItem).WithDetails(details)
}

func invalidPayment(field, message string) *common.AppError {
	return common.NewAppError("INVALID_PAYMENT", message, http.StatusUnprocessableEntity, ErrInvalidPayment).
		WithDetails(map[string]any{"field": field})
}

func invalidFilter(field, message string) *common.AppError {
	return common.NewAppError("INVALID_FILTER", message, http.StatusBadRequest, ErrInvalidFilter).
		WithDetails(map[string]any{"field": field})
}

func notFound() *common.AppError {
	return common.NewAppError("NOT_FOUND", "check not found", http.StatusNotFound, ErrNotFound)
}

func persistenceFailure(message string, err error) *common.AppError {
	return common.NewAppError("PERSISTENCE_FAILURE", message, http.StatusInternalServerError, errors.Join(ErrPersistence, err))
}
