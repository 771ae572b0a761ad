package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	// Context Errors (Transient - network/timeout issues)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	// Ledger rule violations: the event contradicts its order's history
	if errors.Is(err, domain.ErrIllegalSequence) ||
		errors.Is(err, domain.ErrInsufficientAvailable) ||
		errors.Is(err, domain.ErrInsufficientCharged) ||
		errors.Is(err, domain.ErrDuplicateTimestamp) ||
		errors.Is(err, domain.ErrCurrencyMismatch) ||
		errors.Is(err, domain.ErrNegativeAmount) {
		return CategoryBusinessRule
	}

	if errors.Is(err, domain.ErrMissingRequiredField) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrDuplicateEvent) ||
		errors.Is(err, domain.ErrEventNotFound) {
		return CategoryClientError
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput:
			return CategoryClientError
		case ErrCodeInternal:
			return CategoryInfrastructure
		case ErrCodeTimeout:
			return CategoryTransient
		}
	}

	// Default: Transient (safe fallback)
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient || category == CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMissingRequiredField),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrCurrencyMismatch):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrIllegalSequence),
		errors.Is(err, domain.ErrInsufficientAvailable),
		errors.Is(err, domain.ErrInsufficientCharged),
		errors.Is(err, domain.ErrDuplicateTimestamp),
		errors.Is(err, domain.ErrDuplicateEvent):
		return http.StatusConflict

	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}
