package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a ledger rule violation
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so the sentinels below
// work with errors.Is regardless of message.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// Ledger validation errors
const (
	ErrCodeCurrencyMismatch      = "CURRENCY_MISMATCH"
	ErrCodeNegativeAmount        = "NEGATIVE_AMOUNT"
	ErrCodeDuplicateTimestamp    = "DUPLICATE_TIMESTAMP"
	ErrCodeIllegalSequence       = "ILLEGAL_SEQUENCE"
	ErrCodeInsufficientAvailable = "INSUFFICIENT_AVAILABLE"
	ErrCodeInsufficientCharged   = "INSUFFICIENT_CHARGED"
	ErrCodeMissingRequiredField  = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidAmount         = "INVALID_AMOUNT"
)

// Ledger store errors
const (
	ErrCodeEventNotFound  = "EVENT_NOT_FOUND"
	ErrCodeDuplicateEvent = "DUPLICATE_EVENT"
)

var (
	ErrCurrencyMismatch      = &DomainError{Code: ErrCodeCurrencyMismatch, Message: "currency mismatch"}
	ErrNegativeAmount        = &DomainError{Code: ErrCodeNegativeAmount, Message: "negative amount"}
	ErrDuplicateTimestamp    = &DomainError{Code: ErrCodeDuplicateTimestamp, Message: "duplicate timestamp"}
	ErrIllegalSequence       = &DomainError{Code: ErrCodeIllegalSequence, Message: "illegal sequence"}
	ErrInsufficientAvailable = &DomainError{Code: ErrCodeInsufficientAvailable, Message: "insufficient available amount"}
	ErrInsufficientCharged   = &DomainError{Code: ErrCodeInsufficientCharged, Message: "insufficient charged amount"}
	ErrMissingRequiredField  = &DomainError{Code: ErrCodeMissingRequiredField, Message: "missing required field"}
	ErrInvalidAmount         = &DomainError{Code: ErrCodeInvalidAmount, Message: "invalid amount"}
	ErrEventNotFound         = &DomainError{Code: ErrCodeEventNotFound, Message: "payment event not found"}
	ErrDuplicateEvent        = &DomainError{Code: ErrCodeDuplicateEvent, Message: "payment event already recorded"}
)

func NewCurrencyMismatchError(expected, actual string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCurrencyMismatch,
		Message: fmt.Sprintf("currency mismatch: expected %s, got %s", expected, actual),
	}
}

func NewNegativeAmountError(eventGUID string, amount Money) *DomainError {
	return &DomainError{
		Code:    ErrCodeNegativeAmount,
		Message: fmt.Sprintf("payment event %s has negative amount %s", eventGUID, amount),
	}
}

func NewDuplicateTimestampError(txType TransactionType, eventGUID, otherGUID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateTimestamp,
		Message: fmt.Sprintf("%s events %s and %s share the same timestamp", txType, otherGUID, eventGUID),
	}
}

func NewIllegalSequenceError(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    ErrCodeIllegalSequence,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewInsufficientAvailableError(eventGUID string, available, requested Money) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientAvailable,
		Message: fmt.Sprintf("charge %s requests %s but only %s is available", eventGUID, requested, available),
	}
}

func NewInsufficientChargedError(eventGUID string, balance, requested Money) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientCharged,
		Message: fmt.Sprintf("%s requests %s but only %s is charged", eventGUID, requested, balance),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidAmountError(raw string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %q", raw),
		Err:     err,
	}
}

func NewDuplicateEventError(eventGUID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateEvent,
		Message: fmt.Sprintf("payment event %s is already recorded", eventGUID),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
