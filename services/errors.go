package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrorKind classifies failures crossing the service boundary.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NotFound"
	KindInsufficientStock ErrorKind = "InsufficientStock"
	KindAlreadyClosed     ErrorKind = "AlreadyClosed"
	KindValidation        ErrorKind = "ValidationError"
	KindPersistence       ErrorKind = "PersistenceError"
)

// Business reports whether the kind is recovered into a structured result
// rather than surfaced as an infrastructure failure.
func (k ErrorKind) Business() bool {
	switch k {
	case KindNotFound, KindInsufficientStock, KindAlreadyClosed, KindValidation:
		return true
	case KindPersistence:
		return false
	}
	return false
}

type Error struct {
	Kind    ErrorKind
	Message string
	Detail  any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindPersistence {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StockShortage names the ingredient that blocked a close.
type StockShortage struct {
	InventoryItemID uint            `json:"inventoryItemId"`
	Ingredient      string          `json:"ingredient"`
	Unit            string          `json:"unit"`
	Required        decimal.Decimal `json:"required"`
	Available       decimal.Decimal `json:"available"`
}

func NotFound(what string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", what, id)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func AlreadyClosed(orderID uint) *Error {
	return &Error{Kind: KindAlreadyClosed, Message: fmt.Sprintf("order %d is already closed", orderID)}
}

func InsufficientStock(s StockShortage) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock: %s (required %s %s, available %s)", s.Ingredient, s.Required, s.Unit, s.Available),
		Detail:  s,
	}
}

func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

// KindOf extracts the kind of err; unclassified errors count as persistence failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// classify keeps service errors as they are, maps missing rows to NotFound
// and wraps everything else as a persistence failure.
func classify(err error, what string, id any, op string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(what, id)
	}
	return Persistence(op, err)
}
