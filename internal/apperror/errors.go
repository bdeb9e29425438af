// Package apperror defines the error kinds surfaced by the register core.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotConfigured is returned by every remote operation when no remote
	// store was configured at startup.
	ErrNotConfigured = errors.New("remote store is not configured")
)

// ValidationError reports a missing or invalid field on create/update.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Entity, e.Field, e.Reason)
}

// Required builds a ValidationError for an absent required field.
func Required(entity, field string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: "is required"}
}

// Invalid builds a ValidationError with a free-form reason.
func Invalid(entity, field, reason string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}

// StockError reports that a variant cannot cover the requested quantity.
type StockError struct {
	ProductID string
	VariantID string
	SKU       string
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %d, available %d",
		e.Name, e.SKU, e.Requested, e.Available)
}

// NotFoundError reports a lookup miss.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// NotFound builds a NotFoundError.
func NotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// SyncError wraps the first failing remote table operation.
type SyncError struct {
	Table string
	Op    string
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// ParseError reports a malformed import document.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s document: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStock reports whether err is, or wraps, a StockError.
func IsStock(err error) bool {
	var se *StockError
	return errors.As(err, &se)
}
