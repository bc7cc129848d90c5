// Package domain holds the error kinds shared by the domain packages.
//
// The transport layer distinguishes three failure classes without parsing
// error text: validation errors (bad caller input), insufficient stock (a
// business rule, not bad input), and per-package not-found sentinels.
package domain

import "fmt"

// ValidationError reports caller-supplied input that violates a domain
// invariant. It always carries a human-readable reason and is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports a stock decrement that the product's
// remaining balance cannot cover.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}
