// Package apperr defines the typed error taxonomy shared by the core
// services. Every failure surfaces to the HTTP boundary as one of these
// values so it can be mapped to a status code and an actionable message;
// nothing in the core logs-and-swallows.
package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidDelta rejects a zero change quantity on the ledger.
	ErrInvalidDelta = errors.New("change quantity must not be zero")

	// ErrEmptyCart rejects a checkout without items.
	ErrEmptyCart = errors.New("transaction must have at least one item")

	// ErrInvalidQuantity rejects a cart line with qty <= 0.
	ErrInvalidQuantity = errors.New("item quantity must be greater than zero")

	// ErrInvalidReason rejects an unknown manual adjustment reason.
	ErrInvalidReason = errors.New("invalid stock adjustment reason")

	// ErrAlreadyClosed rejects closing a shift twice. Closed is terminal.
	ErrAlreadyClosed = errors.New("shift is already closed")

	// ErrStorageConflict signals a transient commit abort (deadlock or
	// serialization failure). The whole operation may be retried from the
	// top; nothing was persisted.
	ErrStorageConflict = errors.New("storage conflict, operation can be retried")
)

// NotFoundError reports an entity that is absent or belongs to another tenant.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// UnauthorizedError reports a cross-tenant reference, e.g. a checkout against
// an outlet owned by a different merchant.
type UnauthorizedError struct {
	Resource string
	ID       uuid.UUID
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s with ID %s does not belong to your merchant", e.Resource, e.ID)
}

// InsufficientStockError reports the first product whose stock would go
// negative. Available and Requested are included so the POS client can render
// an actionable message.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// AlreadyOpenError reports an attempt to open a second shift for the same
// user and outlet while one is still open.
type AlreadyOpenError struct {
	ShiftID uuid.UUID
}

func (e *AlreadyOpenError) Error() string {
	if e.ShiftID == uuid.Nil {
		return "an open shift already exists for this outlet"
	}
	return fmt.Sprintf("shift %s is still open for this outlet, close it first", e.ShiftID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}
