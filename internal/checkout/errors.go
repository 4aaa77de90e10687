package checkout

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrEmptyCart and ErrProductUnavailable leave no side effects,
	// the customer can retry immediately.
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrProductUnavailable = errors.New("product is unavailable")

	// ErrOrderCreationFailed leaves no side effects either: nothing was
	// persisted, retrying is safe.
	ErrOrderCreationFailed = errors.New("order creation failed")
)

// PartialFailureError marks a checkout that created an order but could not
// finish it: the order stays pending with no payment attached and the cart
// is left untouched. Retrying would create a second order from the same
// cart, so callers must surface OrderID for support and reconciliation
// instead of retrying blindly.
type PartialFailureError struct {
	OrderID uuid.UUID
	Step    string
	Err     error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("checkout partially failed at %s, order %s: %v", e.Step, e.OrderID, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
