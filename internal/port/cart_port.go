package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type CartRepository interface {
	// GetCart returns the customer's lines in insertion order.
	GetCart(ctx context.Context, customerID string) (domain.Cart, error)

	// AddLine creates the (customer, product) line or increments its
	// quantity if already present. Returns the resulting line state.
	AddLine(ctx context.Context, customerID string, productID uuid.UUID, quantity int) (domain.CartLine, error)

	// SetQuantity overwrites the line quantity; quantity <= 0 behaves as
	// RemoveLine. Reports whether a row was touched, absence is not an error.
	SetQuantity(ctx context.Context, customerID string, productID uuid.UUID, quantity int) (bool, error)

	// RemoveLine is idempotent and reports whether a row was actually removed.
	RemoveLine(ctx context.Context, customerID string, productID uuid.UUID) (bool, error)

	// Clear removes all lines of the customer, idempotent.
	Clear(ctx context.Context, customerID string) error

	// Count returns the sum of quantities across the customer's lines.
	Count(ctx context.Context, customerID string) (int, error)
}
