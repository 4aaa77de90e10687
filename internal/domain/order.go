package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID         uuid.UUID
	CustomerID string
	// InvoiceNumber is the externally visible identifier of the order,
	// distinct from its internal id. Time-derived, unique across orders.
	InvoiceNumber int64
	Status        OrderStatus
	Lines         []OrderLine
	// Payment is set by reads that join the order with its payment;
	// nil for an unpaid (pending) order.
	Payment *Payment

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine is immutable once written. UnitPrice is captured at checkout
// time and never recomputed from the live catalog, so historical orders
// survive future price changes.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice Money

	CreatedAt time.Time
}

type Payment struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	CustomerID string
	Amount     Money

	CreatedAt time.Time
}
