package port

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	// CreateOrder inserts a pending order with a fresh unique invoice number.
	// Invoice collisions are retried internally a bounded number of times.
	CreateOrder(ctx context.Context, customerID string) (domain.Order, error)

	// AppendLine inserts one immutable order line. No validation beyond
	// referential existence of the order.
	AppendLine(ctx context.Context, orderID uuid.UUID, line domain.OrderLine) error

	// GetOrder returns the order with its lines, scoped by customer:
	// another customer's order is ErrOrderNotFound.
	GetOrder(ctx context.Context, orderID uuid.UUID, customerID string) (domain.Order, error)

	// ListOrders returns the customer's orders joined with their payment,
	// newest first.
	ListOrders(ctx context.Context, customerID string) ([]domain.Order, error)

	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
}
