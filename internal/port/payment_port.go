package port

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	// RecordPayment inserts the payment and returns its generated id.
	// The amount must be positive; exactly one payment per order.
	RecordPayment(ctx context.Context, payment domain.Payment) (uuid.UUID, error)

	GetByOrderID(ctx context.Context, orderID uuid.UUID) (domain.Payment, error)
}
