// Package checkout sequences the cart-to-order transaction: it validates the
// cart, prices every line against the catalog, writes the order with its
// lines, records the payment and finally clears the cart. Failures before the
// order exists leave no side effects; failures after it surface the stuck
// order id instead of compensating, so no audit trail is ever deleted.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	stepAppendLines   = "append-lines"
	stepRecordPayment = "record-payment"
)

// Receipt is returned to the caller on a successful checkout.
type Receipt struct {
	OrderID       uuid.UUID
	InvoiceNumber int64
	Total         domain.Money
}

type Service struct {
	carts    port.CartRepository
	catalog  port.CatalogReader
	orders   port.OrderRepository
	payments port.PaymentRepository
	// currency is fixed per deployment, no multi-currency conversion.
	currency currency.Unit
	logger   *slog.Logger

	// one mutex per customer: the cart is the only resource contended by
	// concurrent requests, different customers never share a lock.
	locks sync.Map // customerID -> *sync.Mutex
}

func NewService(
	carts port.CartRepository,
	catalog port.CatalogReader,
	orders port.OrderRepository,
	payments port.PaymentRepository,
	currencyUnit currency.Unit,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		carts:    carts,
		catalog:  catalog,
		orders:   orders,
		payments: payments,
		currency: currencyUnit,
		logger:   logger,
	}
}

// Checkout converts the customer's cart into an order, order lines and a
// payment. The cart read and the cart clear are guarded by a per-customer
// lock, so a second concurrent checkout for the same customer serializes
// behind the first and observes the already-emptied cart.
func (s *Service) Checkout(ctx context.Context, customerID string) (Receipt, error) {
	var r Receipt

	if customerID == "" {
		return r, errors.New("customerID is empty")
	}

	mu := s.customerLock(customerID)
	mu.Lock()
	defer mu.Unlock()

	cart, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return r, fmt.Errorf("carts.GetCart: %w", err)
	}

	if len(cart.Lines) == 0 {
		return r, ErrEmptyCart
	}

	// Price every line exactly once: the captured figures feed the order
	// lines, the running total and the payment row, so the snapshot stays
	// consistent within this checkout even if the catalog changes mid-call.
	prices := make([]domain.Money, 0, len(cart.Lines))
	total := decimal.Zero

	for _, line := range cart.Lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, port.ErrProductNotFound) {
				return r, fmt.Errorf("product %s: %w", line.ProductID, ErrProductUnavailable)
			}
			return r, fmt.Errorf("catalog.GetProduct: %w", err)
		}

		unitPrice := domain.Money{
			Amount:   product.Price.Amount.Round(2),
			Currency: s.currency,
		}

		prices = append(prices, unitPrice)
		total = total.Add(unitPrice.MulQty(line.Quantity).Amount)
	}

	total = total.Round(2)

	order, err := s.orders.CreateOrder(ctx, customerID)
	if err != nil {
		return r, fmt.Errorf("orders.CreateOrder: %w", errors.Join(ErrOrderCreationFailed, err))
	}

	for i, line := range cart.Lines {
		orderLine := domain.OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: prices[i],
		}

		if err := s.orders.AppendLine(ctx, order.ID, orderLine); err != nil {
			return r, s.partialFailure(customerID, order.ID, stepAppendLines, err)
		}
	}

	payment := domain.Payment{
		OrderID:    order.ID,
		CustomerID: customerID,
		Amount:     domain.Money{Amount: total, Currency: s.currency},
	}

	if _, err := s.payments.RecordPayment(ctx, payment); err != nil {
		return r, s.partialFailure(customerID, order.ID, stepRecordPayment, err)
	}

	// The payment is durable, nothing below may fail the checkout.
	if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid); err != nil {
		s.logger.Warn("order left pending after recorded payment",
			"customer_id", customerID, "order_id", order.ID, "error", err)
	}

	if err := s.carts.Clear(ctx, customerID); err != nil {
		s.logger.Warn("cart clear failed after successful checkout, retry out-of-band",
			"customer_id", customerID, "order_id", order.ID, "error", err)
	}

	return Receipt{
		OrderID:       order.ID,
		InvoiceNumber: order.InvoiceNumber,
		Total:         domain.Money{Amount: total, Currency: s.currency},
	}, nil
}

// PricedCart joins the customer's cart with the live catalog: title and
// current price per line. Lines whose product has left the catalog are
// skipped, mirroring an inner join.
func (s *Service) PricedCart(ctx context.Context, customerID string) ([]domain.PricedCartLine, error) {
	cart, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("carts.GetCart: %w", err)
	}

	var priced []domain.PricedCartLine

	for _, line := range cart.Lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, port.ErrProductNotFound) {
				continue
			}
			return nil, fmt.Errorf("catalog.GetProduct: %w", err)
		}

		unitPrice := product.Price.Round2()

		priced = append(priced, domain.PricedCartLine{
			CartLine:     line,
			Title:        product.Title,
			UnitPrice:    unitPrice,
			CategoryName: product.CategoryName,
			BrandName:    product.BrandName,
			LineTotal:    unitPrice.MulQty(line.Quantity),
		})
	}

	return priced, nil
}

func (s *Service) partialFailure(customerID string, orderID uuid.UUID, step string, err error) error {
	// No compensating delete: the pending order is the audit trail.
	s.logger.Error("checkout needs reconciliation",
		"customer_id", customerID, "order_id", orderID, "step", step, "error", err)

	return &PartialFailureError{OrderID: orderID, Step: step, Err: err}
}

func (s *Service) customerLock(customerID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(customerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
