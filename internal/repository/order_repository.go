package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Invoice numbers are time-derived, so a same-instant collision is
// retryable: regenerate and re-insert a bounded number of times.
const maxInvoiceAttempts = 3

type orderRepository struct {
	db querier
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) CreateOrder(ctx context.Context, customerID string) (domain.Order, error) {
	var o domain.Order

	if customerID == "" {
		return o, errors.New("customerID is empty")
	}

	var lastErr error

	for attempt := 0; attempt < maxInvoiceAttempts; attempt++ {
		order := domain.Order{
			ID:            uuid.New(),
			CustomerID:    customerID,
			InvoiceNumber: newInvoiceNumber(),
			Status:        domain.OrderStatusPending,
		}

		err := r.db.QueryRow(ctx, `
			INSERT INTO orders (id, customer_id, invoice_no, status)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at`,
			order.ID, order.CustomerID, order.InvoiceNumber, order.Status).
			Scan(&order.CreatedAt, &order.UpdatedAt)
		if err == nil {
			return order, nil
		}

		if !isInvoiceCollision(err) {
			return o, fmt.Errorf("db.QueryRow: %w", err)
		}

		lastErr = err
	}

	return o, fmt.Errorf("invoice number collision after %d attempts: %w", maxInvoiceAttempts, lastErr)
}

func (r *orderRepository) AppendLine(ctx context.Context, orderID uuid.UUID, line domain.OrderLine) error {
	if orderID == uuid.Nil {
		return errors.New("orderID is empty")
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO order_lines (order_id, product_id, quantity, price_amount, price_currency)
		VALUES ($1, $2, $3, $4, $5)`,
		orderID, line.ProductID, line.Quantity,
		line.UnitPrice.Amount.StringFixed(2), line.UnitPrice.Currency.String()); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID, customerID string) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, errors.New("orderID is empty")
	}

	order, err := withTx(ctx, r.db, func(q querier) (domain.Order, error) {
		row := q.QueryRow(ctx, `
			SELECT o.id, o.customer_id, o.invoice_no, o.status, o.created_at, o.updated_at,
			       p.id, p.amount::text, p.currency, p.created_at
			FROM orders o
			LEFT JOIN payments p ON p.order_id = o.id
			WHERE o.id = $1 AND o.customer_id = $2`,
			orderID, customerID)

		order, err := scanOrderWithPayment(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("scanOrderWithPayment: %w", port.ErrOrderNotFound)
			}
			return o, fmt.Errorf("scanOrderWithPayment: %w", err)
		}

		rows, err := q.Query(ctx, `
			SELECT product_id, quantity, price_amount::text, price_currency, created_at
			FROM order_lines
			WHERE order_id = $1
			ORDER BY id`,
			orderID)
		if err != nil {
			return o, fmt.Errorf("q.Query: %w", err)
		}

		order.Lines, err = pgx.CollectRows(rows, scanOrderLine)
		if err != nil {
			return o, fmt.Errorf("pgx.CollectRows: %w", err)
		}

		return order, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	// invoice_no is time-derived and breaks ties within the same timestamp.
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.customer_id, o.invoice_no, o.status, o.created_at, o.updated_at,
		       p.id, p.amount::text, p.currency, p.created_at
		FROM orders o
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC, o.invoice_no DESC`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		return scanOrderWithPayment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return errors.New("orderID is empty")
	}

	if _, err := domain.ToOrderStatus(string(status)); err != nil {
		return fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1`,
		orderID, status)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("db.Exec: %w", port.ErrOrderNotFound)
	}

	return nil
}

func newInvoiceNumber() int64 {
	return time.Now().UnixMicro()
}

func isInvoiceCollision(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		pgErr.ConstraintName == "orders_invoice_no_key"
}

func scanOrderWithPayment(row pgx.Row) (domain.Order, error) {
	var (
		o domain.Order

		statusRaw string

		paymentID        *uuid.UUID
		paymentAmount    *string
		paymentCurrency  *string
		paymentCreatedAt *time.Time
	)

	err := row.Scan(&o.ID, &o.CustomerID, &o.InvoiceNumber, &statusRaw, &o.CreatedAt, &o.UpdatedAt,
		&paymentID, &paymentAmount, &paymentCurrency, &paymentCreatedAt)
	if err != nil {
		return o, err
	}

	o.Status, err = domain.ToOrderStatus(statusRaw)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", statusRaw, err)
	}

	if paymentID != nil {
		amount, err := mapMoney(lo.FromPtr(paymentAmount), lo.FromPtr(paymentCurrency))
		if err != nil {
			return o, fmt.Errorf("mapMoney: %w", err)
		}

		o.Payment = &domain.Payment{
			ID:         *paymentID,
			OrderID:    o.ID,
			CustomerID: o.CustomerID,
			Amount:     amount,
			CreatedAt:  lo.FromPtr(paymentCreatedAt),
		}
	}

	return o, nil
}

func scanOrderLine(row pgx.CollectableRow) (domain.OrderLine, error) {
	var (
		line         domain.OrderLine
		amountText   string
		currencyCode string
	)

	err := row.Scan(&line.ProductID, &line.Quantity, &amountText, &currencyCode, &line.CreatedAt)
	if err != nil {
		return line, err
	}

	line.UnitPrice, err = mapMoney(amountText, currencyCode)
	if err != nil {
		return line, fmt.Errorf("mapMoney: %w", err)
	}

	return line, nil
}

func mapMoney(amountText, currencyCode string) (domain.Money, error) {
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return domain.Money{}, fmt.Errorf("decimal.NewFromString[%s]: %w", amountText, err)
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}
