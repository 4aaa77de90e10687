package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type paymentRepository struct {
	db querier
}

func NewPayment(pool *pgxpool.Pool) port.PaymentRepository {
	return &paymentRepository{db: pool}
}

func NewPaymentWithTx(tx pgx.Tx) port.PaymentRepository {
	return &paymentRepository{db: tx}
}

func (r *paymentRepository) RecordPayment(ctx context.Context, payment domain.Payment) (uuid.UUID, error) {
	if payment.OrderID == uuid.Nil {
		return uuid.Nil, errors.New("orderID is empty")
	}

	if payment.CustomerID == "" {
		return uuid.Nil, errors.New("customerID is empty")
	}

	if !payment.Amount.Amount.IsPositive() {
		return uuid.Nil, errors.New("amount must be positive")
	}

	paymentID := uuid.New()

	if _, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, order_id, customer_id, amount, currency)
		VALUES ($1, $2, $3, $4, $5)`,
		paymentID, payment.OrderID, payment.CustomerID,
		payment.Amount.Amount.StringFixed(2), payment.Amount.Currency.String()); err != nil {
		return uuid.Nil, fmt.Errorf("db.Exec: %w", err)
	}

	return paymentID, nil
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (domain.Payment, error) {
	var p domain.Payment

	if orderID == uuid.Nil {
		return p, errors.New("orderID is empty")
	}

	var (
		amountText   string
		currencyCode string
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, customer_id, amount::text, currency, created_at
		FROM payments
		WHERE order_id = $1`,
		orderID).
		Scan(&p.ID, &p.OrderID, &p.CustomerID, &amountText, &currencyCode, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("db.QueryRow: %w", port.ErrPaymentNotFound)
		}
		return p, fmt.Errorf("db.QueryRow: %w", err)
	}

	p.Amount, err = mapMoney(amountText, currencyCode)
	if err != nil {
		return p, fmt.Errorf("mapMoney: %w", err)
	}

	return p, nil
}
