package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type cartRepository struct {
	db querier
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{db: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) GetCart(ctx context.Context, customerID string) (domain.Cart, error) {
	var c domain.Cart

	rows, err := r.db.Query(ctx, `
		SELECT product_id, quantity, created_at
		FROM cart_lines
		WHERE customer_id = $1
		ORDER BY id`,
		customerID)
	if err != nil {
		return c, fmt.Errorf("db.Query: %w", err)
	}

	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CartLine, error) {
		var line domain.CartLine
		err := row.Scan(&line.ProductID, &line.Quantity, &line.CreatedAt)
		return line, err
	})
	if err != nil {
		return c, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return domain.Cart{
		CustomerID: customerID,
		Lines:      lines,
	}, nil
}

func (r *cartRepository) AddLine(ctx context.Context, customerID string, productID uuid.UUID, quantity int) (domain.CartLine, error) {
	line, err := domain.NewCartLine(productID, quantity)
	if err != nil {
		return line, fmt.Errorf("domain.NewCartLine: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO cart_lines (customer_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
		RETURNING product_id, quantity, created_at`,
		customerID, line.ProductID, line.Quantity).
		Scan(&line.ProductID, &line.Quantity, &line.CreatedAt)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	return line, nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, customerID string, productID uuid.UUID, quantity int) (bool, error) {
	if quantity <= 0 {
		return r.RemoveLine(ctx, customerID, productID)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE cart_lines
		SET quantity = $3
		WHERE customer_id = $1 AND product_id = $2`,
		customerID, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) RemoveLine(ctx context.Context, customerID string, productID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM cart_lines
		WHERE customer_id = $1 AND product_id = $2`,
		customerID, productID)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) Clear(ctx context.Context, customerID string) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM cart_lines
		WHERE customer_id = $1`,
		customerID); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *cartRepository) Count(ctx context.Context, customerID string) (int, error) {
	var count int

	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM cart_lines
		WHERE customer_id = $1`,
		customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db.QueryRow: %w", err)
	}

	return count, nil
}
