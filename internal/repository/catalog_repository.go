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

type catalogRepository struct {
	db querier
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogReader {
	return &catalogRepository{db: pool}
}

func (r *catalogRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	if productID == uuid.Nil {
		return p, errors.New("productID is empty")
	}

	var (
		amountText   string
		currencyCode string
	)

	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.title, p.price_amount::text, p.price_currency,
		       COALESCE(c.name, ''), COALESCE(b.name, '')
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN brands b ON b.id = p.brand_id
		WHERE p.id = $1`,
		productID).
		Scan(&p.ID, &p.Title, &amountText, &currencyCode, &p.CategoryName, &p.BrandName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("db.QueryRow: %w", port.ErrProductNotFound)
		}
		return p, fmt.Errorf("db.QueryRow: %w", err)
	}

	p.Price, err = mapMoney(amountText, currencyCode)
	if err != nil {
		return p, fmt.Errorf("mapMoney: %w", err)
	}

	return p, nil
}
