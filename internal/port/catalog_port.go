package port

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogReader resolves a product reference to its current price and title.
type CatalogReader interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
}
