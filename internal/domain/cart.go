package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

type Cart struct {
	CustomerID string
	Lines      []CartLine
}

// CartLine is one product+quantity entry of a customer's pending purchase.
// Lines are unique per (customer, product); adding an already-present product
// increments the quantity instead of duplicating the line.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int

	CreatedAt time.Time
}

// NewCartLine rejects non-positive quantities at the boundary so
// consumers can assume well-formed lines.
func NewCartLine(productID uuid.UUID, quantity int) (CartLine, error) {
	if productID == uuid.Nil {
		return CartLine{}, errors.New("productID is empty")
	}

	if quantity < 1 {
		return CartLine{}, ErrInvalidQuantity
	}

	return CartLine{
		ProductID: productID,
		Quantity:  quantity,
	}, nil
}

// PricedCartLine is a cart line joined with its catalog product at read time.
type PricedCartLine struct {
	CartLine

	Title        string
	UnitPrice    Money
	CategoryName string
	BrandName    string
	LineTotal    Money
}
