package domain

import "github.com/google/uuid"

// Product is a catalog entry as seen at pricing time.
type Product struct {
	ID           uuid.UUID
	Title        string
	Price        Money
	CategoryName string
	BrandName    string
}
