package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/middleware"
	"github.com/nikolayk812/storefront/internal/port"
)

// CartViewer is the slice of the checkout service the cart handler needs.
type CartViewer interface {
	PricedCart(ctx context.Context, customerID string) ([]domain.PricedCartLine, error)
}

type CartHandler struct {
	carts  port.CartRepository
	viewer CartViewer
}

func NewCartHandler(carts port.CartRepository, viewer CartViewer) *CartHandler {
	return &CartHandler{carts: carts, viewer: viewer}
}

type addLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Title     string    `json:"title,omitempty"`
	UnitPrice string    `json:"unit_price,omitempty"`
	LineTotal string    `json:"line_total,omitempty"`
	Category  string    `json:"category,omitempty"`
	Brand     string    `json:"brand,omitempty"`
}

func (h *CartHandler) AddLine(c echo.Context) error {
	var req addLineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}

	line, err := h.carts.AddLine(c.Request().Context(), middleware.CustomerID(c), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			return echo.NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
		}
		return fmt.Errorf("carts.AddLine: %w", err)
	}

	return c.JSON(http.StatusOK, cartLineResponse{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
	})
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req setQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.carts.SetQuantity(c.Request().Context(), middleware.CustomerID(c), productID, req.Quantity)
	if err != nil {
		return fmt.Errorf("carts.SetQuantity: %w", err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"updated": updated})
}

func (h *CartHandler) RemoveLine(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	removed, err := h.carts.RemoveLine(c.Request().Context(), middleware.CustomerID(c), productID)
	if err != nil {
		return fmt.Errorf("carts.RemoveLine: %w", err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"removed": removed})
}

func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.carts.Clear(c.Request().Context(), middleware.CustomerID(c)); err != nil {
		return fmt.Errorf("carts.Clear: %w", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	priced, err := h.viewer.PricedCart(c.Request().Context(), middleware.CustomerID(c))
	if err != nil {
		return fmt.Errorf("viewer.PricedCart: %w", err)
	}

	lines := make([]cartLineResponse, 0, len(priced))
	for _, line := range priced {
		lines = append(lines, cartLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Title:     line.Title,
			UnitPrice: line.UnitPrice.Amount.StringFixed(2),
			LineTotal: line.LineTotal.Amount.StringFixed(2),
			Category:  line.CategoryName,
			Brand:     line.BrandName,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"lines": lines})
}

func (h *CartHandler) Count(c echo.Context) error {
	count, err := h.carts.Count(c.Request().Context(), middleware.CustomerID(c))
	if err != nil {
		return fmt.Errorf("carts.Count: %w", err)
	}

	return c.JSON(http.StatusOK, map[string]int{"count": count})
}
