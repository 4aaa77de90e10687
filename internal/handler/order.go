package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/middleware"
	"github.com/nikolayk812/storefront/internal/port"
)

// CheckoutRunner is the slice of the checkout service the order handler needs.
type CheckoutRunner interface {
	Checkout(ctx context.Context, customerID string) (checkout.Receipt, error)
}

type OrderHandler struct {
	runner CheckoutRunner
	orders port.OrderRepository
}

func NewOrderHandler(runner CheckoutRunner, orders port.OrderRepository) *OrderHandler {
	return &OrderHandler{runner: runner, orders: orders}
}

type checkoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	InvoiceNo   int64     `json:"invoice_no"`
	TotalAmount string    `json:"total_amount"`
	Currency    string    `json:"currency"`
}

type orderResponse struct {
	OrderID   uuid.UUID           `json:"order_id"`
	InvoiceNo int64               `json:"invoice_no"`
	Status    string              `json:"status"`
	CreatedAt string              `json:"created_at"`
	Lines     []orderLineResponse `json:"lines,omitempty"`
	Payment   *paymentResponse    `json:"payment,omitempty"`
}

type orderLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
}

type paymentResponse struct {
	PaymentID uuid.UUID `json:"payment_id"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	PaidAt    string    `json:"paid_at"`
}

// Checkout maps the orchestrator's error taxonomy onto HTTP statuses:
// user errors without side effects are 400, everything after the order
// exists is 500 with the stuck order id surfaced for support.
func (h *OrderHandler) Checkout(c echo.Context) error {
	receipt, err := h.runner.Checkout(c.Request().Context(), middleware.CustomerID(c))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			return echo.NewHTTPError(http.StatusBadRequest, "your cart is empty")
		case errors.Is(err, checkout.ErrProductUnavailable):
			return echo.NewHTTPError(http.StatusBadRequest, "a product in your cart is no longer available")
		case errors.Is(err, checkout.ErrOrderCreationFailed):
			return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed, please try again")
		}

		var partial *checkout.PartialFailureError
		if errors.As(err, &partial) {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{
				"message":  "checkout could not be completed, please contact support",
				"order_id": partial.OrderID,
			})
		}

		return fmt.Errorf("runner.Checkout: %w", err)
	}

	return c.JSON(http.StatusOK, checkoutResponse{
		OrderID:     receipt.OrderID,
		InvoiceNo:   receipt.InvoiceNumber,
		TotalAmount: receipt.Total.Amount.StringFixed(2),
		Currency:    receipt.Total.Currency.String(),
	})
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.orders.ListOrders(c.Request().Context(), middleware.CustomerID(c))
	if err != nil {
		return fmt.Errorf("orders.ListOrders: %w", err)
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, mapOrder(order))
	}

	return c.JSON(http.StatusOK, map[string]any{"orders": resp})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.orders.GetOrder(c.Request().Context(), orderID, middleware.CustomerID(c))
	if err != nil {
		if errors.Is(err, port.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return fmt.Errorf("orders.GetOrder: %w", err)
	}

	return c.JSON(http.StatusOK, mapOrder(order))
}

func mapOrder(order domain.Order) orderResponse {
	resp := orderResponse{
		OrderID:   order.ID,
		InvoiceNo: order.InvoiceNumber,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}

	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, orderLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.Amount.StringFixed(2),
		})
	}

	if order.Payment != nil {
		resp.Payment = &paymentResponse{
			PaymentID: order.Payment.ID,
			Amount:    order.Payment.Amount.Amount.StringFixed(2),
			Currency:  order.Payment.Amount.Currency.String(),
			PaidAt:    order.Payment.CreatedAt.Format(time.RFC3339),
		}
	}

	return resp
}
