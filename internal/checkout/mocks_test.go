package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// memCartRepo implements port.CartRepository in memory for testing.
type memCartRepo struct {
	mu       sync.Mutex
	lines    map[string][]domain.CartLine
	getErr   error
	clearErr error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{lines: make(map[string][]domain.CartLine)}
}

func (m *memCartRepo) GetCart(_ context.Context, customerID string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return domain.Cart{}, m.getErr
	}

	return domain.Cart{
		CustomerID: customerID,
		Lines:      slices.Clone(m.lines[customerID]),
	}, nil
}

func (m *memCartRepo) AddLine(_ context.Context, customerID string, productID uuid.UUID, quantity int) (domain.CartLine, error) {
	line, err := domain.NewCartLine(productID, quantity)
	if err != nil {
		return line, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.lines[customerID] {
		if existing.ProductID == productID {
			m.lines[customerID][i].Quantity += quantity
			return m.lines[customerID][i], nil
		}
	}

	line.CreatedAt = time.Now()
	m.lines[customerID] = append(m.lines[customerID], line)
	return line, nil
}

func (m *memCartRepo) SetQuantity(ctx context.Context, customerID string, productID uuid.UUID, quantity int) (bool, error) {
	if quantity <= 0 {
		return m.RemoveLine(ctx, customerID, productID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.lines[customerID] {
		if existing.ProductID == productID {
			m.lines[customerID][i].Quantity = quantity
			return true, nil
		}
	}

	return false, nil
}

func (m *memCartRepo) RemoveLine(_ context.Context, customerID string, productID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.lines[customerID] {
		if existing.ProductID == productID {
			m.lines[customerID] = slices.Delete(m.lines[customerID], i, i+1)
			return true, nil
		}
	}

	return false, nil
}

func (m *memCartRepo) Clear(_ context.Context, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clearErr != nil {
		return m.clearErr
	}

	delete(m.lines, customerID)
	return nil
}

func (m *memCartRepo) Count(_ context.Context, customerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int
	for _, line := range m.lines[customerID] {
		count += line.Quantity
	}
	return count, nil
}

// memCatalog implements port.CatalogReader over a fixed product map.
type memCatalog struct {
	products map[uuid.UUID]domain.Product
	err      error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{products: make(map[uuid.UUID]domain.Product)}
}

func (m *memCatalog) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	if m.err != nil {
		return domain.Product{}, m.err
	}

	product, ok := m.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("catalog: %w", port.ErrProductNotFound)
	}

	return product, nil
}

// memOrderRepo implements port.OrderRepository in memory for testing.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order

	createErr error
	statusErr error

	// appendFailOn fails the nth AppendLine call (1-based), 0 = never.
	appendFailOn int
	appendCalls  int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *memOrderRepo) CreateOrder(_ context.Context, customerID string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return domain.Order{}, m.createErr
	}

	order := &domain.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		InvoiceNumber: time.Now().UnixMicro() + int64(len(m.orders)),
		Status:        domain.OrderStatusPending,
		CreatedAt:     time.Now(),
	}
	m.orders[order.ID] = order

	return *order, nil
}

func (m *memOrderRepo) AppendLine(_ context.Context, orderID uuid.UUID, line domain.OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.appendCalls++
	if m.appendFailOn != 0 && m.appendCalls == m.appendFailOn {
		return errors.New("append line failed")
	}

	order, ok := m.orders[orderID]
	if !ok {
		return port.ErrOrderNotFound
	}

	order.Lines = append(order.Lines, line)
	return nil
}

func (m *memOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID, customerID string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return domain.Order{}, port.ErrOrderNotFound
	}

	result := *order
	result.Lines = slices.Clone(order.Lines)
	return result, nil
}

func (m *memOrderRepo) ListOrders(_ context.Context, customerID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []domain.Order
	for _, order := range m.orders {
		if order.CustomerID == customerID {
			orders = append(orders, *order)
		}
	}

	slices.SortFunc(orders, func(a, b domain.Order) int {
		return int(b.InvoiceNumber - a.InvoiceNumber)
	})

	return orders, nil
}

func (m *memOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.statusErr != nil {
		return m.statusErr
	}

	order, ok := m.orders[orderID]
	if !ok {
		return port.ErrOrderNotFound
	}

	order.Status = status
	return nil
}

func (m *memOrderRepo) all() []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []domain.Order
	for _, order := range m.orders {
		orders = append(orders, *order)
	}
	return orders
}

// memPaymentRepo implements port.PaymentRepository in memory for testing.
type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]domain.Payment // keyed by order id

	recordErr error
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[uuid.UUID]domain.Payment)}
}

func (m *memPaymentRepo) RecordPayment(_ context.Context, payment domain.Payment) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recordErr != nil {
		return uuid.Nil, m.recordErr
	}

	if !payment.Amount.Amount.IsPositive() {
		return uuid.Nil, errors.New("amount must be positive")
	}

	if _, exists := m.payments[payment.OrderID]; exists {
		return uuid.Nil, errors.New("payment already recorded for order")
	}

	payment.ID = uuid.New()
	payment.CreatedAt = time.Now()
	m.payments[payment.OrderID] = payment

	return payment.ID, nil
}

func (m *memPaymentRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) (domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payment, ok := m.payments[orderID]
	if !ok {
		return domain.Payment{}, port.ErrPaymentNotFound
	}

	return payment, nil
}
