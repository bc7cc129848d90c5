package order

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/product-order-api/internal/domain"
	"github.com/xenking/product-order-api/internal/domain/product"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

const maxCustomerNameLen = 200

// Item is a single order line. It references its product by id only and
// snapshots the product's name and unit price at order time, so later product
// edits never change a past order.
type Item struct {
	id          uuid.UUID
	productID   uuid.UUID
	productName string
	unitPrice   decimal.Decimal
	quantity    int
}

func newItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) (*Item, error) {
	if productID == uuid.Nil {
		return nil, domain.Validationf("product id is required")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, domain.Validationf("product name is required")
	}
	if unitPrice.IsNegative() {
		return nil, domain.Validationf("unit price cannot be negative")
	}
	if quantity <= 0 {
		return nil, domain.Validationf("item quantity must be greater than zero")
	}

	return &Item{
		id:          uuid.New(),
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}, nil
}

// RestoreItem rebuilds an Item from persisted state.
func RestoreItem(id, productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) *Item {
	return &Item{
		id:          id,
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}
}

func (i *Item) ID() uuid.UUID              { return i.id }
func (i *Item) ProductID() uuid.UUID       { return i.productID }
func (i *Item) ProductName() string        { return i.productName }
func (i *Item) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i *Item) Quantity() int              { return i.quantity }

// Subtotal is unit price times quantity.
func (i *Item) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *Item) increaseQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("item quantity must be greater than zero")
	}
	i.quantity += quantity
	return nil
}

// Order is a customer order with its line items. Items are owned exclusively
// by the order and kept in insertion order.
type Order struct {
	id           uuid.UUID
	customerName string
	createdAt    time.Time
	items        []*Item
}

// New validates the customer name and constructs an empty Order with a
// generated ID and the current creation time. Item-count enforcement is the
// workflow's job: the constructor only guards the customer name.
func New(customerName string) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, domain.Validationf("customer name is required")
	}
	if utf8.RuneCountInString(customerName) > maxCustomerNameLen {
		return nil, domain.Validationf("customer name must be at most %d characters", maxCustomerNameLen)
	}

	return &Order{
		id:           uuid.New(),
		customerName: customerName,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Restore rebuilds an Order from persisted state.
func Restore(id uuid.UUID, customerName string, createdAt time.Time, items []*Item) *Order {
	return &Order{
		id:           id,
		customerName: customerName,
		createdAt:    createdAt,
		items:        items,
	}
}

func (o *Order) ID() uuid.UUID        { return o.id }
func (o *Order) CustomerName() string { return o.customerName }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Items returns the order lines in insertion order. The returned slice is a
// copy; the order keeps exclusive ownership of its items.
func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

// Total is the sum of every line's subtotal, recomputed on each call from
// the snapshot prices stored on the items. It is never cached or persisted.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// AddItem appends a line for the given product snapshot. When a line for the
// same product id already exists its quantity is increased instead, so
// product ids stay unique across the order's items.
func (o *Order) AddItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("item quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return domain.Validationf("unit price cannot be negative")
	}
	if strings.TrimSpace(productName) == "" {
		return domain.Validationf("product name is required")
	}

	for _, it := range o.items {
		if it.productID == productID {
			return it.increaseQuantity(quantity)
		}
	}

	it, err := newItem(productID, productName, unitPrice, quantity)
	if err != nil {
		return err
	}
	o.items = append(o.items, it)
	return nil
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order together with every product stock update in
	// a single transaction: either all changes land or none do.
	Create(ctx context.Context, o *Order, stockUpdates []*product.Product) error
	// GetByID returns the order with its items, or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
}
