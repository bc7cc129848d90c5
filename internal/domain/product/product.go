package product

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/product-order-api/internal/domain"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

const (
	maxNameLen        = 200
	maxDescriptionLen = 1000
)

// Product is a catalog item available for purchase. Fields are unexported so
// state can only change through the mutators below, each of which re-checks
// its own invariants regardless of what the calling workflow already
// validated.
type Product struct {
	id          uuid.UUID
	name        string
	description string
	price       decimal.Decimal
	stock       int
}

// New validates the inputs and constructs a Product with a generated ID.
// The description is optional and defaults to empty.
func New(name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.Validationf("product name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, domain.Validationf("product name must be at most %d characters", maxNameLen)
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, domain.Validationf("product description must be at most %d characters", maxDescriptionLen)
	}
	if price.IsNegative() {
		return nil, domain.Validationf("product price cannot be negative")
	}
	if stock < 0 {
		return nil, domain.Validationf("stock quantity cannot be negative")
	}

	return &Product{
		id:          uuid.New(),
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
	}, nil
}

// Restore rebuilds a Product from persisted state. It bypasses constructor
// validation: the store is trusted to hold only valid entities.
func Restore(id uuid.UUID, name, description string, price decimal.Decimal, stock int) *Product {
	return &Product{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
	}
}

func (p *Product) ID() uuid.UUID          { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Description() string    { return p.description }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) Stock() int             { return p.stock }

// ChangePrice sets a new non-negative price.
func (p *Product) ChangePrice(newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return domain.Validationf("product price cannot be negative")
	}
	p.price = newPrice
	return nil
}

// UpdateDetails replaces the name and description.
func (p *Product) UpdateDetails(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Validationf("product name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return domain.Validationf("product name must be at most %d characters", maxNameLen)
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return domain.Validationf("product description must be at most %d characters", maxDescriptionLen)
	}
	p.name = name
	p.description = description
	return nil
}

// IncreaseStock adds quantity units to the stock balance.
func (p *Product) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("quantity to increase must be positive")
	}
	p.stock += quantity
	return nil
}

// DecreaseStock removes quantity units from the stock balance. It fails with
// InsufficientStockError when the remaining balance cannot cover the request,
// which is the safety net for repeated order lines against one product.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("quantity to decrease must be positive")
	}
	if p.stock < quantity {
		return &domain.InsufficientStockError{
			ProductName: p.name,
			Available:   p.stock,
			Requested:   quantity,
		}
	}
	p.stock -= quantity
	return nil
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]*Product, error)
	// GetByID returns ErrNotFound when no product has the given id.
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// GetByIDs returns exactly the subset of products matching ids.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
}
