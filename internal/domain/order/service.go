package order

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/product-order-api/internal/domain"
	"github.com/xenking/product-order-api/internal/domain/product"
)

// Line is one requested order line: a product reference and a quantity.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Service encapsulates the order placement workflow.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates an order Service with the required repositories.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
	}
}

// CreateOrder validates the request, checks and decrements product stock,
// and persists the order plus all stock updates in one transaction. On any
// failure nothing is persisted: the mutated products are in-memory copies
// that are simply discarded.
func (s *Service) CreateOrder(ctx context.Context, customerName string, lines []Line) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, domain.Validationf("customer name is required")
	}
	if len(lines) == 0 {
		return nil, domain.Validationf("order must contain at least one item")
	}

	// Distinct product ids, first-seen order.
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, ln := range lines {
		if _, ok := seen[ln.ProductID]; ok {
			continue
		}
		seen[ln.ProductID] = struct{}{}
		ids = append(ids, ln.ProductID)
	}

	// Batch fetch. Any unknown id aborts the entire order.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	if len(fetched) != len(ids) {
		return nil, domain.Validationf("one or more products were not found")
	}

	byID := make(map[uuid.UUID]*product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID()] = p
	}

	// Pre-check every line against the stock level as fetched. Repeated
	// lines for one product are each checked independently here; the running
	// balance is enforced by DecreaseStock below.
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, domain.Validationf("item quantity must be greater than zero")
		}
		if p := byID[ln.ProductID]; p.Stock() < ln.Quantity {
			return nil, domain.Validationf("insufficient stock for product %q", p.Name())
		}
	}

	o, err := New(customerName)
	if err != nil {
		return nil, err
	}

	for _, ln := range lines {
		p := byID[ln.ProductID]
		if err := p.DecreaseStock(ln.Quantity); err != nil {
			return nil, err
		}
		if err := o.AddItem(p.ID(), p.Name(), p.Price(), ln.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Create(ctx, o, fetched); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// GetByID returns the stored order with its items, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}
