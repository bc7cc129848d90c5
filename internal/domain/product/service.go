package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes catalog operations over the product repository.
type Service struct {
	products Repository
}

// NewService creates a catalog Service backed by the given repository.
func NewService(products Repository) *Service {
	return &Service{products: products}
}

// Create validates, persists, and returns a new product.
func (s *Service) Create(ctx context.Context, name, description string, price decimal.Decimal, stock int) (*Product, error) {
	p, err := New(name, description, price, stock)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return p, nil
}

// List returns all known products in the store's natural order. It performs
// no mutation and no tracking of the returned entities.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	ps, err := s.products.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return ps, nil
}

// GetByID returns the product or ErrNotFound. A missing id is an explicit
// absent result, not a hard failure.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.products.GetByID(ctx, id)
}
