package product

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

// Property: any valid (name, description, price>=0, stock>=0) constructs a
// product whose fields equal the inputs exactly.
func TestProperty_NewPreservesAttributes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("constructor preserves all attributes", prop.ForAll(
		func(name, description string, cents int64, stock int) bool {
			price := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))

			p, err := New(name, description, price, stock)
			if err != nil {
				return false
			}
			return p.Name() == name &&
				p.Description() == description &&
				p.Price().Equal(price) &&
				p.Stock() == stock
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) <= 200 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) <= 1000 }),
		gen.Int64Range(0, 1_000_000),
		gen.IntRange(0, 1_000_000),
	))

	properties.Property("negative price is always rejected", prop.ForAll(
		func(cents int64, stock int) bool {
			price := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
			_, err := New("Widget", "", price, stock)
			return err != nil
		},
		gen.Int64Range(-1_000_000, -1),
		gen.IntRange(0, 1_000),
	))

	properties.TestingRun(t)
}

// Property: increase followed by the same decrease always restores the
// original stock level.
func TestProperty_StockRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("increase then decrease restores stock", prop.ForAll(
		func(initial, delta int) bool {
			p, err := New("Widget", "", decimal.NewFromInt(1), initial)
			if err != nil {
				return false
			}
			if err := p.IncreaseStock(delta); err != nil {
				return false
			}
			if err := p.DecreaseStock(delta); err != nil {
				return false
			}
			return p.Stock() == initial
		},
		gen.IntRange(0, 100_000),
		gen.IntRange(1, 100_000),
	))

	properties.TestingRun(t)
}
