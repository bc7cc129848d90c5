package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/product-order-api/internal/domain/order"
	"github.com/xenking/product-order-api/internal/domain/product"
)

// setupPool starts a disposable Postgres container, applies the schema, and
// returns a ready pool. Skipped in -short runs and when Docker is missing.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	return pool
}

func mustProduct(t *testing.T, name, price string, stock int) *product.Product {
	t.Helper()
	p, err := product.New(name, "", decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	return p
}

func TestProductRepository_RoundTrip(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	repo := NewProductRepository(pool)

	p := mustProduct(t, "Widget", "9.99", 5)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, p.ID(), got.ID())
	assert.Equal(t, "Widget", got.Name())
	assert.True(t, decimal.RequireFromString("9.99").Equal(got.Price()))
	assert.Equal(t, 5, got.Stock())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductRepository_GetByID_Absent(t *testing.T) {
	pool := setupPool(t)
	repo := NewProductRepository(pool)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestProductRepository_GetByIDs_ReturnsMatchingSubset(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	repo := NewProductRepository(pool)

	p1 := mustProduct(t, "A", "1.00", 1)
	p2 := mustProduct(t, "B", "2.00", 2)
	require.NoError(t, repo.Create(ctx, p1))
	require.NoError(t, repo.Create(ctx, p2))

	got, err := repo.GetByIDs(ctx, []uuid.UUID{p1.ID(), p2.ID(), uuid.New()})
	require.NoError(t, err)
	assert.Len(t, got, 2, "unknown ids are silently absent from the result")
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	products := NewProductRepository(pool)
	orders := NewOrderRepository(pool)

	p1 := mustProduct(t, "Widget", "10.00", 10)
	p2 := mustProduct(t, "Gadget", "2.50", 4)
	require.NoError(t, products.Create(ctx, p1))
	require.NoError(t, products.Create(ctx, p2))

	o, err := order.New("Alice")
	require.NoError(t, err)
	require.NoError(t, p1.DecreaseStock(3))
	require.NoError(t, o.AddItem(p1.ID(), p1.Name(), p1.Price(), 3))
	require.NoError(t, p2.DecreaseStock(2))
	require.NoError(t, o.AddItem(p2.ID(), p2.Name(), p2.Price(), 2))

	require.NoError(t, orders.Create(ctx, o, []*product.Product{p1, p2}))

	// Stock updates landed together with the order.
	got1, err := products.GetByID(ctx, p1.ID())
	require.NoError(t, err)
	assert.Equal(t, 7, got1.Stock())
	got2, err := products.GetByID(ctx, p2.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, got2.Stock())

	// The stored order reads back with items in insertion order.
	stored, err := orders.GetByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.CustomerName())
	assert.WithinDuration(t, o.CreatedAt(), stored.CreatedAt(), time.Second)
	items := stored.Items()
	require.Len(t, items, 2)
	assert.Equal(t, p1.ID(), items[0].ProductID())
	assert.Equal(t, p2.ID(), items[1].ProductID())
	assert.True(t, decimal.RequireFromString("35.00").Equal(stored.Total()))
}

func TestOrderRepository_Create_RollsBackOnUnknownProduct(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	products := NewProductRepository(pool)
	orders := NewOrderRepository(pool)

	p1 := mustProduct(t, "Widget", "10.00", 10)
	require.NoError(t, products.Create(ctx, p1))

	// A stock update for a product missing from the table fails the
	// transaction; the order insert must roll back with it.
	ghost := mustProduct(t, "Ghost", "1.00", 1)

	o, err := order.New("Alice")
	require.NoError(t, err)
	require.NoError(t, p1.DecreaseStock(1))
	require.NoError(t, o.AddItem(p1.ID(), p1.Name(), p1.Price(), 1))

	err = orders.Create(ctx, o, []*product.Product{p1, ghost})
	require.Error(t, err)

	got, err := products.GetByID(ctx, p1.ID())
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock(), "stock update rolled back")

	_, err = orders.GetByID(ctx, o.ID())
	require.ErrorIs(t, err, order.ErrNotFound, "order insert rolled back")
}

func TestOrderRepository_GetByID_Absent(t *testing.T) {
	pool := setupPool(t)
	orders := NewOrderRepository(pool)

	_, err := orders.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, order.ErrNotFound)
}
