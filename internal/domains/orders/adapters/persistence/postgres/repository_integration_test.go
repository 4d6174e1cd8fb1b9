//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
	"github.com/Apurer/ecommerce-api-server/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, migrations.Run(db))
	require.NoError(t, migrations.Seed(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newStoredOrder(t *testing.T, repo *Repository, customerID uuid.UUID, orderDate time.Time, total float64, city string) *domain.Order {
	t.Helper()
	order := &domain.Order{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Status:      domain.StatusPending,
		OrderDate:   orderDate,
		TotalAmount: total,
		Shipping:    domain.ShippingAddress{Country: "PL", City: city, PostalCode: "00-001"},
		Items: []domain.OrderItem{
			{ID: uuid.New(), OrderID: uuid.Nil, ProductID: uuid.New(), Quantity: 2, PriceAtPurchase: total / 2},
		},
	}
	order.Items[0].OrderID = order.ID
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	saved := newStoredOrder(t, repo, uuid.New(), time.Now().UTC(), 40, "Warsaw")

	fetched, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, saved.Items[0].ProductID, fetched.Items[0].ProductID)
	assert.InDelta(t, 20, fetched.Items[0].PriceAtPurchase, 0.001)
}

func TestRepository_CreateIsAtomic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	first := newStoredOrder(t, repo, uuid.New(), time.Now().UTC(), 10, "Warsaw")

	// A duplicate order ID makes the order insert fail; no item rows may leak.
	conflicting := &domain.Order{
		ID:         first.ID,
		CustomerID: uuid.New(),
		Status:     domain.StatusPending,
		OrderDate:  time.Now().UTC(),
		Items: []domain.OrderItem{
			{ID: uuid.New(), OrderID: first.ID, ProductID: uuid.New(), Quantity: 1, PriceAtPurchase: 5},
		},
	}
	_, err := repo.Create(context.Background(), conflicting)
	require.Error(t, err)

	var itemCount int64
	require.NoError(t, db.Model(&orderItemRecord{}).Where("order_id = ?", first.ID).Count(&itemCount).Error)
	assert.EqualValues(t, 1, itemCount)
}

func TestRepository_UpdateStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	order := newStoredOrder(t, repo, uuid.New(), time.Now().UTC(), 10, "Warsaw")

	order.Status = domain.StatusProcessed
	updated, err := repo.UpdateStatus(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, updated.Status)

	missing := &domain.Order{ID: uuid.New(), Status: domain.StatusCancelled}
	_, err = repo.UpdateStatus(context.Background(), missing)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_FindCompilesFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	customerID := uuid.New()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	newStoredOrder(t, repo, customerID, base, 10, "Warsaw")
	middle := newStoredOrder(t, repo, customerID, base.Add(time.Hour), 20, "Krakow")
	newest := newStoredOrder(t, repo, uuid.New(), base.Add(2*time.Hour), 30, "Warsaw")

	all, err := repo.List(ctx, ports.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)

	mine, err := repo.Find(ctx, domain.Filter{CustomerID: &customerID}, ports.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	minAmount := 15.0
	maxAmount := 25.0
	banded, err := repo.Find(ctx, domain.Filter{MinAmount: &minAmount, MaxAmount: &maxAmount}, ports.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, banded, 1)
	assert.Equal(t, middle.ID, banded[0].ID)

	city, err := repo.Find(ctx, domain.Filter{ShippingCity: "WARS"}, ports.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, city, 2)

	paged, err := repo.Find(ctx, domain.Filter{}, ports.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, middle.ID, paged[0].ID)
}

func TestStatusCatalog_SeededLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	catalog := NewStatusCatalog(db)
	ctx := context.Background()

	for _, status := range []domain.Status{domain.StatusPending, domain.StatusProcessed, domain.StatusCancelled} {
		record, err := catalog.Lookup(ctx, status)
		require.NoError(t, err)
		assert.Equal(t, status, record.Name)
	}

	require.NoError(t, db.Where("status_name = ?", "PROCESSED").Delete(&statusRecord{}).Error)
	_, err := catalog.Lookup(ctx, domain.StatusProcessed)
	require.ErrorIs(t, err, ports.ErrStatusNotConfigured)
}
