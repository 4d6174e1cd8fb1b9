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

	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
	"github.com/Apurer/ecommerce-api-server/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("catalog_test"),
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

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newStoredProduct(t *testing.T, repo *Repository, stock int) *domain.Product {
	t.Helper()
	saved, err := repo.Save(context.Background(), &domain.Product{
		ID:            uuid.New(),
		Name:          "Mechanical Keyboard",
		Description:   "tenkeyless",
		Price:         129.99,
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return saved
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	saved := newStoredProduct(t, repo, 10)

	fetched, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "Mechanical Keyboard", fetched.Name)
	assert.Equal(t, 10, fetched.StockQuantity)

	_, err = repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_SaveUpdatesExistingProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	saved := newStoredProduct(t, repo, 10)

	saved.Price = 99.99
	updated, err := repo.Save(context.Background(), saved)
	require.NoError(t, err)
	assert.InDelta(t, 99.99, updated.Price, 0.001)
	assert.Equal(t, saved.ID, updated.ID)
}

func TestRepository_WriteStockGuardsVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	product := newStoredProduct(t, repo, 10)

	snapshot, err := repo.StockSnapshot(ctx, product.ID)
	require.NoError(t, err)

	written, err := repo.WriteStock(ctx, product.ID, snapshot.Quantity-3, snapshot.Version)
	require.NoError(t, err)
	assert.Equal(t, 7, written.Quantity)
	assert.Equal(t, snapshot.Version+1, written.Version)

	// The original version token is now stale.
	_, err = repo.WriteStock(ctx, product.ID, 5, snapshot.Version)
	require.ErrorIs(t, err, ports.ErrVersionConflict)

	_, err = repo.WriteStock(ctx, uuid.New(), 5, 0)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = repo.WriteStock(ctx, product.ID, -1, written.Version)
	require.ErrorIs(t, err, domain.ErrNegativeStock)
}

func TestRepository_WriteStockConcurrentWriters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	product := newStoredProduct(t, repo, 10)

	snapshot, err := repo.StockSnapshot(ctx, product.ID)
	require.NoError(t, err)

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := repo.WriteStock(ctx, product.ID, snapshot.Quantity-1, snapshot.Version)
			results <- err
		}()
	}

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, ports.ErrVersionConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}
