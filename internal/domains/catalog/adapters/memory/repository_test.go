package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
)

func TestWriteStock_VersionChecked(t *testing.T) {
	repo := NewRepository()
	product, err := domain.NewProduct(uuid.New(), "charger", "", 19.99, 5)
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), product)
	require.NoError(t, err)

	snapshot, err := repo.StockSnapshot(context.Background(), product.ID)
	require.NoError(t, err)

	updated, err := repo.WriteStock(context.Background(), product.ID, 4, snapshot.Version)
	require.NoError(t, err)
	require.Equal(t, 4, updated.Quantity)
	require.Equal(t, snapshot.Version+1, updated.Version)

	_, err = repo.WriteStock(context.Background(), product.ID, 3, snapshot.Version)
	require.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestWriteStock_RejectsNegativeQuantity(t *testing.T) {
	repo := NewRepository()
	_, err := repo.WriteStock(context.Background(), uuid.New(), -1, 0)
	require.ErrorIs(t, err, domain.ErrNegativeStock)
}

func TestWriteStock_UnknownProduct(t *testing.T) {
	repo := NewRepository()
	_, err := repo.WriteStock(context.Background(), uuid.New(), 1, 0)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

// Many goroutines race conditional decrements on one product; exactly the
// available quantity may be won.
func TestWriteStock_ConcurrentConditionalWrites(t *testing.T) {
	repo := NewRepository()
	product, err := domain.NewProduct(uuid.New(), "headset", "", 59.00, 8)
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), product)
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				snapshot, err := repo.StockSnapshot(context.Background(), product.ID)
				require.NoError(t, err)
				if snapshot.Quantity == 0 {
					return
				}
				_, err = repo.WriteStock(context.Background(), product.ID, snapshot.Quantity-1, snapshot.Version)
				if err == nil {
					wins <- struct{}{}
					return
				}
				require.ErrorIs(t, err, ports.ErrVersionConflict)
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	require.Equal(t, 8, won)

	final, err := repo.StockSnapshot(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, 0, final.Quantity)
}

func TestSave_ClonesAndValidates(t *testing.T) {
	repo := NewRepository()
	product, err := domain.NewProduct(uuid.New(), "mousepad", "", 9.00, 3)
	require.NoError(t, err)

	saved, err := repo.Save(context.Background(), product)
	require.NoError(t, err)
	saved.StockQuantity = 99

	reread, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, 3, reread.StockQuantity)

	product.Name = ""
	_, err = repo.Save(context.Background(), product)
	require.ErrorIs(t, err, domain.ErrEmptyName)
}
