package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
)

// Ledger applies stock movements through the repository's version-checked
// write. Each call performs one read-then-conditional-write cycle; a stale
// version surfaces ports.ErrVersionConflict and the caller decides whether to
// re-attempt. The ledger never blocks other readers between read and write.
type Ledger struct {
	repo ports.Repository
}

// NewLedger wires the ledger with its persistence dependency.
func NewLedger(repo ports.Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Decrement reduces a product's available quantity by qty. It fails with
// domain.ErrInsufficientStock when the latest read shows fewer than qty units,
// and with ports.ErrVersionConflict when another writer got there first.
func (l *Ledger) Decrement(ctx context.Context, productID uuid.UUID, qty int) (ports.StockSnapshot, error) {
	if qty <= 0 {
		return ports.StockSnapshot{}, domain.ErrInvalidQuantity
	}
	snapshot, err := l.repo.StockSnapshot(ctx, productID)
	if err != nil {
		return ports.StockSnapshot{}, err
	}
	if snapshot.Quantity < qty {
		return ports.StockSnapshot{}, fmt.Errorf("%w: product %s has %d, requested %d",
			domain.ErrInsufficientStock, productID, snapshot.Quantity, qty)
	}
	return l.repo.WriteStock(ctx, productID, snapshot.Quantity-qty, snapshot.Version)
}

// Restock returns qty units to a product, used to compensate a transition that
// failed after decrementing some of its items. It is version-checked like any
// other stock write but has no availability precondition.
func (l *Ledger) Restock(ctx context.Context, productID uuid.UUID, qty int) (ports.StockSnapshot, error) {
	if qty <= 0 {
		return ports.StockSnapshot{}, domain.ErrInvalidQuantity
	}
	snapshot, err := l.repo.StockSnapshot(ctx, productID)
	if err != nil {
		return ports.StockSnapshot{}, err
	}
	return l.repo.WriteStock(ctx, productID, snapshot.Quantity+qty, snapshot.Version)
}
