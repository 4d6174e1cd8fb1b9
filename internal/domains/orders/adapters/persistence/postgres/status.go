package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

var _ ports.StatusCatalog = (*StatusCatalog)(nil)

// StatusCatalog reads the seeded order_statuses table. A missing row is a
// configuration defect surfaced as ErrStatusNotConfigured.
type StatusCatalog struct {
	db *gorm.DB
}

func NewStatusCatalog(db *gorm.DB) *StatusCatalog {
	return &StatusCatalog{db: db}
}

type statusRecord struct {
	ID          uuid.UUID `gorm:"primaryKey;column:status_id;type:uuid"`
	StatusName  string    `gorm:"column:status_name;uniqueIndex"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (statusRecord) TableName() string { return "order_statuses" }

func (c *StatusCatalog) Lookup(ctx context.Context, status domain.Status) (ports.StatusRecord, error) {
	if c == nil || c.db == nil {
		return ports.StatusRecord{}, errors.New("postgres status catalog not configured")
	}
	var record statusRecord
	if err := c.db.WithContext(ctx).First(&record, "status_name = ?", string(status)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StatusRecord{}, fmt.Errorf("%w: %s", ports.ErrStatusNotConfigured, status)
		}
		return ports.StatusRecord{}, err
	}
	return ports.StatusRecord{
		ID:          record.ID,
		Name:        domain.Status(record.StatusName),
		Description: record.Description,
	}, nil
}
