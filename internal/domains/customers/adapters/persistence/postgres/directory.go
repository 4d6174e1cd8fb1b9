package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/ecommerce-api-server/internal/domains/customers/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/customers/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory persists customer profiles in PostgreSQL using GORM.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

type customerRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:customer_id;type:uuid"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;uniqueIndex"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (customerRecord) TableName() string { return "customers" }

func (d *Directory) ByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Customer, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := d.db.WithContext(ctx).First(&record, "owner_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: owner %s", ports.ErrNotFound, ownerID)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (d *Directory) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	record := customerRecord{
		ID:        customer.ID,
		OwnerID:   customer.OwnerID,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
	}
	if err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"first_name": record.FirstName,
				"last_name":  record.LastName,
				"email":      record.Email,
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return d.ByOwner(ctx, record.OwnerID)
}

func (d *Directory) ensureDB() error {
	if d == nil || d.db == nil {
		return errors.New("postgres customer directory not configured")
	}
	return nil
}

func (r customerRecord) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}
