package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM. Stock writes compile
// to a conditional UPDATE guarded by the version column, so the database is
// the arbiter of concurrent writers.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID            uuid.UUID `gorm:"primaryKey;column:product_id;type:uuid"`
	Name          string    `gorm:"column:name"`
	Description   string    `gorm:"column:description;type:text"`
	Price         float64   `gorm:"column:price"`
	StockQuantity int       `gorm:"column:stock_quantity"`
	Version       int64     `gorm:"column:version"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"description": record.Description,
				"price":       record.Price,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) StockSnapshot(ctx context.Context, id uuid.UUID) (ports.StockSnapshot, error) {
	if err := r.ensureDB(); err != nil {
		return ports.StockSnapshot{}, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).
		Select("product_id", "stock_quantity", "version").
		First(&record, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StockSnapshot{}, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
		}
		return ports.StockSnapshot{}, err
	}
	return ports.StockSnapshot{ProductID: record.ID, Quantity: record.StockQuantity, Version: record.Version}, nil
}

// WriteStock applies `UPDATE products SET stock_quantity = ?, version = version + 1
// WHERE product_id = ? AND version = ?`. Zero affected rows means either the
// product vanished or the version is stale; a re-read disambiguates.
func (r *Repository) WriteStock(ctx context.Context, id uuid.UUID, newQuantity int, expectedVersion int64) (ports.StockSnapshot, error) {
	if err := r.ensureDB(); err != nil {
		return ports.StockSnapshot{}, err
	}
	if newQuantity < 0 {
		return ports.StockSnapshot{}, domain.ErrNegativeStock
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("product_id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"stock_quantity": newQuantity,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return ports.StockSnapshot{}, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.StockSnapshot(ctx, id)
		if err != nil {
			return ports.StockSnapshot{}, err
		}
		return ports.StockSnapshot{}, fmt.Errorf("%w: product %s expected version %d, stored %d",
			ports.ErrVersionConflict, id, expectedVersion, current.Version)
	}
	return ports.StockSnapshot{ProductID: id, Quantity: newQuantity, Version: expectedVersion + 1}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Version:       product.Version,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
