package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their items in PostgreSQL using GORM. The
// order row and its item rows are written inside one database transaction so
// placement is atomic.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID                 uuid.UUID `gorm:"primaryKey;column:order_id;type:uuid"`
	CustomerID         uuid.UUID `gorm:"column:customer_id;type:uuid;index"`
	Status             string    `gorm:"column:status;type:varchar(32);index:idx_orders_status_date"`
	OrderDate          time.Time `gorm:"column:order_date;index:idx_orders_status_date"`
	TotalAmount        float64   `gorm:"column:total_amount"`
	ShippingCountry    string    `gorm:"column:shipping_country"`
	ShippingCity       string    `gorm:"column:shipping_city"`
	ShippingPostalCode string    `gorm:"column:shipping_postal_code"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID              uuid.UUID `gorm:"primaryKey;column:order_item_id;type:uuid"`
	OrderID         uuid.UUID `gorm:"column:order_id;type:uuid;index"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;index"`
	Quantity        int       `gorm:"column:quantity"`
	PriceAtPurchase float64   `gorm:"column:price_at_purchase"`
}

func (orderItemRecord) TableName() string { return "order_items" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toOrderRecord(order)
	items := toItemRecords(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "order_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
		}
		return nil, err
	}
	items, err := r.loadItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return record.toDomain(items[id]), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("order_id = ?", order.ID).
		Updates(map[string]any{
			"status":     string(order.Status),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, order.ID)
	}
	return r.GetByID(ctx, order.ID)
}

func (r *Repository) List(ctx context.Context, page ports.Page) ([]*domain.Order, error) {
	return r.Find(ctx, domain.Filter{}, page)
}

// Find compiles the present filter fields into WHERE fragments combined with
// AND, ordered by order date descending.
func (r *Repository) Find(ctx context.Context, filter domain.Filter, page ports.Page) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if filter.HasCustomerID() {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.HasStatus() {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.HasMinOrderDate() {
		query = query.Where("order_date >= ?", *filter.MinOrderDate)
	}
	if filter.HasMaxOrderDate() {
		query = query.Where("order_date <= ?", *filter.MaxOrderDate)
	}
	if filter.HasMinAmount() {
		query = query.Where("total_amount >= ?", *filter.MinAmount)
	}
	if filter.HasMaxAmount() {
		query = query.Where("total_amount <= ?", *filter.MaxAmount)
	}
	if filter.HasShippingCountry() {
		query = query.Where("LOWER(shipping_country) = ?", strings.ToLower(strings.TrimSpace(filter.ShippingCountry)))
	}
	if filter.HasShippingCity() {
		query = query.Where("LOWER(shipping_city) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(filter.ShippingCity))+"%")
	}
	query = query.Order("order_date DESC")
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}

	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(items[records[i].ID]))
	}
	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	grouped := make(map[uuid.UUID][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Find(&records).Error; err != nil {
		return nil, err
	}
	for _, record := range records {
		grouped[record.OrderID] = append(grouped[record.OrderID], domain.OrderItem{
			ID:              record.ID,
			OrderID:         record.OrderID,
			ProductID:       record.ProductID,
			Quantity:        record.Quantity,
			PriceAtPurchase: record.PriceAtPurchase,
		})
	}
	return grouped, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		Status:             string(order.Status),
		OrderDate:          order.OrderDate,
		TotalAmount:        order.TotalAmount,
		ShippingCountry:    order.Shipping.Country,
		ShippingCity:       order.Shipping.City,
		ShippingPostalCode: order.Shipping.PostalCode,
	}
}

func toItemRecords(order *domain.Order) []orderItemRecord {
	records := make([]orderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		records = append(records, orderItemRecord{
			ID:              item.ID,
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return records
}

func (r orderRecord) toDomain(items []domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		Status:      domain.Status(r.Status),
		OrderDate:   r.OrderDate,
		TotalAmount: r.TotalAmount,
		Shipping: domain.ShippingAddress{
			Country:    r.ShippingCountry,
			City:       r.ShippingCity,
			PostalCode: r.ShippingPostalCode,
		},
		Items: items,
	}
}
