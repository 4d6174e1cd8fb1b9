// Package migrations applies the relational schema for all bounded contexts
// and seeds reference data.
package migrations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&customerRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&statusRecord{},
	)
}

// Seed inserts the order status reference rows. Existing rows are left
// untouched so redeployments never rewrite their IDs.
func Seed(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	statuses := []statusRecord{
		{ID: uuid.New(), StatusName: "PENDING", Description: "Order placed, stock not yet committed"},
		{ID: uuid.New(), StatusName: "PROCESSED", Description: "Stock decremented and order accepted"},
		{ID: uuid.New(), StatusName: "CANCELLED", Description: "Order abandoned before processing"},
	}
	return db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "status_name"}},
			DoNothing: true,
		}).
		Create(&statuses).Error
}

// Product schema mirrors the catalog Postgres adapter.
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

// Customer schema mirrors the customers Postgres adapter.
type customerRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:customer_id;type:uuid"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;uniqueIndex"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Order schema mirrors the orders Postgres adapter.
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

// Status schema mirrors the order status catalog adapter.
type statusRecord struct {
	ID          uuid.UUID `gorm:"primaryKey;column:status_id;type:uuid"`
	StatusName  string    `gorm:"column:status_name;uniqueIndex"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (statusRecord) TableName() string { return "order_statuses" }
