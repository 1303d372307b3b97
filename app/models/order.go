package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the aggregate root for a client's purchase request against one
// restaurant. ClientID and RestaurantID are immutable after creation; Total
// always equals the sum of the line subtotals and is never accepted from
// external input.
type Order struct {
	gorm.Model
	ClientID     uint            `gorm:"not null;index" json:"client_id"`
	RestaurantID uint            `gorm:"not null;index;index:idx_orders_restaurant_created,priority:1" json:"restaurant_id"`
	Status       OrderStatus     `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Comments     string          `gorm:"type:text" json:"comments"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	// Version guards concurrent mutations: every status/comment write runs
	// as UPDATE ... WHERE id = ? AND version = ?, so exactly one of two
	// racing writers wins.
	Version int64       `gorm:"not null;default:1" json:"-"`
	Lines   []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
}

// OrderLine is an immutable snapshot of one product at order time.
// ProductName and UnitPrice are denormalized on purpose: catalog edits must
// not silently rewrite historical orders.
type OrderLine struct {
	gorm.Model
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductID   uint            `gorm:"not null" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}

// ComputeTotal sums the line subtotals in decimal arithmetic, rounded to
// two places. Binary floating point is never involved.
func ComputeTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total.Round(2)
}
