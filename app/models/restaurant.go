package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Restaurant is a tenant. OwnerID is the authorization anchor for every
// restaurant-scoped query.
type Restaurant struct {
	gorm.Model
	OwnerID uint   `gorm:"not null;index" json:"owner_id"`
	Name    string `gorm:"size:255;not null" json:"name"`
	Cuisine string `gorm:"size:100" json:"cuisine"`
	Address string `gorm:"size:255" json:"address"`
	// No default tag: gorm omits zero-value fields that carry one, which
	// would silently persist IsActive=false rows as active.
	IsActive bool `gorm:"not null" json:"is_active"`
}

// Product is one catalog entry. The order engine only ever reads products;
// price and name are snapshotted into order lines at order time, so later
// catalog edits never rewrite history.
type Product struct {
	gorm.Model
	RestaurantID uint            `gorm:"not null;index" json:"restaurant_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	IsActive     bool            `gorm:"not null" json:"is_active"`
}
