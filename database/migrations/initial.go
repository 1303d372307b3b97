package migrations

import (
	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_restaurants_table", &CreateRestaurantsTable{})
	migration.Register("20260101000002_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000003_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260101000004_create_reviews_table", &CreateReviewsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: restaurants --------

type CreateRestaurantsTable struct{}

func (m *CreateRestaurantsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Restaurant{})
}

func (m *CreateRestaurantsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("restaurants")
}

// -------- 0003: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0004: orders + order_lines --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderLine{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_lines", "orders")
}

// -------- 0005: reviews --------

type CreateReviewsTable struct{}

func (m *CreateReviewsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Review{})
}

func (m *CreateReviewsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("reviews")
}
