package seeders

import (
	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/pkg/auth"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("demo_users", SeedDemoUsers)
	Register("demo_restaurants", SeedDemoRestaurants)
}

// SeedDemoUsers inserts one owner and one client for local development.
// Idempotent: existing emails are left alone.
func SeedDemoUsers(db *gorm.DB) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Olivia Owner", Email: "owner@dinehub.local", Password: hash, Role: auth.RoleOwner},
		{Name: "Casey Client", Email: "client@dinehub.local", Password: hash, Role: auth.RoleClient},
	}
	for i := range users {
		res := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i])
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

// SeedDemoRestaurants inserts a demo restaurant with a small menu, owned by
// the seeded owner account.
func SeedDemoRestaurants(db *gorm.DB) error {
	var owner models.User
	if err := db.Where("email = ?", "owner@dinehub.local").First(&owner).Error; err != nil {
		return err
	}

	restaurant := models.Restaurant{
		OwnerID:  owner.ID,
		Name:     "Trattoria Demo",
		Cuisine:  "Italian",
		Address:  "1 Demo Street",
		IsActive: true,
	}
	if err := db.Where("name = ?", restaurant.Name).FirstOrCreate(&restaurant).Error; err != nil {
		return err
	}

	products := []models.Product{
		{RestaurantID: restaurant.ID, Name: "Margherita", Description: "Tomato, mozzarella, basil", Price: decimal.RequireFromString("12.50"), IsActive: true},
		{RestaurantID: restaurant.ID, Name: "Tiramisu", Description: "House dessert", Price: decimal.RequireFromString("7.33"), IsActive: true},
		{RestaurantID: restaurant.ID, Name: "Seasonal Special", Description: "Currently off the menu", Price: decimal.RequireFromString("18.00"), IsActive: false},
	}
	for i := range products {
		res := db.Where("restaurant_id = ? AND name = ?", restaurant.ID, products[i].Name).FirstOrCreate(&products[i])
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}
