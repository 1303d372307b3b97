package services

import (
	"context"
	"testing"

	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/app/repositories"
	"github.com/rsharan/dinehub/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Fixture IDs seeded by newTestEnv.
const (
	ownerID       = uint(1)
	clientID      = uint(2)
	otherClientID = uint(3)
	adminID       = uint(4)
	otherOwnerID  = uint(5)
)

type testEnv struct {
	db      *gorm.DB
	orders  *OrderService
	reviews *ReviewService

	restaurantID      uint
	otherRestaurantID uint
	closedID          uint

	margheritaID uint // 12.50, active
	tiramisuID   uint // 7.33, active
	specialID    uint // 18.00, inactive
	foreignID    uint // belongs to otherRestaurant
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Review{},
	))

	restaurant := models.Restaurant{OwnerID: ownerID, Name: "Trattoria", IsActive: true}
	other := models.Restaurant{OwnerID: otherOwnerID, Name: "Bistro", IsActive: true}
	closed := models.Restaurant{OwnerID: ownerID, Name: "Shut", IsActive: false}
	require.NoError(t, db.Create(&restaurant).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&closed).Error)

	margherita := models.Product{RestaurantID: restaurant.ID, Name: "Margherita", Price: d("12.50"), IsActive: true}
	tiramisu := models.Product{RestaurantID: restaurant.ID, Name: "Tiramisu", Price: d("7.33"), IsActive: true}
	special := models.Product{RestaurantID: restaurant.ID, Name: "Special", Price: d("18.00"), IsActive: false}
	foreign := models.Product{RestaurantID: other.ID, Name: "Croque", Price: d("9.00"), IsActive: true}
	require.NoError(t, db.Create(&margherita).Error)
	require.NoError(t, db.Create(&tiramisu).Error)
	require.NoError(t, db.Create(&special).Error)
	require.NoError(t, db.Create(&foreign).Error)

	orderRepo := repositories.NewOrderRepository(db)
	catalog := repositories.NewCatalogReader(db, 0) // no cache in tests
	directory := repositories.NewRestaurantDirectory(db)
	reviewRepo := repositories.NewReviewRepository(db)

	return &testEnv{
		db:                db,
		orders:            NewOrderService(orderRepo, catalog, directory),
		reviews:           NewReviewService(reviewRepo, directory),
		restaurantID:      restaurant.ID,
		otherRestaurantID: other.ID,
		closedID:          closed.ID,
		margheritaID:      margherita.ID,
		tiramisuID:        tiramisu.ID,
		specialID:         special.ID,
		foreignID:         foreign.ID,
	}
}

func asUser(userID uint, role string) context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{UserID: userID, Role: role})
}

func asClient() context.Context      { return asUser(clientID, auth.RoleClient) }
func asOtherClient() context.Context { return asUser(otherClientID, auth.RoleClient) }
func asOwner() context.Context       { return asUser(ownerID, auth.RoleOwner) }
func asAdmin() context.Context       { return asUser(adminID, auth.RoleAdmin) }

// placeOrder creates a standard two-line order as the client fixture.
func placeOrder(t *testing.T, env *testEnv) OrderView {
	t.Helper()
	order, err := env.orders.Create(asClient(), CreateOrderInput{
		RestaurantID: env.restaurantID,
		Lines: []CreateOrderLineInput{
			{ProductID: env.margheritaID, Quantity: 2},
			{ProductID: env.tiramisuID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	return order
}
