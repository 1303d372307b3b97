package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/rsharan/dinehub/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func makeOrder(t *testing.T, db *gorm.DB, clientID, restaurantID uint) *models.Order {
	t.Helper()
	order := &models.Order{
		ClientID:     clientID,
		RestaurantID: restaurantID,
		Status:       models.StatusPending,
		Total:        price("25.00"),
		Version:      1,
		Lines: []models.OrderLine{
			{ProductID: 1, ProductName: "Margherita", UnitPrice: price("12.50"), Quantity: 2, Subtotal: price("25.00")},
		},
	}
	require.NoError(t, NewOrderRepository(db).Create(context.Background(), order))
	return order
}

func TestCreateAndFindByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	created := makeOrder(t, db, 10, 1)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(10), got.ClientID)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, int64(1), got.Version)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Margherita", got.Lines[0].ProductName)
	assert.True(t, price("25.00").Equal(got.Total))
}

func TestFindByIDMissing(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateGuarded(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := makeOrder(t, db, 10, 1)

	err := repo.UpdateGuarded(ctx, order.ID, 1, map[string]interface{}{
		"status": models.StatusAccepted,
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	assert.Equal(t, int64(2), got.Version, "guarded update bumps the version")
}

func TestUpdateGuardedStaleVersion(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := makeOrder(t, db, 10, 1)

	// First writer wins.
	require.NoError(t, repo.UpdateGuarded(ctx, order.ID, 1, map[string]interface{}{
		"status": models.StatusAccepted,
	}))

	// Second writer still holds version 1 and must lose.
	err := repo.UpdateGuarded(ctx, order.ID, 1, map[string]interface{}{
		"status": models.StatusCancelled,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status, "loser must not overwrite the winner")
}

func TestDeleteGuarded(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := makeOrder(t, db, 10, 1)

	assert.ErrorIs(t, repo.Delete(ctx, order.ID, 99), ErrVersionConflict)

	require.NoError(t, repo.Delete(ctx, order.ID, 1))
	_, err := repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListByRestaurantScoping(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	makeOrder(t, db, 10, 1)
	makeOrder(t, db, 11, 1)
	makeOrder(t, db, 10, 2) // different restaurant, must not leak

	orders, err := repo.ListByRestaurant(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, uint(1), o.RestaurantID)
	}
}

func TestListByOwnerAcrossRestaurants(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Restaurant{OwnerID: 7, Name: "A", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Restaurant{OwnerID: 7, Name: "B", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Restaurant{OwnerID: 8, Name: "C", IsActive: true}).Error)

	makeOrder(t, db, 10, 1)
	makeOrder(t, db, 10, 2)
	makeOrder(t, db, 10, 3) // owned by someone else

	orders, err := repo.ListByOwner(ctx, 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)
}

func TestListByOwnerSkipsRetiredRestaurants(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	restaurant := models.Restaurant{OwnerID: 7, Name: "Closing Down", IsActive: true}
	require.NoError(t, db.Create(&restaurant).Error)
	makeOrder(t, db, 10, restaurant.ID)

	require.NoError(t, db.Delete(&restaurant).Error) // soft delete

	orders, err := repo.ListByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListByOwnerPaged(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Restaurant{OwnerID: 7, Name: "A", IsActive: true}).Error)
	for i := 0; i < 5; i++ {
		makeOrder(t, db, uint(20+i), 1)
	}

	orders, pagination, err := repo.ListByOwnerPaged(ctx, 7, 1, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(5), pagination.Total)
	assert.Equal(t, 3, pagination.Pages)
	assert.Equal(t, 1, pagination.Page)
}

func TestListByRestaurantBetweenHalfOpen(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	at := func(ts time.Time) {
		o := makeOrder(t, db, 10, 1)
		require.NoError(t, db.Model(&models.Order{}).Where("id = ?", o.ID).
			Update("created_at", ts).Error)
	}

	at(start.Add(-time.Second)) // before range
	at(start)                   // exactly start: included
	at(start.Add(24 * time.Hour))
	at(end) // exactly end: excluded

	orders, err := repo.ListByRestaurantBetween(ctx, 1, start, end)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestListByClientBetweenHalfOpen(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	o := makeOrder(t, db, 42, 1)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", o.ID).
		Update("created_at", end).Error)

	orders, err := repo.ListByClientBetween(ctx, 42, start, end)
	require.NoError(t, err)
	assert.Empty(t, orders, "order created exactly at end is outside [start, end)")
}

func TestListByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	makeOrder(t, db, 10, 1)
	accepted := makeOrder(t, db, 11, 1)
	require.NoError(t, repo.UpdateGuarded(ctx, accepted.ID, 1, map[string]interface{}{
		"status": models.StatusAccepted,
	}))

	orders, err := repo.ListByStatus(ctx, models.StatusAccepted, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, accepted.ID, orders[0].ID)
}
