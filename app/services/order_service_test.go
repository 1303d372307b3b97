package services

import (
	"sync"
	"testing"
	"time"

	"github.com/rsharan/dinehub/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderAuthoritativePricing(t *testing.T) {
	env := newTestEnv(t)

	order := placeOrder(t, env)

	assert.Equal(t, "PENDING", order.Status)
	assert.Equal(t, clientID, order.ClientID)
	assert.Equal(t, int64(1), order.Version)
	require.Len(t, order.Lines, 2)

	assert.Equal(t, "Margherita", order.Lines[0].ProductName)
	assert.True(t, d("12.50").Equal(order.Lines[0].UnitPrice))
	assert.True(t, d("25.00").Equal(order.Lines[0].Subtotal))
	assert.True(t, d("21.99").Equal(order.Lines[1].Subtotal))

	// 2×12.50 + 3×7.33, exact decimal arithmetic.
	assert.True(t, d("46.99").Equal(order.Total), "got %s", order.Total)
}

func TestCreateOrderSnapshotSurvivesCatalogEdit(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	// Reprice the product after the order was placed.
	require.NoError(t, env.db.Table("products").
		Where("id = ?", env.margheritaID).
		Update("price", d("99.99")).Error)

	got, err := env.orders.Get(asClient(), order.ID)
	require.NoError(t, err)
	assert.True(t, d("12.50").Equal(got.Lines[0].UnitPrice), "order keeps the price at order time")
	assert.True(t, d("46.99").Equal(got.Total))
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		in   CreateOrderInput
		kind apperr.Kind
	}{
		{
			name: "empty lines",
			in:   CreateOrderInput{RestaurantID: env.restaurantID},
			kind: apperr.KindValidation,
		},
		{
			name: "zero quantity",
			in: CreateOrderInput{RestaurantID: env.restaurantID,
				Lines: []CreateOrderLineInput{{ProductID: env.margheritaID, Quantity: 0}}},
			kind: apperr.KindValidation,
		},
		{
			name: "negative quantity",
			in: CreateOrderInput{RestaurantID: env.restaurantID,
				Lines: []CreateOrderLineInput{{ProductID: env.margheritaID, Quantity: -1}}},
			kind: apperr.KindValidation,
		},
		{
			name: "unknown restaurant",
			in: CreateOrderInput{RestaurantID: 9999,
				Lines: []CreateOrderLineInput{{ProductID: env.margheritaID, Quantity: 1}}},
			kind: apperr.KindNotFound,
		},
		{
			name: "inactive restaurant",
			in: CreateOrderInput{RestaurantID: env.closedID,
				Lines: []CreateOrderLineInput{{ProductID: env.margheritaID, Quantity: 1}}},
			kind: apperr.KindValidation,
		},
		{
			name: "unknown product",
			in: CreateOrderInput{RestaurantID: env.restaurantID,
				Lines: []CreateOrderLineInput{{ProductID: 9999, Quantity: 1}}},
			kind: apperr.KindNotFound,
		},
		{
			name: "inactive product",
			in: CreateOrderInput{RestaurantID: env.restaurantID,
				Lines: []CreateOrderLineInput{{ProductID: env.specialID, Quantity: 1}}},
			kind: apperr.KindValidation,
		},
		{
			name: "product from another restaurant",
			in: CreateOrderInput{RestaurantID: env.restaurantID,
				Lines: []CreateOrderLineInput{{ProductID: env.foreignID, Quantity: 1}}},
			kind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.orders.Create(asClient(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestCreateOrderAllOrNothing(t *testing.T) {
	env := newTestEnv(t)

	// One good line plus one bad line: nothing may be written.
	_, err := env.orders.Create(asClient(), CreateOrderInput{
		RestaurantID: env.restaurantID,
		Lines: []CreateOrderLineInput{
			{ProductID: env.margheritaID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, env.db.Table("orders").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, env.db.Table("order_lines").Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateStatusFullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	version := order.Version
	for _, next := range []string{"ACCEPTED", "IN_PREPARATION", "READY", "DELIVERED"} {
		updated, err := env.orders.UpdateStatus(asOwner(), order.ID, next)
		require.NoError(t, err, "transition to %s", next)
		assert.Equal(t, next, updated.Status)
		assert.Equal(t, version+1, updated.Version, "each transition bumps the version")
		version = updated.Version
	}
}

func TestUpdateStatusIllegalTransitions(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		setup []string // transitions applied first
		to    string
	}{
		{"skip ahead", nil, "READY"},
		{"skip to delivered", nil, "DELIVERED"},
		{"backwards", []string{"ACCEPTED"}, "PENDING"},
		{"ready to cancelled", []string{"ACCEPTED", "IN_PREPARATION", "READY"}, "CANCELLED"},
		{"out of terminal delivered", []string{"ACCEPTED", "IN_PREPARATION", "READY", "DELIVERED"}, "CANCELLED"},
		{"out of terminal cancelled", []string{"CANCELLED"}, "ACCEPTED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := placeOrder(t, env)
			for _, s := range tt.setup {
				_, err := env.orders.UpdateStatus(asOwner(), order.ID, s)
				require.NoError(t, err)
			}
			_, err := env.orders.UpdateStatus(asOwner(), order.ID, tt.to)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
		})
	}
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	_, err := env.orders.UpdateStatus(asOwner(), order.ID, "SHIPPED")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestClientMayOnlyCancel(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	_, err := env.orders.UpdateStatus(asClient(), order.ID, "ACCEPTED")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	updated, err := env.orders.UpdateStatus(asClient(), order.ID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", updated.Status)
}

func TestUpdateStatusForeignClientForbidden(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	_, err := env.orders.UpdateStatus(asOtherClient(), order.ID, "CANCELLED")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestUpdateStatusForeignOwnerForbidden(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	_, err := env.orders.UpdateStatus(asUser(otherOwnerID, "owner"), order.ID, "ACCEPTED")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestDeleteGuard(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	// PENDING deletes fine.
	require.NoError(t, env.orders.Delete(asClient(), order.ID))

	// In-flight orders refuse deletion.
	order = placeOrder(t, env)
	_, err := env.orders.UpdateStatus(asOwner(), order.ID, "ACCEPTED")
	require.NoError(t, err)
	_, err = env.orders.UpdateStatus(asOwner(), order.ID, "IN_PREPARATION")
	require.NoError(t, err)

	err = env.orders.Delete(asClient(), order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotDeletable, apperr.KindOf(err))

	// Cancel, then deletion is allowed again.
	_, err = env.orders.UpdateStatus(asOwner(), order.ID, "CANCELLED")
	require.NoError(t, err)
	require.NoError(t, env.orders.Delete(asClient(), order.ID))

	_, err = env.orders.Get(asClient(), order.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteForbiddenForOthers(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	err := env.orders.Delete(asOtherClient(), order.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestGetAuthorization(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	_, err := env.orders.Get(asClient(), order.ID)
	assert.NoError(t, err, "ordering client")

	_, err = env.orders.Get(asOwner(), order.ID)
	assert.NoError(t, err, "restaurant owner")

	_, err = env.orders.Get(asAdmin(), order.ID)
	assert.NoError(t, err, "admin")

	_, err = env.orders.Get(asOtherClient(), order.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), "unrelated client")

	_, err = env.orders.Get(asUser(otherOwnerID, "owner"), order.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), "unrelated owner")
}

func TestListMineIsScoped(t *testing.T) {
	env := newTestEnv(t)
	placeOrder(t, env)
	placeOrder(t, env)

	mine, err := env.orders.ListMine(asClient())
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := env.orders.ListMine(asOtherClient())
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestListByRestaurantAuthorization(t *testing.T) {
	env := newTestEnv(t)
	placeOrder(t, env)

	orders, err := env.orders.ListByRestaurant(asOwner(), env.restaurantID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = env.orders.ListByRestaurant(asClient(), env.restaurantID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = env.orders.ListByRestaurant(asUser(otherOwnerID, "owner"), env.restaurantID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestListForOwner(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 5; i++ {
		placeOrder(t, env)
	}

	orders, pagination, err := env.orders.ListForOwner(asOwner(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(5), pagination.Total)
	assert.Equal(t, 3, pagination.Pages)

	_, _, err = env.orders.ListForOwner(asClient(), 0, 2)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestListAllForOwner(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		placeOrder(t, env)
	}

	// Orders against a restaurant the owner does not hold stay invisible.
	_, err := env.orders.Create(asClient(), CreateOrderInput{
		RestaurantID: env.otherRestaurantID,
		Lines:        []CreateOrderLineInput{{ProductID: env.foreignID, Quantity: 1}},
	})
	require.NoError(t, err)

	orders, err := env.orders.ListAllForOwner(asOwner())
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	_, err = env.orders.ListAllForOwner(asClient())
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestListMineBetweenRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now()
	_, err := env.orders.ListMineBetween(asClient(), now, now.Add(-time.Hour))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.orders.ListMineBetween(asClient(), now, now)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "empty range")
}

func TestListByStatusRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.ListByStatus(asOwner(), env.restaurantID, "BOGUS")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateComments(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	updated, err := env.orders.UpdateComments(asClient(), order.ID, "no onions please")
	require.NoError(t, err)
	assert.Equal(t, "no onions please", updated.Comments)
	assert.Equal(t, order.Version+1, updated.Version)

	_, err = env.orders.UpdateComments(asOtherClient(), order.ID, "hijack")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = env.orders.UpdateStatus(asClient(), order.ID, "CANCELLED")
	require.NoError(t, err)
	_, err = env.orders.UpdateComments(asClient(), order.ID, "too late")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "terminal orders are frozen")
}

func TestConcurrentTransitionExactlyOneWinner(t *testing.T) {
	env := newTestEnv(t)
	order := placeOrder(t, env)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.orders.UpdateStatus(asOwner(), order.ID, "ACCEPTED")
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		losses++
		kind := apperr.KindOf(err)
		// The loser either lost the guarded write (Conflict) or read the
		// winner's committed state first (ACCEPTED -> ACCEPTED is illegal).
		assert.Contains(t, []apperr.Kind{apperr.KindConflict, apperr.KindInvalidTransition}, kind)
	}
	assert.Equal(t, 1, wins, "exactly one writer must win")
	assert.Equal(t, 1, losses)

	got, err := env.orders.Get(asOwner(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", got.Status)
	assert.Equal(t, int64(2), got.Version, "version advanced exactly once")
}
