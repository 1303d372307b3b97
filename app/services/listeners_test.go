package services

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/pkg/event"
	"github.com/rsharan/dinehub/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The dispatcher is process-global, so each test registers its handlers and
// flushes them on cleanup.

func TestOrderEventsReachListeners(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(event.Flush)

	var created []OrderCreatedEvent
	var changed []OrderStatusChangedEvent
	event.Listen(EventOrderCreated, func(payload interface{}) {
		created = append(created, payload.(OrderCreatedEvent))
	})
	event.Listen(EventOrderStatusChanged, func(payload interface{}) {
		changed = append(changed, payload.(OrderStatusChangedEvent))
	})

	order := placeOrder(t, env)

	require.Len(t, created, 1)
	assert.Equal(t, order.ID, created[0].OrderID)
	assert.Equal(t, clientID, created[0].ClientID)
	assert.Equal(t, env.restaurantID, created[0].RestaurantID)
	assert.Equal(t, "Trattoria", created[0].RestaurantName)
	assert.True(t, d("46.99").Equal(created[0].Total))

	_, err := env.orders.UpdateStatus(asOwner(), order.ID, "ACCEPTED")
	require.NoError(t, err)

	require.Len(t, changed, 1)
	assert.Equal(t, order.ID, changed[0].OrderID)
	assert.Equal(t, models.StatusPending, changed[0].From)
	assert.Equal(t, models.StatusAccepted, changed[0].To)
	assert.Equal(t, ownerID, changed[0].ActorID)
	assert.False(t, changed[0].At.IsZero())
}

func TestReviewEventReachesListener(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(event.Flush)

	var got []ReviewCreatedEvent
	event.Listen(EventReviewCreated, func(payload interface{}) {
		got = append(got, payload.(ReviewCreatedEvent))
	})

	review, err := env.reviews.Add(asClient(), env.restaurantID, ReviewInput{Score: 4, Comments: "solid"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, review.ID, got[0].ReviewID)
	assert.Equal(t, env.restaurantID, got[0].RestaurantID)
	assert.Equal(t, clientID, got[0].UserID)
	assert.Equal(t, 4, got[0].Score)
}

// TestRegisteredHandlersDriveCounters wires the boot-time handlers and checks
// the domain counters move when orders and reviews flow, so the counters are
// proven to hang off the dispatcher rather than the services.
func TestRegisteredHandlersDriveCounters(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(event.Flush)
	RegisterEventHandlers()

	ordersBefore := testutil.ToFloat64(metrics.OrdersCreated.WithLabelValues("Trattoria"))
	transitionsBefore := testutil.ToFloat64(metrics.StatusTransitions.WithLabelValues("PENDING", "ACCEPTED"))
	reviewsBefore := testutil.ToFloat64(metrics.ReviewsCreated)

	order := placeOrder(t, env)
	_, err := env.orders.UpdateStatus(asOwner(), order.ID, "ACCEPTED")
	require.NoError(t, err)
	_, err = env.reviews.Add(asClient(), env.restaurantID, ReviewInput{Score: 5})
	require.NoError(t, err)

	assert.Equal(t, ordersBefore+1, testutil.ToFloat64(metrics.OrdersCreated.WithLabelValues("Trattoria")))
	assert.Equal(t, transitionsBefore+1, testutil.ToFloat64(metrics.StatusTransitions.WithLabelValues("PENDING", "ACCEPTED")))
	assert.Equal(t, reviewsBefore+1, testutil.ToFloat64(metrics.ReviewsCreated))
}
