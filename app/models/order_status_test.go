package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusInPreparation, false},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusDelivered, false},

		{StatusAccepted, StatusInPreparation, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusAccepted, StatusReady, false},
		{StatusAccepted, StatusPending, false},

		{StatusInPreparation, StatusReady, true},
		{StatusInPreparation, StatusCancelled, true},
		{StatusInPreparation, StatusDelivered, false},
		{StatusInPreparation, StatusAccepted, false},

		{StatusReady, StatusDelivered, true},
		{StatusReady, StatusCancelled, false},
		{StatusReady, StatusPending, false},

		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusAccepted, false},

		// Self-transitions are never legal.
		{StatusPending, StatusPending, false},
		{StatusDelivered, StatusDelivered, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusAccepted.Terminal())
	assert.False(t, StatusInPreparation.Terminal())
	assert.False(t, StatusReady.Terminal())
}

func TestDeletable(t *testing.T) {
	assert.True(t, StatusPending.Deletable())
	assert.True(t, StatusCancelled.Deletable())
	assert.False(t, StatusAccepted.Deletable())
	assert.False(t, StatusInPreparation.Deletable())
	assert.False(t, StatusReady.Deletable())
	assert.False(t, StatusDelivered.Deletable())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("IN_PREPARATION")
	assert.NoError(t, err)
	assert.Equal(t, StatusInPreparation, status)

	_, err = ParseOrderStatus("pending")
	assert.Error(t, err, "statuses are case sensitive")

	_, err = ParseOrderStatus("SHIPPED")
	assert.Error(t, err)
}
