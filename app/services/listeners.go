package services

import (
	"github.com/rsharan/dinehub/pkg/audit"
	"github.com/rsharan/dinehub/pkg/event"
	"github.com/rsharan/dinehub/pkg/metrics"
)

// RegisterEventHandlers subscribes the metric counters and the audit trail
// to the domain events. Call it once at boot, before the first request is
// served. The services only fire events; everything observable hangs off
// these listeners.
func RegisterEventHandlers() {
	event.Listen(EventOrderCreated, func(payload interface{}) {
		ev, ok := payload.(OrderCreatedEvent)
		if !ok {
			return
		}
		metrics.OrdersCreated.WithLabelValues(ev.RestaurantName).Inc()
	})

	event.Listen(EventOrderStatusChanged, func(payload interface{}) {
		ev, ok := payload.(OrderStatusChangedEvent)
		if !ok {
			return
		}
		metrics.StatusTransitions.WithLabelValues(ev.From.String(), ev.To.String()).Inc()
		audit.Record(audit.Entry{
			OrderID:      ev.OrderID,
			RestaurantID: ev.RestaurantID,
			FromStatus:   ev.From.String(),
			ToStatus:     ev.To.String(),
			ActorID:      ev.ActorID,
			At:           ev.At,
		})
	})

	event.Listen(EventReviewCreated, func(payload interface{}) {
		if _, ok := payload.(ReviewCreatedEvent); !ok {
			return
		}
		metrics.ReviewsCreated.Inc()
	})
}
