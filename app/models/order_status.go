package models

import "fmt"

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	StatusPending       OrderStatus = "PENDING"
	StatusAccepted      OrderStatus = "ACCEPTED"
	StatusInPreparation OrderStatus = "IN_PREPARATION"
	StatusReady         OrderStatus = "READY"
	StatusDelivered     OrderStatus = "DELIVERED"
	StatusCancelled     OrderStatus = "CANCELLED"
)

// transitions is the full adjacency table of legal status changes.
// Anything not listed here is rejected — there are no other code paths
// that decide transition legality.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:       {StatusAccepted, StatusCancelled},
	StatusAccepted:      {StatusInPreparation, StatusCancelled},
	StatusInPreparation: {StatusReady, StatusCancelled},
	StatusReady:         {StatusDelivered},
	StatusDelivered:     {},
	StatusCancelled:     {},
}

// ParseOrderStatus validates an externally supplied status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// CanTransitionTo reports whether the state machine allows moving from s
// to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Deletable reports whether an order in this status may be removed.
// In-flight and fulfilled orders are kept for the audit trail.
func (s OrderStatus) Deletable() bool {
	return s == StatusPending || s == StatusCancelled
}

func (s OrderStatus) String() string { return string(s) }
