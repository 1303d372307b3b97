package services

import (
	"time"

	"github.com/rsharan/dinehub/app/models"
	"github.com/shopspring/decimal"
)

// OrderLineView is the read projection of one order line.
type OrderLineView struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderView is the read projection of an order. Totals stay decimal all the
// way to JSON (marshalled as a quoted fixed-point string), and the version is
// exposed so clients can send it back on mutations.
type OrderView struct {
	ID           uint            `json:"id"`
	ClientID     uint            `json:"client_id"`
	RestaurantID uint            `json:"restaurant_id"`
	Status       string          `json:"status"`
	Comments     string          `json:"comments,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Version      int64           `json:"version"`
	Lines        []OrderLineView `json:"lines"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toOrderView(o models.Order) OrderView {
	lines := make([]OrderLineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineView{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal,
		})
	}
	return OrderView{
		ID:           o.ID,
		ClientID:     o.ClientID,
		RestaurantID: o.RestaurantID,
		Status:       o.Status.String(),
		Comments:     o.Comments,
		Total:        o.Total,
		Version:      o.Version,
		Lines:        lines,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toOrderViews(orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views
}

// ReviewView is the read projection of a review.
type ReviewView struct {
	ID           uint      `json:"id"`
	RestaurantID uint      `json:"restaurant_id"`
	UserID       uint      `json:"user_id"`
	Score        int       `json:"score"`
	Comments     string    `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toReviewView(r models.Review) ReviewView {
	return ReviewView{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		UserID:       r.UserID,
		Score:        r.Score,
		Comments:     r.Comments,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// RestaurantSummary aggregates a restaurant's review standing on demand.
// The average is never stored; it is recomputed from the ledger each time.
type RestaurantSummary struct {
	RestaurantID uint            `json:"restaurant_id"`
	Name         string          `json:"name"`
	ReviewCount  int64           `json:"review_count"`
	AverageScore decimal.Decimal `json:"average_score"`
}
