package models

import "gorm.io/gorm"

// Review is one user's score + comment for a restaurant. The composite
// unique index enforces at most one review per (restaurant, user) pair at
// the storage layer; the service pre-checks it for a friendlier error.
type Review struct {
	gorm.Model
	RestaurantID uint   `gorm:"not null;index;uniqueIndex:idx_reviews_restaurant_user,priority:1" json:"restaurant_id"`
	UserID       uint   `gorm:"not null;uniqueIndex:idx_reviews_restaurant_user,priority:2" json:"user_id"`
	Score        int    `gorm:"not null" json:"score"`
	Comments     string `gorm:"type:text" json:"comments"`
}

// Score bounds for a review.
const (
	MinReviewScore = 1
	MaxReviewScore = 5
)
