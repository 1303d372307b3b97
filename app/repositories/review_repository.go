package repositories

import (
	"context"
	"errors"

	"github.com/rsharan/dinehub/app/models"
	"gorm.io/gorm"
)

// ErrReviewNotFound is returned when a review lookup misses.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository stores one score+comment per (restaurant, user) pair.
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a new review. The composite unique index backs up the
// service-level duplicate check.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByID loads a review, or ErrReviewNotFound.
func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Review{}, ErrReviewNotFound
	}
	return review, err
}

// Exists reports whether user has already reviewed restaurant.
func (r *ReviewRepository) Exists(ctx context.Context, restaurantID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("restaurant_id = ? AND user_id = ?", restaurantID, userID).
		Count(&count).Error
	return count > 0, err
}

// Save persists changes to an existing review.
func (r *ReviewRepository) Save(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, id).Error
}

// ListByRestaurant returns a restaurant's reviews, most recent first.
func (r *ReviewRepository) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

// Aggregate returns the review count and score sum for a restaurant.
// The average is derived on demand by the service — never stored, so it
// can never go stale.
func (r *ReviewRepository) Aggregate(ctx context.Context, restaurantID uint) (count int64, sum int64, err error) {
	type agg struct {
		Count int64
		Sum   *int64
	}
	var a agg
	err = r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) as count, SUM(score) as sum").
		Where("restaurant_id = ?", restaurantID).
		Scan(&a).Error
	if err != nil {
		return 0, 0, err
	}
	if a.Sum != nil {
		sum = *a.Sum
	}
	return a.Count, sum, nil
}
