package services

import (
	"context"
	"errors"

	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/app/repositories"
	"github.com/rsharan/dinehub/pkg/apperr"
	"github.com/rsharan/dinehub/pkg/auth"
	"github.com/rsharan/dinehub/pkg/event"
	"github.com/rsharan/dinehub/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventReviewCreated fires after a review is accepted into the ledger.
const EventReviewCreated = "review.created"

// ReviewCreatedEvent is the payload of EventReviewCreated.
type ReviewCreatedEvent struct {
	ReviewID     uint
	RestaurantID uint
	UserID       uint
	Score        int
}

// ReviewInput is the request to create or update a review.
type ReviewInput struct {
	Score    int    `json:"score"`
	Comments string `json:"comments"`
}

// ReviewService maintains the review ledger: at most one review per
// (restaurant, user) pair, scores bounded 1..5, averages derived on demand.
type ReviewService struct {
	reviews     *repositories.ReviewRepository
	restaurants *repositories.RestaurantDirectory
}

func NewReviewService(reviews *repositories.ReviewRepository, restaurants *repositories.RestaurantDirectory) *ReviewService {
	return &ReviewService{reviews: reviews, restaurants: restaurants}
}

func validateScore(score int) error {
	if score < models.MinReviewScore || score > models.MaxReviewScore {
		return apperr.Validation("score must be between %d and %d, got %d",
			models.MinReviewScore, models.MaxReviewScore, score)
	}
	return nil
}

// Add records the authenticated user's review of a restaurant. A second
// review of the same restaurant by the same user is rejected; use Update to
// change an existing one.
func (s *ReviewService) Add(ctx context.Context, restaurantID uint, in ReviewInput) (ReviewView, error) {
	p, err := principal(ctx)
	if err != nil {
		return ReviewView{}, err
	}
	if err := validateScore(in.Score); err != nil {
		return ReviewView{}, err
	}

	if _, err := s.restaurants.GetRestaurant(ctx, restaurantID); err != nil {
		if err == repositories.ErrRestaurantNotFound {
			return ReviewView{}, apperr.NotFound("restaurant %d not found", restaurantID)
		}
		return ReviewView{}, apperr.Unavailable(err)
	}

	exists, err := s.reviews.Exists(ctx, restaurantID, p.UserID)
	if err != nil {
		return ReviewView{}, apperr.Unavailable(err)
	}
	if exists {
		return ReviewView{}, apperr.Duplicate("you have already reviewed restaurant %d", restaurantID)
	}

	review := models.Review{
		RestaurantID: restaurantID,
		UserID:       p.UserID,
		Score:        in.Score,
		Comments:     in.Comments,
	}
	err = withRetry(ctx, func() error {
		return s.reviews.Create(ctx, &review)
	})
	if err != nil {
		// The unique index catches the race the pre-check cannot: two
		// first-reviews from the same user landing at once.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ReviewView{}, apperr.Duplicate("you have already reviewed restaurant %d", restaurantID)
		}
		return ReviewView{}, err
	}

	logger.WithCtx(ctx).Info("review created",
		"review_id", review.ID, "restaurant_id", restaurantID, "score", in.Score)
	event.Fire(EventReviewCreated, ReviewCreatedEvent{
		ReviewID:     review.ID,
		RestaurantID: restaurantID,
		UserID:       p.UserID,
		Score:        in.Score,
	})

	return toReviewView(review), nil
}

// Update rewrites the score and comments of an existing review. Only its
// author (or an admin) may touch it.
func (s *ReviewService) Update(ctx context.Context, reviewID uint, in ReviewInput) (ReviewView, error) {
	p, err := principal(ctx)
	if err != nil {
		return ReviewView{}, err
	}
	if err := validateScore(in.Score); err != nil {
		return ReviewView{}, err
	}

	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return ReviewView{}, err
	}
	if review.UserID != p.UserID && p.Role != auth.RoleAdmin {
		return ReviewView{}, apperr.Forbidden("only the author may edit this review")
	}

	review.Score = in.Score
	review.Comments = in.Comments
	err = withRetry(ctx, func() error {
		return s.reviews.Save(ctx, &review)
	})
	if err != nil {
		return ReviewView{}, err
	}
	return toReviewView(review), nil
}

// Delete removes a review from the ledger. Author or admin only.
func (s *ReviewService) Delete(ctx context.Context, reviewID uint) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}

	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != p.UserID && p.Role != auth.RoleAdmin {
		return apperr.Forbidden("only the author may delete this review")
	}

	return withRetry(ctx, func() error {
		return s.reviews.Delete(ctx, reviewID)
	})
}

// ListByRestaurant returns a restaurant's reviews, newest first. Reviews are
// public reads; no ownership check.
func (s *ReviewService) ListByRestaurant(ctx context.Context, restaurantID uint) ([]ReviewView, error) {
	var reviews []models.Review
	err := withRetry(ctx, func() error {
		var e error
		reviews, e = s.reviews.ListByRestaurant(ctx, restaurantID)
		return e
	})
	if err != nil {
		return nil, err
	}

	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, toReviewView(r))
	}
	return views, nil
}

// Summary computes a restaurant's review standing on demand. The average is
// exact decimal division rounded to two places; a restaurant with no reviews
// reports a zero average, not an error.
func (s *ReviewService) Summary(ctx context.Context, restaurantID uint) (RestaurantSummary, error) {
	restaurant, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err == repositories.ErrRestaurantNotFound {
		return RestaurantSummary{}, apperr.NotFound("restaurant %d not found", restaurantID)
	}
	if err != nil {
		return RestaurantSummary{}, apperr.Unavailable(err)
	}

	var count, sum int64
	err = withRetry(ctx, func() error {
		var e error
		count, sum, e = s.reviews.Aggregate(ctx, restaurantID)
		return e
	})
	if err != nil {
		return RestaurantSummary{}, err
	}

	avg := decimal.Zero
	if count > 0 {
		avg = decimal.NewFromInt(sum).Div(decimal.NewFromInt(count)).Round(2)
	}

	return RestaurantSummary{
		RestaurantID: restaurantID,
		Name:         restaurant.Name,
		ReviewCount:  count,
		AverageScore: avg,
	}, nil
}

func (s *ReviewService) loadReview(ctx context.Context, reviewID uint) (models.Review, error) {
	var review models.Review
	err := withRetry(ctx, func() error {
		var e error
		review, e = s.reviews.FindByID(ctx, reviewID)
		return e
	})
	if err == repositories.ErrReviewNotFound {
		return models.Review{}, apperr.NotFound("review %d not found", reviewID)
	}
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}
