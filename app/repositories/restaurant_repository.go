package repositories

import (
	"context"
	"errors"

	"github.com/rsharan/dinehub/app/models"
	"gorm.io/gorm"
)

// ErrRestaurantNotFound is returned when a directory lookup misses.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantInfo is the read contract the order engine consumes from the
// directory: existence, activity, and the owning user for authorization.
type RestaurantInfo struct {
	ID       uint   `json:"id"`
	OwnerID  uint   `json:"owner_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// RestaurantDirectory answers restaurant existence/ownership queries.
type RestaurantDirectory struct {
	db *gorm.DB
}

func NewRestaurantDirectory(db *gorm.DB) *RestaurantDirectory {
	return &RestaurantDirectory{db: db}
}

// GetRestaurant returns directory info for id, or ErrRestaurantNotFound.
func (d *RestaurantDirectory) GetRestaurant(ctx context.Context, id uint) (RestaurantInfo, error) {
	var restaurant models.Restaurant
	err := d.db.WithContext(ctx).First(&restaurant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RestaurantInfo{}, ErrRestaurantNotFound
	}
	if err != nil {
		return RestaurantInfo{}, err
	}

	return RestaurantInfo{
		ID:       restaurant.ID,
		OwnerID:  restaurant.OwnerID,
		Name:     restaurant.Name,
		IsActive: restaurant.IsActive,
	}, nil
}
