package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/pkg/cache"
	"github.com/rsharan/dinehub/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a catalog lookup misses.
var ErrProductNotFound = errors.New("product not found")

// ProductSnapshot is the read contract the order engine consumes from the
// catalog: current price, activity flag, and owning restaurant. It is what
// gets frozen into an OrderLine.
type ProductSnapshot struct {
	ID           uint            `json:"id"`
	RestaurantID uint            `json:"restaurant_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	IsActive     bool            `json:"is_active"`
}

// CatalogReader resolves products for order creation. Lookups may be served
// from Redis within a short staleness window; the price is snapshotted at
// order time regardless, so a slightly stale read is a policy choice, not a
// correctness problem.
type CatalogReader struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewCatalogReader creates a reader with the given cache staleness window.
// A zero ttl disables caching.
func NewCatalogReader(db *gorm.DB, ttl time.Duration) *CatalogReader {
	return &CatalogReader{db: db, ttl: ttl}
}

// GetProduct returns the current snapshot for productID, or
// ErrProductNotFound.
func (r *CatalogReader) GetProduct(ctx context.Context, productID uint) (ProductSnapshot, error) {
	key := fmt.Sprintf("catalog:product:%d", productID)

	if r.ttl > 0 {
		var snap ProductSnapshot
		if cache.Get(ctx, key, &snap) {
			metrics.CatalogCacheHits.Inc()
			return snap, nil
		}
		metrics.CatalogCacheMisses.Inc()
	}

	var product models.Product
	err := r.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductSnapshot{}, ErrProductNotFound
	}
	if err != nil {
		return ProductSnapshot{}, err
	}

	snap := ProductSnapshot{
		ID:           product.ID,
		RestaurantID: product.RestaurantID,
		Name:         product.Name,
		Price:        product.Price,
		IsActive:     product.IsActive,
	}

	if r.ttl > 0 {
		_ = cache.Set(ctx, key, snap, r.ttl)
	}

	return snap, nil
}
