package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/pkg/orm"
	"gorm.io/gorm"
)

// Sentinel errors translated by the service layer into the apperr taxonomy.
var (
	// ErrOrderNotFound is returned when an order lookup misses.
	ErrOrderNotFound = errors.New("order not found")
	// ErrVersionConflict is returned when a guarded write matched zero rows:
	// another writer committed between our read and our write.
	ErrVersionConflict = errors.New("order version conflict")
)

// OrderRepository owns all order persistence. Scoped queries are the
// authorization boundary at the data layer: every listing carries its
// tenant filter in SQL, so a foreign order can never appear in a result
// set regardless of what the transport layer does.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists an order and its lines as one transaction. Either the
// whole aggregate lands or nothing does — a failed creation leaves no
// half-written lines behind.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// FindByID loads an order with its lines, or ErrOrderNotFound.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Lines").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

// UpdateGuarded applies the given column changes only if the order still
// carries the expected version, bumping the version in the same statement.
// The WHERE id AND version clause is what serializes concurrent writers:
// the loser matches zero rows and gets ErrVersionConflict.
func (r *OrderRepository) UpdateGuarded(ctx context.Context, orderID uint, expectedVersion int64, changes map[string]interface{}) error {
	changes["version"] = expectedVersion + 1
	changes["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", orderID, expectedVersion).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// Delete removes an order (soft delete; lines cascade). The version guard
// applies here too so a delete cannot race a status transition.
func (r *OrderRepository) Delete(ctx context.Context, orderID uint, expectedVersion int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", orderID, expectedVersion).
		Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// scoped returns the base order query with lines preloaded and a stable
// ordering (createdAt ascending, id as tiebreaker).
func (r *OrderRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Lines").
		Order("orders.created_at ASC, orders.id ASC")
}

// ListByRestaurant returns every order placed against one restaurant.
func (r *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.scoped(ctx).Where("orders.restaurant_id = ?", restaurantID).Find(&orders).Error
	return orders, err
}

// ListByOwner returns orders across all restaurants owned by ownerID,
// joined through the restaurant directory.
func (r *OrderRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.ownerQuery(ctx, ownerID).Find(&orders).Error
	return orders, err
}

// ListByOwnerPaged is ListByOwner with zero-based offset pagination and a
// total count alongside the page slice.
func (r *OrderRepository) ListByOwnerPaged(ctx context.Context, ownerID uint, page, perPage int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.Paginate(r.ownerQuery(ctx, ownerID), &orders, page, perPage)
	return orders, pagination, err
}

func (r *OrderRepository) ownerQuery(ctx context.Context, ownerID uint) *gorm.DB {
	return r.scoped(ctx).
		Joins("JOIN restaurants ON restaurants.id = orders.restaurant_id AND restaurants.deleted_at IS NULL").
		Where("restaurants.owner_id = ?", ownerID)
}

// ListByRestaurantBetween returns a restaurant's orders created in the
// half-open range [start, end).
func (r *OrderRepository) ListByRestaurantBetween(ctx context.Context, restaurantID uint, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.scoped(ctx).
		Where("orders.restaurant_id = ? AND orders.created_at >= ? AND orders.created_at < ?", restaurantID, start, end).
		Find(&orders).Error
	return orders, err
}

// ListByClient returns every order a client has placed, across restaurants.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.scoped(ctx).Where("orders.client_id = ?", clientID).Find(&orders).Error
	return orders, err
}

// ListByClientBetween is the client-scoped date range analog, same
// half-open [start, end) semantics.
func (r *OrderRepository) ListByClientBetween(ctx context.Context, clientID uint, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.scoped(ctx).
		Where("orders.client_id = ? AND orders.created_at >= ? AND orders.created_at < ?", clientID, start, end).
		Find(&orders).Error
	return orders, err
}

// ListByStatus returns a restaurant's orders with an exact status match.
func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus, restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.scoped(ctx).
		Where("orders.restaurant_id = ? AND orders.status = ?", restaurantID, status).
		Find(&orders).Error
	return orders, err
}
