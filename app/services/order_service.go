package services

import (
	"context"
	"time"

	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/app/repositories"
	"github.com/rsharan/dinehub/pkg/apperr"
	"github.com/rsharan/dinehub/pkg/auth"
	"github.com/rsharan/dinehub/pkg/event"
	"github.com/rsharan/dinehub/pkg/logger"
	"github.com/rsharan/dinehub/pkg/metrics"
	"github.com/rsharan/dinehub/pkg/orm"
	"github.com/shopspring/decimal"
)

// Domain event names fired by the order engine.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is the payload of EventOrderCreated.
type OrderCreatedEvent struct {
	OrderID        uint
	ClientID       uint
	RestaurantID   uint
	RestaurantName string
	Total          decimal.Decimal
}

// OrderStatusChangedEvent is the payload of EventOrderStatusChanged.
type OrderStatusChangedEvent struct {
	OrderID      uint
	RestaurantID uint
	From         models.OrderStatus
	To           models.OrderStatus
	ActorID      uint
	At           time.Time
}

// CreateOrderLineInput is one requested product line. Only the product
// reference and quantity are accepted from outside; price and name come
// from the catalog.
type CreateOrderLineInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderInput is the request to place an order.
type CreateOrderInput struct {
	RestaurantID uint                   `json:"restaurant_id"`
	Comments     string                 `json:"comments"`
	Lines        []CreateOrderLineInput `json:"lines"`
}

// OrderService is the order lifecycle and pricing engine. It owns pricing
// (authoritative, snapshotted at creation), the status state machine, the
// deletion guard, and per-tenant authorization of every read and write.
type OrderService struct {
	orders      *repositories.OrderRepository
	catalog     *repositories.CatalogReader
	restaurants *repositories.RestaurantDirectory
}

func NewOrderService(orders *repositories.OrderRepository, catalog *repositories.CatalogReader, restaurants *repositories.RestaurantDirectory) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, restaurants: restaurants}
}

// principal extracts the authenticated identity or fails Forbidden. Routes
// behind the auth middleware always carry one; this is the backstop.
func principal(ctx context.Context) (auth.Principal, error) {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return auth.Principal{}, apperr.Forbidden("authentication required")
	}
	return p, nil
}

// ─────────────────────────── creation ───────────────────────────

// Create places a new order for the authenticated client. Every line is
// resolved against the catalog before anything is written: one bad line
// rejects the whole order. Prices and names are frozen into the lines so
// later catalog edits cannot rewrite history.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return OrderView{}, err
	}

	if len(in.Lines) == 0 {
		return OrderView{}, apperr.Validation("order must contain at least one line")
	}
	for i, line := range in.Lines {
		if line.Quantity < 1 {
			return OrderView{}, apperr.Validation("line %d: quantity must be at least 1, got %d", i, line.Quantity)
		}
	}

	restaurant, err := s.restaurants.GetRestaurant(ctx, in.RestaurantID)
	if err == repositories.ErrRestaurantNotFound {
		return OrderView{}, apperr.NotFound("restaurant %d not found", in.RestaurantID)
	}
	if err != nil {
		return OrderView{}, apperr.Unavailable(err)
	}
	if !restaurant.IsActive {
		return OrderView{}, apperr.Validation("restaurant %d is not accepting orders", in.RestaurantID)
	}

	// Resolve all lines before persisting anything.
	lines := make([]models.OrderLine, 0, len(in.Lines))
	for _, req := range in.Lines {
		snap, err := s.catalog.GetProduct(ctx, req.ProductID)
		if err == repositories.ErrProductNotFound {
			return OrderView{}, apperr.NotFound("product %d not found", req.ProductID)
		}
		if err != nil {
			return OrderView{}, apperr.Unavailable(err)
		}
		if snap.RestaurantID != in.RestaurantID {
			return OrderView{}, apperr.Validation("product %d does not belong to restaurant %d", req.ProductID, in.RestaurantID)
		}
		if !snap.IsActive {
			return OrderView{}, apperr.Validation("product %q is currently unavailable", snap.Name)
		}

		lines = append(lines, models.OrderLine{
			ProductID:   snap.ID,
			ProductName: snap.Name,
			UnitPrice:   snap.Price,
			Quantity:    req.Quantity,
			Subtotal:    snap.Price.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
		})
	}

	order := models.Order{
		ClientID:     p.UserID,
		RestaurantID: in.RestaurantID,
		Status:       models.StatusPending,
		Comments:     in.Comments,
		Total:        models.ComputeTotal(lines),
		Version:      1,
		Lines:        lines,
	}

	err = withRetry(ctx, func() error {
		return s.orders.Create(ctx, &order)
	})
	if err != nil {
		return OrderView{}, err
	}

	logger.WithCtx(ctx).Info("order created",
		"order_id", order.ID, "restaurant_id", order.RestaurantID, "total", order.Total.String())
	event.Fire(EventOrderCreated, OrderCreatedEvent{
		OrderID:        order.ID,
		ClientID:       order.ClientID,
		RestaurantID:   order.RestaurantID,
		RestaurantName: restaurant.Name,
		Total:          order.Total,
	})

	return toOrderView(order), nil
}

// ─────────────────────────── reads ───────────────────────────

// Get returns one order, visible only to the ordering client, the owner of
// the restaurant it was placed against, or an admin.
func (s *OrderService) Get(ctx context.Context, orderID uint) (OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return OrderView{}, err
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return OrderView{}, err
	}
	if err := s.authorizeView(ctx, p, order); err != nil {
		return OrderView{}, err
	}
	return toOrderView(order), nil
}

// ListMine returns the authenticated client's own orders.
func (s *OrderService) ListMine(ctx context.Context) ([]OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	err = withRetry(ctx, func() error {
		var e error
		orders, e = s.orders.ListByClient(ctx, p.UserID)
		return e
	})
	if err != nil {
		return nil, err
	}
	return toOrderViews(orders), nil
}

// ListMineBetween returns the client's orders created in [start, end).
func (s *OrderService) ListMineBetween(ctx context.Context, start, end time.Time) ([]OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	var orders []models.Order
	err = withRetry(ctx, func() error {
		var e error
		orders, e = s.orders.ListByClientBetween(ctx, p.UserID, start, end)
		return e
	})
	if err != nil {
		return nil, err
	}
	return toOrderViews(orders), nil
}

// ListByRestaurant returns every order placed against a restaurant. Only the
// restaurant's owner (or an admin) may read it.
func (s *OrderService) ListByRestaurant(ctx context.Context, restaurantID uint) ([]OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRestaurant(ctx, p, restaurantID); err != nil {
		return nil, err
	}

	var orders []models.Order
	err = withRetry(ctx, func() error {
		var e error
		orders, e = s.orders.ListByRestaurant(ctx, restaurantID)
		return e
	})
	if err != nil {
		return nil, err
	}
	return toOrderViews(orders), nil
}

// ListByRestaurantBetween is ListByRestaurant restricted to [start, end).
func (s *OrderService) ListByRestaurantBetween(ctx context.Context, restaurantID uint, start, end time.Time) ([]OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if err := s.authorizeRestaurant(ctx, p, restaurantID); err != nil {
		return nil, err
	}

	var orders []models.Order
	err = withRetry(ctx, func() error {
		var e error
		orders, e = s.orders.ListByRestaurantBetween(ctx, restaurantID, start, end)
		return e
	})
	if err != nil {
		return nil, err
	}
	return toOrderViews(orders), nil
}

// ListByStatus returns a restaurant's orders in one exact status. Owner or
// admin only.
func (s *OrderService) ListByStatus(ctx context.Context, restaurantID uint, status string) ([]OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, apperr.Validation("unknown order status %q", status)
	}
	if err := s.authorizeRestaurant(ctx, p, restaurantID); err != nil {
		return nil, err
	}

	var orders []models.Order
	err = withRetry(ctx, func() error {
		var e error
		orders, e = s.orders.ListByStatus(ctx, parsed, restaurantID)
		return e
	})
	if err != nil {
		return nil, err
	}
	return toOrderViews(orders), nil
}

// ListAllForOwner returns every order across every restaurant the
// authenticated owner holds, unpaged. Dashboards that want pages use
// ListForOwner instead.
func (s *OrderService) ListAllForOwner(ctx context.Context) ([]OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != auth.RoleOwner && p.Role != auth.RoleAdmin {
		return nil, apperr.Forbidden("owner role required")
	}

	var orders []models.Order
	err = withRetry(ctx, func() error {
		var e error
		orders, e = s.orders.ListByOwner(ctx, p.UserID)
		return e
	})
	if err != nil {
		return nil, err
	}
	return toOrderViews(orders), nil
}

// ListForOwner returns a page of orders across every restaurant the
// authenticated owner holds, with a total count for the client to page by.
func (s *OrderService) ListForOwner(ctx context.Context, page, perPage int) ([]OrderView, orm.Pagination, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	if p.Role != auth.RoleOwner && p.Role != auth.RoleAdmin {
		return nil, orm.Pagination{}, apperr.Forbidden("owner role required")
	}

	var (
		orders     []models.Order
		pagination orm.Pagination
	)
	err = withRetry(ctx, func() error {
		var e error
		orders, pagination, e = s.orders.ListByOwnerPaged(ctx, p.UserID, page, perPage)
		return e
	})
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return toOrderViews(orders), pagination, nil
}

// ─────────────────────────── mutations ───────────────────────────

// UpdateStatus moves an order along the state machine. Restaurant owners
// (and admins) may apply any legal transition; the ordering client may only
// cancel. The write is version-guarded: when a concurrent mutation wins the
// race the caller gets Conflict and must re-read before retrying.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, newStatus string) (OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return OrderView{}, err
	}
	target, err := models.ParseOrderStatus(newStatus)
	if err != nil {
		return OrderView{}, apperr.Validation("unknown order status %q", newStatus)
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return OrderView{}, err
	}

	switch {
	case p.Role == auth.RoleAdmin:
	case order.ClientID == p.UserID:
		// Clients may only pull their own order back to CANCELLED.
		if target != models.StatusCancelled {
			return OrderView{}, apperr.Forbidden("clients may only cancel their own orders")
		}
	default:
		if err := s.authorizeRestaurant(ctx, p, order.RestaurantID); err != nil {
			return OrderView{}, err
		}
	}

	if !order.Status.CanTransitionTo(target) {
		return OrderView{}, apperr.InvalidTransition("cannot transition order %d from %s to %s", orderID, order.Status, target)
	}

	err = withRetry(ctx, func() error {
		return s.orders.UpdateGuarded(ctx, orderID, order.Version, map[string]interface{}{
			"status": target,
		})
	})
	if err == repositories.ErrVersionConflict {
		metrics.TransitionConflicts.Inc()
		// Lost the race. Re-read: if the transition is illegal against the
		// state the winner left behind, say so; otherwise tell the caller
		// to retry against current state.
		if current, rerr := s.orders.FindByID(ctx, orderID); rerr == nil && !current.Status.CanTransitionTo(target) {
			return OrderView{}, apperr.InvalidTransition("cannot transition order %d from %s to %s", orderID, current.Status, target)
		}
		return OrderView{}, apperr.Conflict("order %d was modified concurrently, re-read and retry", orderID)
	}
	if err != nil {
		return OrderView{}, err
	}

	logger.WithCtx(ctx).Info("order status changed",
		"order_id", orderID, "from", order.Status.String(), "to", target.String())
	event.Fire(EventOrderStatusChanged, OrderStatusChangedEvent{
		OrderID:      orderID,
		RestaurantID: order.RestaurantID,
		From:         order.Status,
		To:           target,
		ActorID:      p.UserID,
		At:           time.Now().UTC(),
	})

	order.Status = target
	order.Version++
	order.UpdatedAt = time.Now()
	return toOrderView(order), nil
}

// UpdateComments edits the free-text note on an order. Only the ordering
// client (or an admin) may edit, and only while the order is still open.
// The same version guard applies so a comment edit cannot clobber a racing
// status change.
func (s *OrderService) UpdateComments(ctx context.Context, orderID uint, comments string) (OrderView, error) {
	p, err := principal(ctx)
	if err != nil {
		return OrderView{}, err
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return OrderView{}, err
	}
	if order.ClientID != p.UserID && p.Role != auth.RoleAdmin {
		return OrderView{}, apperr.Forbidden("only the ordering client may edit order comments")
	}
	if order.Status.Terminal() {
		return OrderView{}, apperr.Validation("order %d is %s and can no longer be edited", orderID, order.Status)
	}

	err = withRetry(ctx, func() error {
		return s.orders.UpdateGuarded(ctx, orderID, order.Version, map[string]interface{}{
			"comments": comments,
		})
	})
	if err == repositories.ErrVersionConflict {
		metrics.TransitionConflicts.Inc()
		return OrderView{}, apperr.Conflict("order %d was modified concurrently, re-read and retry", orderID)
	}
	if err != nil {
		return OrderView{}, err
	}

	order.Comments = comments
	order.Version++
	order.UpdatedAt = time.Now()
	return toOrderView(order), nil
}

// Delete removes an order. Only orders that never entered the kitchen
// (PENDING) or were cancelled may go; everything else stays for the books.
func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ClientID != p.UserID && p.Role != auth.RoleAdmin {
		return apperr.Forbidden("only the ordering client may delete this order")
	}
	if !order.Status.Deletable() {
		return apperr.NotDeletable("order %d is %s and cannot be deleted", orderID, order.Status)
	}

	err = withRetry(ctx, func() error {
		return s.orders.Delete(ctx, orderID, order.Version)
	})
	if err == repositories.ErrVersionConflict {
		metrics.TransitionConflicts.Inc()
		if current, rerr := s.orders.FindByID(ctx, orderID); rerr == nil && !current.Status.Deletable() {
			return apperr.NotDeletable("order %d is %s and cannot be deleted", orderID, current.Status)
		}
		return apperr.Conflict("order %d was modified concurrently, re-read and retry", orderID)
	}
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("order deleted", "order_id", orderID, "status", order.Status.String())
	return nil
}

// ─────────────────────────── helpers ───────────────────────────

func (s *OrderService) loadOrder(ctx context.Context, orderID uint) (models.Order, error) {
	var order models.Order
	err := withRetry(ctx, func() error {
		var e error
		order, e = s.orders.FindByID(ctx, orderID)
		return e
	})
	if err == repositories.ErrOrderNotFound {
		return models.Order{}, apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// authorizeView allows the ordering client, the restaurant owner, or admin.
func (s *OrderService) authorizeView(ctx context.Context, p auth.Principal, order models.Order) error {
	if p.Role == auth.RoleAdmin || order.ClientID == p.UserID {
		return nil
	}
	return s.authorizeRestaurant(ctx, p, order.RestaurantID)
}

// authorizeRestaurant allows the restaurant's owner or admin.
func (s *OrderService) authorizeRestaurant(ctx context.Context, p auth.Principal, restaurantID uint) error {
	if p.Role == auth.RoleAdmin {
		return nil
	}
	restaurant, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err == repositories.ErrRestaurantNotFound {
		return apperr.NotFound("restaurant %d not found", restaurantID)
	}
	if err != nil {
		return apperr.Unavailable(err)
	}
	if restaurant.OwnerID != p.UserID {
		return apperr.Forbidden("you do not own restaurant %d", restaurantID)
	}
	return nil
}

// validateRange rejects inverted or empty date ranges. The range itself is
// half-open: [start, end).
func validateRange(start, end time.Time) error {
	if !start.Before(end) {
		return apperr.Validation("invalid date range: start must be before end")
	}
	return nil
}
