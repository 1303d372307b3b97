package controllers

import (
	"net/http"

	"github.com/rsharan/dinehub/app/services"
	"github.com/rsharan/dinehub/pkg/apperr"
	"github.com/rsharan/dinehub/pkg/bind"
	"github.com/rsharan/dinehub/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create handles POST /api/orders.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrderInput
	if err := bind.JSON(r, &in); err != nil {
		response.AppError(w, apperr.Validation("%v", err))
		return
	}

	order, err := c.service.Create(r.Context(), in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, order)
}

// Get handles GET /api/orders/{id}.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	order, err := c.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, order)
}

// ListMine handles GET /api/orders, optionally filtered by ?from=&to=.
func (c *OrderController) ListMine(w http.ResponseWriter, r *http.Request) {
	from, hasFrom, err := queryTime(r, "from")
	if err != nil {
		response.AppError(w, err)
		return
	}
	to, hasTo, err := queryTime(r, "to")
	if err != nil {
		response.AppError(w, err)
		return
	}

	var orders []services.OrderView
	if hasFrom || hasTo {
		if !hasFrom || !hasTo {
			response.AppError(w, apperr.Validation("from and to must be supplied together"))
			return
		}
		orders, err = c.service.ListMineBetween(r.Context(), from, to)
	} else {
		orders, err = c.service.ListMine(r.Context())
	}
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, orders)
}

// ListByRestaurant handles GET /api/restaurants/{id}/orders with optional
// ?status= or ?from=&to= filters.
func (c *OrderController) ListByRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		orders, err := c.service.ListByStatus(r.Context(), restaurantID, status)
		if err != nil {
			response.AppError(w, err)
			return
		}
		response.Success(w, orders)
		return
	}

	from, hasFrom, err := queryTime(r, "from")
	if err != nil {
		response.AppError(w, err)
		return
	}
	to, hasTo, err := queryTime(r, "to")
	if err != nil {
		response.AppError(w, err)
		return
	}

	var orders []services.OrderView
	if hasFrom || hasTo {
		if !hasFrom || !hasTo {
			response.AppError(w, apperr.Validation("from and to must be supplied together"))
			return
		}
		orders, err = c.service.ListByRestaurantBetween(r.Context(), restaurantID, from, to)
	} else {
		orders, err = c.service.ListByRestaurant(r.Context(), restaurantID)
	}
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, orders)
}

// ListForOwner handles GET /api/owner/orders, a feed across every restaurant
// the authenticated owner holds. With ?page= or ?per_page= the response is
// paginated; without either it returns the whole feed.
func (c *OrderController) ListForOwner(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("per_page") {
		orders, err := c.service.ListAllForOwner(r.Context())
		if err != nil {
			response.AppError(w, err)
			return
		}
		response.Success(w, orders)
		return
	}

	page := queryInt(r, "page", 0)
	perPage := queryInt(r, "per_page", 0)

	orders, pagination, err := c.service.ListForOwner(r.Context(), page, perPage)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Paginated(w, orders, pagination)
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	var in struct {
		Status string `json:"status"`
	}
	if err := bind.JSON(r, &in); err != nil {
		response.AppError(w, apperr.Validation("%v", err))
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, order)
}

// UpdateComments handles PATCH /api/orders/{id}/comments.
func (c *OrderController) UpdateComments(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	var in struct {
		Comments string `json:"comments"`
	}
	if err := bind.JSON(r, &in); err != nil {
		response.AppError(w, apperr.Validation("%v", err))
		return
	}

	order, err := c.service.UpdateComments(r.Context(), id, in.Comments)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, order)
}

// Delete handles DELETE /api/orders/{id}.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
