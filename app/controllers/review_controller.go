package controllers

import (
	"net/http"

	"github.com/rsharan/dinehub/app/services"
	"github.com/rsharan/dinehub/pkg/apperr"
	"github.com/rsharan/dinehub/pkg/bind"
	"github.com/rsharan/dinehub/pkg/response"
)

type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController(service *services.ReviewService) *ReviewController {
	return &ReviewController{service: service}
}

// Add handles POST /api/restaurants/{id}/reviews.
func (c *ReviewController) Add(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	var in services.ReviewInput
	if err := bind.JSON(r, &in); err != nil {
		response.AppError(w, apperr.Validation("%v", err))
		return
	}

	review, err := c.service.Add(r.Context(), restaurantID, in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, review)
}

// Update handles PUT /api/reviews/{id}.
func (c *ReviewController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	var in services.ReviewInput
	if err := bind.JSON(r, &in); err != nil {
		response.AppError(w, apperr.Validation("%v", err))
		return
	}

	review, err := c.service.Update(r.Context(), id, in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, review)
}

// Delete handles DELETE /api/reviews/{id}.
func (c *ReviewController) Delete(w http.ResponseWriter, r *http.Request) {
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

// ListByRestaurant handles GET /api/restaurants/{id}/reviews.
func (c *ReviewController) ListByRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	reviews, err := c.service.ListByRestaurant(r.Context(), restaurantID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, reviews)
}

// Summary handles GET /api/restaurants/{id}/summary.
func (c *ReviewController) Summary(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := paramID(r, "id")
	if err != nil {
		response.AppError(w, err)
		return
	}

	summary, err := c.service.Summary(r.Context(), restaurantID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, summary)
}
