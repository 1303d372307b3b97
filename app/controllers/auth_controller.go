package controllers

import (
	"net/http"

	"github.com/rsharan/dinehub/app/services"
	"github.com/rsharan/dinehub/pkg/apperr"
	"github.com/rsharan/dinehub/pkg/bind"
	"github.com/rsharan/dinehub/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login handles POST /api/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := bind.JSON(r, &in); err != nil {
		response.AppError(w, apperr.Validation("%v", err))
		return
	}

	token, err := c.service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		// Do not leak whether the email exists.
		response.Unauthorized(w)
		return
	}
	response.Success(w, map[string]string{"token": token})
}
