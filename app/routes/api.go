package routes

import (
	"net/http"
	"time"

	"github.com/rsharan/dinehub/app/controllers"
	"github.com/rsharan/dinehub/app/repositories"
	"github.com/rsharan/dinehub/app/services"
	"github.com/rsharan/dinehub/config"
	"github.com/rsharan/dinehub/pkg/database"
	"github.com/rsharan/dinehub/pkg/metrics"
	"github.com/rsharan/dinehub/pkg/middleware"
	"github.com/rsharan/dinehub/pkg/reqid"
	"github.com/rsharan/dinehub/pkg/response"
	"github.com/rsharan/dinehub/pkg/router"
)

// RegisterAPI wires every HTTP route. Route names follow resource.action so
// route:list output reads like a table of contents.
func RegisterAPI(r *router.Router) {
	db := database.DB

	orderRepo := repositories.NewOrderRepository(db)
	catalog := repositories.NewCatalogReader(db, config.CatalogCacheTTL())
	directory := repositories.NewRestaurantDirectory(db)
	reviewRepo := repositories.NewReviewRepository(db)

	orderService := services.NewOrderService(orderRepo, catalog, directory)
	reviewService := services.NewReviewService(reviewRepo, directory)
	authService := services.NewAuthService(db)

	orderController := controllers.NewOrderController(orderService)
	reviewController := controllers.NewReviewController(reviewService)
	authController := controllers.NewAuthController(authService)

	r.Use(reqid.Middleware(), middleware.Logger, middleware.Recovery, metrics.Middleware())
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")
	api.Post("/login", "auth.login", authController.Login, middleware.RateLimit(20, time.Minute))

	// Public reads: the review ledger and the on-demand summary.
	api.Get("/restaurants/{id}/reviews", "reviews.list", reviewController.ListByRestaurant)
	api.Get("/restaurants/{id}/summary", "restaurants.summary", reviewController.Summary)

	protected := api.Group("", middleware.Auth)

	protected.Post("/orders", "orders.create", orderController.Create)
	protected.Get("/orders", "orders.mine", orderController.ListMine)
	protected.Get("/orders/{id}", "orders.get", orderController.Get)
	protected.Patch("/orders/{id}/status", "orders.status", orderController.UpdateStatus)
	protected.Patch("/orders/{id}/comments", "orders.comments", orderController.UpdateComments)
	protected.Delete("/orders/{id}", "orders.delete", orderController.Delete)

	protected.Get("/restaurants/{id}/orders", "restaurants.orders", orderController.ListByRestaurant)
	protected.Get("/owner/orders", "owner.orders", orderController.ListForOwner)

	protected.Post("/restaurants/{id}/reviews", "reviews.create", reviewController.Add)
	protected.Put("/reviews/{id}", "reviews.update", reviewController.Update)
	protected.Delete("/reviews/{id}", "reviews.delete", reviewController.Delete)
}
