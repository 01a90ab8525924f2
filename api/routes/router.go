package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sokastore/sokastore-backend/api/controllers"
	"github.com/sokastore/sokastore-backend/api/middleware"
	"github.com/sokastore/sokastore-backend/pkg/auth/session"
	"github.com/sokastore/sokastore-backend/pkg/config"
	"github.com/sokastore/sokastore-backend/pkg/logger"
	"github.com/sokastore/sokastore-backend/pkg/metrics"
	"github.com/sokastore/sokastore-backend/pkg/redis"
)

// Dependencies carries everything the router mounts.
type Dependencies struct {
	Config   *config.Config
	Log      *logger.Logger
	Sessions session.AccessSessionChecker
	Limiter  *redis.Client
	Metrics  *metrics.HTTPMetrics

	Health     *controllers.HealthController
	Auth       *controllers.AuthController
	Users      *controllers.UserController
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Cart       *controllers.CartController
	Orders     *controllers.OrderController
	Stock      *controllers.StockController
	Badges     *controllers.BadgeController
	Blogs      *controllers.BlogController
}

// New assembles the HTTP router. Public storefront routes need no
// token, account routes need a live session, and the admin subtree
// additionally needs the admin role.
func New(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Log))
	r.Use(middleware.Logging(deps.Log))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authed := middleware.Auth(deps.Config.JWT, deps.Sessions)
	rate := deps.Config.AuthRateLimit

	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(deps.Limiter, "auth:register",
				int64(rate.RegisterIPLimit), rate.RegisterWindow)).
				Post("/register", deps.Auth.Register)
			r.With(middleware.RateLimit(deps.Limiter, "auth:login",
				int64(rate.LoginIPLimit), rate.LoginWindow)).
				Post("/login", deps.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Post("/logout", deps.Auth.Logout)
				r.Get("/me", deps.Auth.Me)
				r.Put("/me", deps.Auth.UpdateProfile)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Products.List)
			r.Get("/{id}", deps.Products.Get)
			r.Get("/{id}/related", deps.Products.Related)
			r.Get("/image/{id}", deps.Products.Image)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", deps.Categories.List)
			r.Get("/slug", deps.Categories.GetBySlug)
			r.Get("/{id}", deps.Categories.Get)
		})

		r.Route("/badges", func(r chi.Router) {
			r.Get("/", deps.Badges.List)
			r.Get("/{id}", deps.Badges.Get)
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", deps.Blogs.List)
			r.Get("/slug/{slug}", deps.Blogs.GetBySlug)
			r.Get("/{id}/image", deps.Blogs.CoverImage)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authed)
			r.Get("/", deps.Cart.Get)
			r.Delete("/", deps.Cart.Clear)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{itemId}", deps.Cart.UpdateItem)
			r.Delete("/items/{itemId}", deps.Cart.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authed)
			r.With(middleware.RateLimit(deps.Limiter, "orders:create",
				int64(deps.Config.Orders.CreateUserLimit), deps.Config.Orders.CreateWindow)).
				Post("/", deps.Orders.Checkout)
			r.Get("/", deps.Orders.ListMine)
			r.Get("/{id}", deps.Orders.GetMine)
			r.Post("/{id}/cancel", deps.Orders.Cancel)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authed)
			r.Use(middleware.RequireAdmin)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", deps.Users.List)
				r.Get("/{id}", deps.Users.Get)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", deps.Products.ListAll)
				r.Post("/", deps.Products.Create)
				r.Put("/{id}", deps.Products.Update)
				r.Delete("/{id}", deps.Products.Delete)
				r.Post("/{id}/images", deps.Products.UploadImages)
				r.Delete("/{id}/images", deps.Products.RemoveImages)
				r.Put("/{id}/images/{imageId}/primary", deps.Products.SetPrimaryImage)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", deps.Categories.Create)
				r.Put("/{id}", deps.Categories.Update)
				r.Delete("/{id}", deps.Categories.Delete)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Orders.List)
				r.Get("/{id}", deps.Orders.Get)
				r.Put("/{id}/status", deps.Orders.UpdateStatus)
				r.Put("/{id}/payment", deps.Orders.UpdatePayment)
				r.Delete("/{id}", deps.Orders.Delete)
			})

			r.Route("/stock", func(r chi.Router) {
				r.Get("/movements", deps.Stock.ListMovements)
				r.Post("/movements", deps.Stock.RecordMovement)
				r.Get("/movements/{id}", deps.Stock.GetMovement)
				r.Put("/movements/{id}", deps.Stock.UpdateMovement)
				r.Delete("/movements/{id}", deps.Stock.DeleteMovement)
				r.Get("/levels", deps.Stock.Levels)
				r.Get("/products/{productId}/history", deps.Stock.History)
				r.Get("/products/{productId}/verify", deps.Stock.Verify)
			})

			r.Route("/badges", func(r chi.Router) {
				r.Post("/", deps.Badges.Create)
				r.Put("/{id}", deps.Badges.Update)
				r.Delete("/{id}", deps.Badges.Delete)
			})

			r.Route("/blogs", func(r chi.Router) {
				r.Get("/", deps.Blogs.ListAll)
				r.Get("/{id}", deps.Blogs.Get)
				r.Post("/", deps.Blogs.Create)
				r.Put("/{id}", deps.Blogs.Update)
				r.Delete("/{id}", deps.Blogs.Delete)
			})
		})
	})

	return r
}
