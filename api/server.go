/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client IP from X-Forwarded-For / X-Real-IP
  3. Logger:     Structured request logging (logrus)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Metrics:    Prometheus request count and latency
  6. CORS:       Cross-origin requests for the cashier frontend; credentials
                only when CORS_ALLOWED_ORIGINS lists explicit origins

ROUTE GROUPS:
  /health, /metrics         Operations
  /api/auth/login           Public, rate limited per client IP
  /api/menu (GET)           Public
  everything else under /api requires a bearer token

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Authentication and request logging
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(h.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !allowsAnyOrigin(h.AllowedOrigins),
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", h.Metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.With(h.LoginLimiter.Middleware).Post("/auth/login", h.Login)

		r.Get("/menu", h.ListMenu)
		r.Get("/menu/categories", h.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			r.Post("/auth/register", h.RegisterUser)
			r.Get("/auth/profile", h.Profile)

			r.Post("/menu", h.CreateMenuItem)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.CreateOrder)
				r.Get("/", h.ListOrders)
				r.Get("/today", h.TodaySummary)
				r.Get("/daily", h.DailySummary)
			})

			r.Get("/dashboard/stats", h.DashboardStats)
		})
	})

	return r
}

// allowsAnyOrigin reports whether origins is empty or contains "*".
// Credentials are only sent to an explicit origin list.
func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
