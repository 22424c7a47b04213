package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/karim076/dvd-rental/internal/config"
	"github.com/karim076/dvd-rental/internal/handler"
	"github.com/karim076/dvd-rental/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check, used by
// load balancers and monitoring systems to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCustomer wires the customer self-service endpoints. Every route
// requires a bearer token with the CUSTOMER role; the rate limiter applies
// to the whole group and the dashboard read is served from the per-user
// response cache when Redis is reachable.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerRentalHandler, jwtSecret string, rdb *redis.Client, rl config.RateLimitConfig, cache config.CacheConfig) {
	g := e.Group("/customer")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER"))
	g.Use(middleware.NewTokenBucket(rl, rdb))

	g.GET("/rentals-data", h.RentalsData, middleware.NewRedisCache(cache, rdb))
	g.POST("/rentals/:id/pay", h.Pay)
	g.DELETE("/rentals/:id/cancel", h.Cancel)
	g.POST("/rentals/:id/return", h.Return)
	g.POST("/rentals/:id/extend", h.Extend)
}

// RegisterStaff wires the back-office endpoints under /staff/api. Every
// route requires a bearer token with the STAFF role.
func RegisterStaff(e *echo.Echo, h *handler.StaffRentalHandler, jwtSecret string, rdb *redis.Client, rl config.RateLimitConfig) {
	g := e.Group("/staff/api")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("STAFF"))
	g.Use(middleware.NewTokenBucket(rl, rdb))

	g.POST("/rentals", h.CreateRental)
	g.POST("/rentals/:id/activate", h.Activate)
	g.GET("/films/:id/availability", h.Availability)
}
