package router // route registration for the reservation API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lab-reservation/internal/config"
	"github.com/iliyamo/lab-reservation/internal/handler"
	"github.com/iliyamo/lab-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication at all.
// Currently this is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication endpoints. Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access only mints a
	// new access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works without the JWT middleware so an expired session can
	// still terminate itself with its refresh token.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated lab catalog. These routes
// sit behind the Redis response cache; occupancy views never do.
func RegisterPublic(e *echo.Echo, p *handler.PublicLabHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/v1/labs", p.ListLabs, cache)
	e.GET("/v1/labs/:id", p.GetLab, cache)
}

// RegisterAvailability registers the role-shaped occupancy views. The
// /v1/labs/available route serves all three roles and shapes its response
// by the caller's role claim; the assistant route is a scoped alias.
func RegisterAvailability(e *echo.Echo, a *handler.AvailabilityHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/labs/available", a.Available)

	assistant := e.Group(
		"/v1/assistant",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("lab_assistant"),
	)
	assistant.GET("/labs/assigned", a.AssignedLabs)
}

// RegisterBookings registers the booking lifecycle for authenticated users
// and the admin approval workflow.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/bookings", b.Create)
	g.GET("/bookings", b.ListMine)
	g.PUT("/bookings/:id", b.Modify)
	g.DELETE("/bookings/:id", b.Cancel)

	admin := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin"),
	)
	admin.GET("/bookings", b.ListAll)
	admin.POST("/bookings/:id/approve", b.Approve)
	admin.POST("/bookings/:id/reject", b.Reject)
	admin.PUT("/bookings/:id/override", b.Override)
}

// RegisterAdmin registers lab administration endpoints: lab CRUD, weekly
// schedules, per-date closures, assistant assignments and the user
// directory. All require the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminLabHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin"),
	)
	g.POST("/labs", h.CreateLab)
	g.PUT("/labs/:id", h.UpdateLab)
	g.DELETE("/labs/:id", h.DeleteLab)
	g.PUT("/labs/:id/slots", h.ReplaceSlots)
	g.POST("/labs/:id/disable", h.DisableLab)
	g.POST("/labs/:id/enable", h.EnableLab)
	g.POST("/labs/:id/assistants", h.AssignAssistant)
	g.DELETE("/labs/:id/assistants", h.UnassignAssistant)
	g.GET("/users", h.ListUsers)
}
