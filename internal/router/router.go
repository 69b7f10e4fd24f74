// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register and login are
// open; logout needs a valid session-backed token so the middleware
// can tell which session to end.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, sessions *repository.SessionRepo) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret, sessions))
}

// RegisterBooking registers the booking endpoints under /v1. Every
// route requires a valid bearer token backed by a live session; the
// middleware injects the caller's user ID before the handler runs.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, sessions *repository.SessionRepo) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret, sessions))
	g.GET("/booking", h.GetBooking)
	g.POST("/booking", h.CreateBooking)
	g.PUT("/booking/:bookingId", h.UpdateBooking)
}
