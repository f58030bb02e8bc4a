// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hopenest/hopenest-api/internal/handler"
)

// RegisterRoutes registers routes that sit outside the /api surface.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the full /api surface. The limiter middleware wraps
// the whole group; the cache middleware wraps only the orphanage browse
// endpoint so that every other read observes writes immediately. Both
// middlewares are pass-throughs when their subsystem is disabled.
func RegisterAPI(
	e *echo.Echo,
	auth *handler.AuthHandler,
	orphanages *handler.OrphanageHandler,
	donations *handler.DonationHandler,
	users *handler.UserHandler,
	limiter echo.MiddlewareFunc,
	cache echo.MiddlewareFunc,
) {
	api := e.Group("/api")
	if limiter != nil {
		api.Use(limiter)
	}

	api.POST("/signup", auth.Signup)
	api.POST("/login", auth.Login)

	if cache != nil {
		api.GET("/orphanages", orphanages.Search, cache)
	} else {
		api.GET("/orphanages", orphanages.Search)
	}
	api.POST("/orphanages", orphanages.Create)
	api.GET("/orphanage/admin/:adminId", orphanages.GetByAdmin)
	api.PUT("/orphanages/:id", orphanages.Update)

	api.POST("/donations", donations.Create)
	api.GET("/donations", donations.List)
	api.GET("/donations/donor/:donorId", donations.ListByDonor)
	api.PUT("/donations/:id", donations.UpdateStatus)

	api.DELETE("/users/:id", users.Delete)
	api.GET("/user/:userId", users.Profile)
	api.GET("/users", users.List)
}
