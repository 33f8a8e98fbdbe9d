// Package api wires HTTP routes to the ride workflow.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rideshare/internal/api/handlers"
	"rideshare/internal/api/middleware"
	"rideshare/internal/config"
	"rideshare/internal/repository"
)

type Router struct {
	rideHandler    *handlers.RideHandler
	profileHandler *handlers.ProfileHandler
	routeHandler   *handlers.RouteHandler
	tokens         middleware.TokenVerifier
	profiles       repository.ProfileRepository
	rateLimit      config.RateLimitConfig
}

func NewRouter(
	rideHandler *handlers.RideHandler,
	profileHandler *handlers.ProfileHandler,
	routeHandler *handlers.RouteHandler,
	tokens middleware.TokenVerifier,
	profiles repository.ProfileRepository,
	rateLimit config.RateLimitConfig,
) *Router {
	return &Router{
		rideHandler:    rideHandler,
		profileHandler: profileHandler,
		routeHandler:   routeHandler,
		tokens:         tokens,
		profiles:       profiles,
		rateLimit:      rateLimit,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(gin.Recovery(), middleware.RequestLogger())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/")
	api.Use(
		middleware.RateLimit(r.rateLimit.RequestsPerSecond, r.rateLimit.Burst),
		middleware.Auth(r.tokens, r.profiles),
	)
	{
		rides := api.Group("/rides")
		{
			rides.POST("", r.rideHandler.PostRide)
			rides.GET("/search", r.rideHandler.SearchRides)
			rides.GET("/mine", r.rideHandler.ListMine)
			rides.GET("/:id", r.rideHandler.GetRide)
			rides.PATCH("/:id/confirm", r.rideHandler.ConfirmBooking)
			rides.PATCH("/:id/cancel", r.rideHandler.CancelRide)
		}

		api.GET("/routes", r.routeHandler.EstimateRoute)
		api.GET("/profile", r.profileHandler.GetProfile)
		api.PUT("/profile", r.profileHandler.UpdateProfile)
	}
}
