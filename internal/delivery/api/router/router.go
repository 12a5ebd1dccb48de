// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"gamecatalog/internal/delivery/api/middleware"
	"gamecatalog/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	GameHandler      *handler.GameHandler
	ReviewHandler    *handler.ReviewHandler
	FacetHandler     *handler.FacetHandler
	AnalyticsHandler *handler.AnalyticsHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	gameHandler      *handler.GameHandler
	reviewHandler    *handler.ReviewHandler
	facetHandler     *handler.FacetHandler
	analyticsHandler *handler.AnalyticsHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		gameHandler:      params.GameHandler,
		reviewHandler:    params.ReviewHandler,
		facetHandler:     params.FacetHandler,
		analyticsHandler: params.AnalyticsHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")

	gamesGroup := apiV1.Group("/games")
	{
		gamesGroup.GET("", r.gameHandler.ListGames)
		gamesGroup.GET("/:id", r.gameHandler.GetGame)
		gamesGroup.GET("/:id/reviews", r.reviewHandler.ListReviews)
		gamesGroup.GET("/:id/reviews/stats", r.reviewHandler.ReviewStats)

		// Submitting a review requires a signed-in user.
		gamesGroup.PUT("/:id/reviews", r.reviewHandler.SubmitReview, r.authMiddleware.Authenticate)
	}

	apiV1.GET("/suggestions", r.gameHandler.Suggestions)
	apiV1.GET("/filters", r.facetHandler.ListFilters)
	apiV1.GET("/analytics/:id", r.analyticsHandler.StreamDashboard)
}
