// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"voyager/internal/http/handlers"
	"voyager/internal/http/middleware"
	"voyager/internal/infra"
	"voyager/internal/modules/trip"
)

type RouterDeps struct {
	Log         *zap.Logger
	ServiceName string
	Verifier    infra.TokenVerifier
	Trips       *trip.Service
	Users       handlers.UserService
	Quota       handlers.QuotaReader
	Planner     handlers.TripGenerator
	// GenerateTimeout bounds one POST /api/trips/generate; zero means no extra bound.
	GenerateTimeout time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		otelgin.Middleware(deps.ServiceName),
		middleware.Logging(deps.Log),
		middleware.Recovery(deps.Log),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	planHandler := handlers.NewPlanHandler(deps.Planner, deps.GenerateTimeout)
	api.POST("/trips/generate", planHandler.Generate)

	tripHandler := handlers.NewTripHandler(deps.Trips)
	api.GET("/trips", tripHandler.List)
	api.GET("/trips/:id", tripHandler.Get)
	api.PATCH("/trips/:id", tripHandler.Update)
	api.POST("/trips/:id/status", tripHandler.Transition)
	api.DELETE("/trips/:id", tripHandler.Delete)

	userHandler := handlers.NewUserHandler(deps.Users, deps.Quota)
	api.GET("/users/me", userHandler.Me)
	api.POST("/users/me", userHandler.SaveProfile)
	api.GET("/users/me/preferences", userHandler.Preferences)
	api.PUT("/users/me/preferences", userHandler.SavePreferences)
	api.GET("/users/me/quota", userHandler.Quota)

	adminHandler := handlers.NewAdminHandler(deps.Trips)
	admin := api.Group("/admin", middleware.RequireRole("admin"))
	admin.GET("/trips", adminHandler.ListTrips)
	admin.POST("/trips/:id/status", adminHandler.Transition)
	admin.GET("/trips/:id/events", adminHandler.Events)

	return r
}
