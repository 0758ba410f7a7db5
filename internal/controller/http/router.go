// Package http wires the REST surface: public health check, CORS, and the
// identity-guarded API group.
package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kmdelmundo/tutormatch_api/internal/controller/http/handlers"
	"github.com/kmdelmundo/tutormatch_api/internal/controller/http/middleware"
)

type RouterConfig struct {
	Environment  string
	CORSOrigins  []string
	Matching     *handlers.MatchingHandler
	Sessions     *handlers.SessionsHandler
	Availability *handlers.AvailabilityHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-User-ID", "X-User-Role"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(middleware.RequireIdentity())
	{
		// Matching
		api.GET("/matching/tutors", cfg.Matching.FindTutors)
		api.GET("/matching/students", cfg.Matching.FindStudents)

		// Sessions
		api.GET("/subjects", cfg.Sessions.Subjects)
		api.POST("/sessions", cfg.Sessions.Book)
		api.GET("/sessions", cfg.Sessions.List)
		api.GET("/sessions/:id", cfg.Sessions.Get)
		api.POST("/sessions/:id/confirm", cfg.Sessions.Confirm)
		api.POST("/sessions/:id/reject", cfg.Sessions.Reject)
		api.POST("/sessions/:id/cancel", cfg.Sessions.Cancel)
		api.POST("/sessions/:id/complete", cfg.Sessions.Complete)
		api.POST("/sessions/:id/reschedule", cfg.Sessions.Reschedule)
		api.POST("/sessions/:id/review", cfg.Sessions.Review)
		api.GET("/sessions/:id/review", cfg.Sessions.GetReview)

		// Availability
		api.PUT("/availability", cfg.Availability.Set)
		api.GET("/availability", cfg.Availability.ListOwn)
		api.GET("/tutors/:id/availability", cfg.Availability.ListForTutor)
	}

	return router
}
