package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/yungbote/harborml-backend/internal/handlers"
)

type RouterConfig struct {
  ServiceName         string
  ConfidenceHandler   *handlers.ConfidenceHandler
  AnnotationHandler   *handlers.AnnotationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  serviceName := cfg.ServiceName
  if serviceName == "" {
    serviceName = "harborml"
  }
  router.Use(otelgin.Middleware(serviceName))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Annotations
    api.POST("/annotations", cfg.AnnotationHandler.Submit)
    api.GET("/media/:mediaId/annotations", cfg.AnnotationHandler.ListForMedia)

    // Confidence scoring
    confidence := api.Group("/confidence")
    {
      confidence.GET("/annotations/:annotationId", cfg.ConfidenceHandler.GetScore)
      confidence.POST("/annotations/:annotationId/score", cfg.ConfidenceHandler.ScoreAnnotation)
      confidence.POST("/annotations/:annotationId/xp", cfg.ConfidenceHandler.GrantXP)
      confidence.POST("/batch-score", cfg.ConfidenceHandler.BatchScore)
      confidence.GET("/users/:userId/reliability", cfg.ConfidenceHandler.GetReliability)
      confidence.GET("/users/:userId/earnings", cfg.ConfidenceHandler.GetEarnings)
      confidence.GET("/leaderboard", cfg.ConfidenceHandler.GetLeaderboard)
      confidence.POST("/media/:mediaId/rescore", cfg.ConfidenceHandler.RescoreMedia)
    }
  }

  return router
}
