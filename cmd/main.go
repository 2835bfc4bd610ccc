package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/yungbote/harborml-backend/internal/clients/redis"
  "github.com/yungbote/harborml-backend/internal/db"
  "github.com/yungbote/harborml-backend/internal/handlers"
  "github.com/yungbote/harborml-backend/internal/logger"
  "github.com/yungbote/harborml-backend/internal/observability"
  "github.com/yungbote/harborml-backend/internal/repos"
  "github.com/yungbote/harborml-backend/internal/server"
  "github.com/yungbote/harborml-backend/internal/services"
  "github.com/yungbote/harborml-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  serviceName := utils.GetEnv("SERVICE_NAME", "harborml", log)
  shutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: serviceName,
    Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
    Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
  })
  if shutdown != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdown(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  mediaAssetRepo := repos.NewMediaAssetRepo(thePG, log)
  annotationRepo := repos.NewAnnotationRepo(thePG, log)
  modelDetectionRepo := repos.NewModelDetectionRepo(thePG, log)
  qualityScoreRepo := repos.NewMediaQualityScoreRepo(thePG, log)
  confidenceScoreRepo := repos.NewConfidenceScoreRepo(thePG, log)
  reliabilityProfileRepo := repos.NewReliabilityProfileRepo(thePG, log)
  earningsLedgerRepo := repos.NewEarningsLedgerRepo(thePG, log)

  // Leaderboard cache (optional; scoring works without redis)
  var leaderboardCache services.LeaderboardCache
  cacheTTL := utils.GetEnvAsInt("LEADERBOARD_CACHE_TTL_SECONDS", 30, log)
  if cache, err := redis.NewLeaderboardCache(log, time.Duration(cacheTTL)*time.Second); err != nil {
    log.Warn("Leaderboard cache disabled", "error", err)
  } else {
    leaderboardCache = cache
    defer cache.Close()
  }

  // Services
  log.Info("Setting up Services from main...")
  confidenceService := services.NewConfidenceService(
    thePG,
    log,
    annotationRepo,
    modelDetectionRepo,
    confidenceScoreRepo,
    reliabilityProfileRepo,
    qualityScoreRepo,
    earningsLedgerRepo,
    mediaAssetRepo,
    leaderboardCache,
  )
  annotationService := services.NewAnnotationService(thePG, log, annotationRepo, mediaAssetRepo, userRepo, confidenceService)

  // Handlers
  log.Info("Setting up handlers from main...")
  confidenceHandler := handlers.NewConfidenceHandler(log, confidenceService)
  annotationHandler := handlers.NewAnnotationHandler(log, annotationService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    ServiceName:       serviceName,
    ConfidenceHandler: confidenceHandler,
    AnnotationHandler: annotationHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
