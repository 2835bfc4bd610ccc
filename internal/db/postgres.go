package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/yungbote/harborml-backend/internal/types"
  "github.com/yungbote/harborml-backend/internal/utils"
  "github.com/yungbote/harborml-backend/internal/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "harborml", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.MediaAsset{},
    &types.MediaQualityScore{},
    &types.Annotation{},
    &types.ModelDetection{},
    &types.AnnotationConfidenceScore{},
    &types.UserReliabilityProfile{},
    &types.EarningsLedgerEntry{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }

  s.log.Info("Configuring foreign key relationships for postgres tables...")
  constraints := []struct {
    name string
    stmt string
  }{
    {
      name: "fk_media_asset_user_id",
      stmt: `ALTER TABLE "media_asset" ADD CONSTRAINT "fk_media_asset_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
    },
    {
      name: "fk_media_quality_score_media_asset_id",
      stmt: `ALTER TABLE "media_quality_score" ADD CONSTRAINT "fk_media_quality_score_media_asset_id" FOREIGN KEY ("media_asset_id") REFERENCES "media_asset"("id") ON DELETE CASCADE`,
    },
    {
      name: "fk_annotation_media_asset_id",
      stmt: `ALTER TABLE "annotation" ADD CONSTRAINT "fk_annotation_media_asset_id" FOREIGN KEY ("media_asset_id") REFERENCES "media_asset"("id") ON DELETE CASCADE`,
    },
    {
      name: "fk_annotation_user_id",
      stmt: `ALTER TABLE "annotation" ADD CONSTRAINT "fk_annotation_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
    },
    {
      name: "fk_model_detection_media_asset_id",
      stmt: `ALTER TABLE "model_detection" ADD CONSTRAINT "fk_model_detection_media_asset_id" FOREIGN KEY ("media_asset_id") REFERENCES "media_asset"("id") ON DELETE CASCADE`,
    },
    {
      name: "fk_annotation_confidence_score_annotation_id",
      stmt: `ALTER TABLE "annotation_confidence_score" ADD CONSTRAINT "fk_annotation_confidence_score_annotation_id" FOREIGN KEY ("annotation_id") REFERENCES "annotation"("id") ON DELETE CASCADE`,
    },
    {
      name: "fk_user_reliability_profile_user_id",
      stmt: `ALTER TABLE "user_reliability_profile" ADD CONSTRAINT "fk_user_reliability_profile_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
    },
    {
      name: "fk_earnings_ledger_user_id",
      stmt: `ALTER TABLE "earnings_ledger" ADD CONSTRAINT "fk_earnings_ledger_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
    },
  }
  for _, c := range constraints {
    var count int64
    if err := s.db.Raw(`SELECT COUNT(1) FROM pg_constraint WHERE conname = ?`, c.name).Scan(&count).Error; err != nil {
      s.log.Error("Failed to check constraint", "constraint", c.name, "error", err)
      return err
    }
    if count > 0 {
      continue
    }
    if err := s.db.Exec(c.stmt).Error; err != nil {
      s.log.Error("Failed to add constraint", "constraint", c.name, "error", err)
      return err
    }
  }
  s.log.Info("Postgres tables migrated")
  return nil
}
