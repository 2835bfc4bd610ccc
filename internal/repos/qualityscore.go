package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/harborml-backend/internal/logger"
  "github.com/yungbote/harborml-backend/internal/types"
)

type MediaQualityScoreRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, row *types.MediaQualityScore) error
  // GetByMediaAssetID returns (nil, nil) when no quality row exists; absence
  // of quality data is not an error for the scorer.
  GetByMediaAssetID(ctx context.Context, tx *gorm.DB, mediaAssetID uuid.UUID) (*types.MediaQualityScore, error)
}

type mediaQualityScoreRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMediaQualityScoreRepo(db *gorm.DB, baseLog *logger.Logger) MediaQualityScoreRepo {
  repoLog := baseLog.With("repo", "MediaQualityScoreRepo")
  return &mediaQualityScoreRepo{db: db, log: repoLog}
}

func (r *mediaQualityScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.MediaQualityScore) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("media_asset_id = ?", row.MediaAssetID).
    Assign(map[string]interface{}{
      "clarity_score":   row.ClarityScore,
      "stability_score": row.StabilityScore,
      "overall_score":   row.OverallScore,
    }).
    FirstOrCreate(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *mediaQualityScoreRepo) GetByMediaAssetID(ctx context.Context, tx *gorm.DB, mediaAssetID uuid.UUID) (*types.MediaQualityScore, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.MediaQualityScore
  if err := transaction.WithContext(ctx).
    Where("media_asset_id = ?", mediaAssetID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}
