package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/harborml-backend/internal/logger"
  "github.com/yungbote/harborml-backend/internal/types"
)

type ModelDetectionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.ModelDetection) ([]*types.ModelDetection, error)
  GetByMediaAndKind(ctx context.Context, tx *gorm.DB, mediaAssetID uuid.UUID, kind types.LabelKind) ([]*types.ModelDetection, error)
}

type modelDetectionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewModelDetectionRepo(db *gorm.DB, baseLog *logger.Logger) ModelDetectionRepo {
  repoLog := baseLog.With("repo", "ModelDetectionRepo")
  return &modelDetectionRepo{db: db, log: repoLog}
}

func (r *modelDetectionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ModelDetection) ([]*types.ModelDetection, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.ModelDetection{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *modelDetectionRepo) GetByMediaAndKind(ctx context.Context, tx *gorm.DB, mediaAssetID uuid.UUID, kind types.LabelKind) ([]*types.ModelDetection, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ModelDetection
  if mediaAssetID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("media_asset_id = ? AND kind = ?", mediaAssetID, kind).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
