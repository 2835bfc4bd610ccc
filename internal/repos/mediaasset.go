package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/harborml-backend/internal/logger"
  apperrors "github.com/yungbote/harborml-backend/internal/pkg/errors"
  "github.com/yungbote/harborml-backend/internal/types"
)

type MediaAssetRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.MediaAsset) ([]*types.MediaAsset, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MediaAsset, error)
  Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type mediaAssetRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMediaAssetRepo(db *gorm.DB, baseLog *logger.Logger) MediaAssetRepo {
  repoLog := baseLog.With("repo", "MediaAssetRepo")
  return &mediaAssetRepo{db: db, log: repoLog}
}

func (r *mediaAssetRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.MediaAsset) ([]*types.MediaAsset, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.MediaAsset{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *mediaAssetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MediaAsset, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.MediaAsset
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrNotFound
    }
    return nil, err
  }
  return &result, nil
}

func (r *mediaAssetRepo) Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.MediaAsset{}).
    Where("id = ?", id).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}
