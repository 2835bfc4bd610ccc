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

type AnnotationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Annotation) ([]*types.Annotation, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Annotation, error)
  GetByMediaAssetID(ctx context.Context, tx *gorm.DB, mediaAssetID uuid.UUID) ([]*types.Annotation, error)
  GetSiblings(ctx context.Context, tx *gorm.DB, mediaAssetID uuid.UUID, kind types.LabelKind, excludeID uuid.UUID) ([]*types.Annotation, error)
  UpdateConfidence(ctx context.Context, tx *gorm.DB, id uuid.UUID, confidence float64) error
}

type annotationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAnnotationRepo(db *gorm.DB, baseLog *logger.Logger) AnnotationRepo {
  repoLog := baseLog.With("repo", "AnnotationRepo")
  return &annotationRepo{db: db, log: repoLog}
}

func (r *annotationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Annotation) ([]*types.Annotation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Annotation{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *annotationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Annotation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Annotation
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

func (r *annotationRepo) GetByMediaAssetID(ctx context.Context, tx *gorm.DB, mediaAssetID uuid.UUID) ([]*types.Annotation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Annotation
  if mediaAssetID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("media_asset_id = ?", mediaAssetID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *annotationRepo) GetSiblings(ctx context.Context, tx *gorm.DB, mediaAssetID uuid.UUID, kind types.LabelKind, excludeID uuid.UUID) ([]*types.Annotation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Annotation
  if mediaAssetID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("media_asset_id = ? AND kind = ? AND id <> ?", mediaAssetID, kind, excludeID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *annotationRepo) UpdateConfidence(ctx context.Context, tx *gorm.DB, id uuid.UUID, confidence float64) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Annotation{}).
    Where("id = ?", id).
    Update("confidence", confidence).Error; err != nil {
    return err
  }
  return nil
}
