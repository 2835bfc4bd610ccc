package repos

import (
  "context"
  "errors"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/harborml-backend/internal/logger"
  apperrors "github.com/yungbote/harborml-backend/internal/pkg/errors"
  "github.com/yungbote/harborml-backend/internal/types"
)

type ConfidenceScoreRepo interface {
  // Upsert creates the score row for the annotation or overwrites the
  // component values if one already exists. Keyed by annotation_id.
  Upsert(ctx context.Context, tx *gorm.DB, row *types.AnnotationConfidenceScore) error
  GetByAnnotationID(ctx context.Context, tx *gorm.DB, annotationID uuid.UUID) (*types.AnnotationConfidenceScore, error)
  // Peek is GetByAnnotationID with absence as (nil, nil) instead of an error.
  Peek(ctx context.Context, tx *gorm.DB, annotationID uuid.UUID) (*types.AnnotationConfidenceScore, error)
}

type confidenceScoreRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewConfidenceScoreRepo(db *gorm.DB, baseLog *logger.Logger) ConfidenceScoreRepo {
  repoLog := baseLog.With("repo", "ConfidenceScoreRepo")
  return &confidenceScoreRepo{db: db, log: repoLog}
}

func (r *confidenceScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.AnnotationConfidenceScore) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("annotation_id = ?", row.AnnotationID).
    Assign(map[string]interface{}{
      "model_agreement":      row.ModelAgreement,
      "cross_user_agreement": row.CrossUserAgreement,
      "user_reliability":     row.UserReliability,
      "context_quality":      row.ContextQuality,
      "confidence_score":     row.ConfidenceScore,
      "training_weight":      row.TrainingWeight,
      "matched_consensus":    row.MatchedConsensus,
      "scorer_version":       row.ScorerVersion,
      "computed_at":          time.Now().UTC(),
    }).
    FirstOrCreate(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *confidenceScoreRepo) GetByAnnotationID(ctx context.Context, tx *gorm.DB, annotationID uuid.UUID) (*types.AnnotationConfidenceScore, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.AnnotationConfidenceScore
  if err := transaction.WithContext(ctx).
    Where("annotation_id = ?", annotationID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrNotFound
    }
    return nil, err
  }
  return &result, nil
}

func (r *confidenceScoreRepo) Peek(ctx context.Context, tx *gorm.DB, annotationID uuid.UUID) (*types.AnnotationConfidenceScore, error) {
  result, err := r.GetByAnnotationID(ctx, tx, annotationID)
  if err != nil {
    if errors.Is(err, apperrors.ErrNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return result, nil
}
