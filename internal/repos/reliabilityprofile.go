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

// ProfileScoringDelta is one scoring event's effect on a reliability profile.
// Counter fields are applied as SQL-side increments in a single UPDATE so
// concurrent scoring of the same user's annotations never loses a count.
type ProfileScoringDelta struct {
  TotalAnnotations    int64
  ConsensusMatches    int64
  ConsensusMismatches int64
  FastWrongPenalties  int64
  ReliabilityScore    float64
  XPMultiplier        float64
  AvgAnnotationTimeMs *float64
}

type ReliabilityProfileRepo interface {
  GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReliabilityProfile, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReliabilityProfile, error)
  ApplyScoringOutcome(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta ProfileScoringDelta) error
  AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount float64) error
  Top(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserReliabilityProfile, error)
}

type reliabilityProfileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewReliabilityProfileRepo(db *gorm.DB, baseLog *logger.Logger) ReliabilityProfileRepo {
  repoLog := baseLog.With("repo", "ReliabilityProfileRepo")
  return &reliabilityProfileRepo{db: db, log: repoLog}
}

func (r *reliabilityProfileRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReliabilityProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  profile := &types.UserReliabilityProfile{
    UserID:           userID,
    ReliabilityScore: 0.5,
    XPMultiplier:     1.0,
  }
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    FirstOrCreate(profile).Error; err != nil {
    return nil, err
  }
  return profile, nil
}

func (r *reliabilityProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserReliabilityProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.UserReliabilityProfile
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrNotFound
    }
    return nil, err
  }
  return &result, nil
}

func (r *reliabilityProfileRepo) ApplyScoringOutcome(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta ProfileScoringDelta) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  updates := map[string]interface{}{
    "reliability_score": delta.ReliabilityScore,
    "xp_multiplier":     delta.XPMultiplier,
  }
  if delta.TotalAnnotations != 0 {
    updates["total_annotations"] = gorm.Expr("total_annotations + ?", delta.TotalAnnotations)
  }
  if delta.ConsensusMatches != 0 {
    updates["consensus_matches"] = gorm.Expr("consensus_matches + ?", delta.ConsensusMatches)
  }
  if delta.ConsensusMismatches != 0 {
    updates["consensus_mismatches"] = gorm.Expr("consensus_mismatches + ?", delta.ConsensusMismatches)
  }
  if delta.FastWrongPenalties != 0 {
    updates["fast_wrong_penalties"] = gorm.Expr("fast_wrong_penalties + ?", delta.FastWrongPenalties)
  }
  if delta.AvgAnnotationTimeMs != nil {
    updates["avg_annotation_time_ms"] = *delta.AvgAnnotationTimeMs
  }

  if err := transaction.WithContext(ctx).
    Model(&types.UserReliabilityProfile{}).
    Where("user_id = ?", userID).
    Updates(updates).Error; err != nil {
    return err
  }
  return nil
}

func (r *reliabilityProfileRepo) AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount float64) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.UserReliabilityProfile{}).
    Where("user_id = ?", userID).
    Update("total_xp_earned", gorm.Expr("total_xp_earned + ?", amount)).Error; err != nil {
    return err
  }
  return nil
}

func (r *reliabilityProfileRepo) Top(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserReliabilityProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserReliabilityProfile
  if limit <= 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Order("reliability_score DESC, total_annotations DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
