package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/harborml-backend/internal/logger"
  "github.com/yungbote/harborml-backend/internal/types"
)

type EarningsLedgerRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.EarningsLedgerEntry) ([]*types.EarningsLedgerEntry, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.EarningsLedgerEntry, error)
}

type earningsLedgerRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEarningsLedgerRepo(db *gorm.DB, baseLog *logger.Logger) EarningsLedgerRepo {
  repoLog := baseLog.With("repo", "EarningsLedgerRepo")
  return &earningsLedgerRepo{db: db, log: repoLog}
}

func (r *earningsLedgerRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.EarningsLedgerEntry) ([]*types.EarningsLedgerEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.EarningsLedgerEntry{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *earningsLedgerRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.EarningsLedgerEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EarningsLedgerEntry
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
