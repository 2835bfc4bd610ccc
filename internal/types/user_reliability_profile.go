package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// UserReliabilityProfile is a per-user rolling summary of annotation quality.
// Created lazily on first scoring, then updated incrementally; invariant:
// ConsensusMatches + ConsensusMismatches <= TotalAnnotations.
type UserReliabilityProfile struct {
  gorm.Model
  ID                    uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  UserID                uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
  User                  *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  ReliabilityScore      float64     `gorm:"column:reliability_score;not null;default:0.5" json:"reliability_score"`
  XPMultiplier          float64     `gorm:"column:xp_multiplier;not null;default:1.0" json:"xp_multiplier"`
  TotalAnnotations      int64       `gorm:"column:total_annotations;not null;default:0" json:"total_annotations"`
  ConsensusMatches      int64       `gorm:"column:consensus_matches;not null;default:0" json:"consensus_matches"`
  ConsensusMismatches   int64       `gorm:"column:consensus_mismatches;not null;default:0" json:"consensus_mismatches"`
  AvgAnnotationTimeMs   float64     `gorm:"column:avg_annotation_time_ms;not null;default:0" json:"avg_annotation_time_ms"`
  FastWrongPenalties    int64       `gorm:"column:fast_wrong_penalties;not null;default:0" json:"fast_wrong_penalties"`
  TotalXPEarned         float64     `gorm:"column:total_xp_earned;not null;default:0" json:"total_xp_earned"`
  CreatedAt             time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt             time.Time   `gorm:"not null" json:"updated_at"`
}

func (UserReliabilityProfile) TableName() string {
  return "user_reliability_profile"
}
