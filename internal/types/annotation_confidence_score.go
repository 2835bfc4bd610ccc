package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// AnnotationConfidenceScore is the one-to-one derived record per annotation.
// It is created or overwritten each time the scorer runs and is never
// hand-edited. MatchedConsensus records the consensus outcome the profile
// counters were last charged with, so a re-score can adjust rather than
// double-count.
type AnnotationConfidenceScore struct {
  gorm.Model
  ID                  uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
  AnnotationID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"annotation_id"`
  Annotation          *Annotation   `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnnotationID;references:ID" json:"annotation,omitempty"`
  ModelAgreement      float64       `gorm:"column:model_agreement;not null" json:"model_agreement"`
  CrossUserAgreement  float64       `gorm:"column:cross_user_agreement;not null" json:"cross_user_agreement"`
  UserReliability     float64       `gorm:"column:user_reliability;not null" json:"user_reliability"`
  ContextQuality      float64       `gorm:"column:context_quality;not null" json:"context_quality"`
  ConfidenceScore     float64       `gorm:"column:confidence_score;not null" json:"confidence_score"`
  TrainingWeight      float64       `gorm:"column:training_weight;not null" json:"training_weight"`
  MatchedConsensus    bool          `gorm:"column:matched_consensus;not null;default:false" json:"matched_consensus"`
  ScorerVersion       string        `gorm:"column:scorer_version" json:"scorer_version"`
  ComputedAt          time.Time     `gorm:"column:computed_at;not null" json:"computed_at"`
  CreatedAt           time.Time     `gorm:"not null" json:"created_at"`
  UpdatedAt           time.Time     `gorm:"not null" json:"updated_at"`
}

func (AnnotationConfidenceScore) TableName() string {
  return "annotation_confidence_score"
}
