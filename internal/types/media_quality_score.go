package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// MediaQualityScore holds recording-quality metadata for a media asset on a
// 0-100 scale. The scorer blends it into the context-quality component.
type MediaQualityScore struct {
  gorm.Model
  ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  MediaAssetID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"media_asset_id"`
  MediaAsset      *MediaAsset     `gorm:"constraint:OnDelete:CASCADE;foreignKey:MediaAssetID;references:ID" json:"media_asset,omitempty"`
  ClarityScore    float64         `gorm:"column:clarity_score;not null;default:0" json:"clarity_score"`
  StabilityScore  float64         `gorm:"column:stability_score;not null;default:0" json:"stability_score"`
  OverallScore    float64         `gorm:"column:overall_score;not null;default:0" json:"overall_score"`
  CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (MediaQualityScore) TableName() string {
  return "media_quality_score"
}
