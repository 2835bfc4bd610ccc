package types

import (
  "time"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// Annotation is a single human-submitted label on a media asset. Rows are
// immutable after creation except for the Confidence write-back by the
// confidence scorer; corrections are new annotations, not edits.
type Annotation struct {
  gorm.Model
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  MediaAssetID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"media_asset_id"`
  MediaAsset        *MediaAsset     `gorm:"constraint:OnDelete:CASCADE;foreignKey:MediaAssetID;references:ID" json:"media_asset,omitempty"`
  UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  User              *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Kind              LabelKind       `gorm:"column:kind;not null;index" json:"kind"`
  Payload           datatypes.JSON  `gorm:"type:jsonb;column:payload;not null" json:"payload"`
  Confidence        float64         `gorm:"column:confidence;not null;default:0" json:"confidence"`
  AnnotationTimeMs  *int64          `gorm:"column:annotation_time_ms" json:"annotation_time_ms,omitempty"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (Annotation) TableName() string {
  return "annotation"
}
