package types

import (
  "time"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// ModelDetection is an automated, model-generated label on a media asset.
// These are the "model side" of the model-agreement component.
type ModelDetection struct {
  gorm.Model
  ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  MediaAssetID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"media_asset_id"`
  MediaAsset      *MediaAsset     `gorm:"constraint:OnDelete:CASCADE;foreignKey:MediaAssetID;references:ID" json:"media_asset,omitempty"`
  Kind            LabelKind       `gorm:"column:kind;not null;index" json:"kind"`
  Payload         datatypes.JSON  `gorm:"type:jsonb;column:payload;not null" json:"payload"`
  Confidence      float64         `gorm:"column:confidence;not null;default:0" json:"confidence"`
  ModelVersion    string          `gorm:"column:model_version" json:"model_version"`
  CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (ModelDetection) TableName() string {
  return "model_detection"
}
