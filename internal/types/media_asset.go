package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// MediaAsset is the subject being annotated (video, audio or image). It owns
// zero or more human Annotations and zero or more ModelDetections.
type MediaAsset struct {
  gorm.Model
  ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  User            *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  MediaType       string          `gorm:"column:media_type;not null" json:"media_type"`
  StorageKey      string          `gorm:"column:storage_key" json:"storage_key"`
  DurationMs      int64           `gorm:"column:duration_ms" json:"duration_ms"`
  Status          string          `gorm:"column:status;not null;default:'pending'" json:"status"`
  CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (MediaAsset) TableName() string {
  return "media_asset"
}
