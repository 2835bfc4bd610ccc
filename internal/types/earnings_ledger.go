package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// EarningsLedgerEntry is an append-only record of XP granted for an
// annotation. Amounts are in the gamification currency, never money.
type EarningsLedgerEntry struct {
  gorm.Model
  ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  User            *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  MediaAssetID    uuid.UUID       `gorm:"type:uuid;index" json:"media_asset_id"`
  EventType       string          `gorm:"column:event_type;not null" json:"event_type"`
  Amount          float64         `gorm:"column:amount;not null" json:"amount"`
  Currency        string          `gorm:"column:currency;not null;default:'XP'" json:"currency"`
  CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (EarningsLedgerEntry) TableName() string {
  return "earnings_ledger"
}
