package types

import (
  "github.com/google/uuid"
  "gorm.io/gorm"
)

// IDs are assigned client-side so inserts behave the same on postgres and on
// the sqlite driver used by tests.

func (u *User) BeforeCreate(tx *gorm.DB) error {
  if u.ID == uuid.Nil {
    u.ID = uuid.New()
  }
  return nil
}

func (m *MediaAsset) BeforeCreate(tx *gorm.DB) error {
  if m.ID == uuid.Nil {
    m.ID = uuid.New()
  }
  return nil
}

func (q *MediaQualityScore) BeforeCreate(tx *gorm.DB) error {
  if q.ID == uuid.Nil {
    q.ID = uuid.New()
  }
  return nil
}

func (a *Annotation) BeforeCreate(tx *gorm.DB) error {
  if a.ID == uuid.Nil {
    a.ID = uuid.New()
  }
  return nil
}

func (d *ModelDetection) BeforeCreate(tx *gorm.DB) error {
  if d.ID == uuid.Nil {
    d.ID = uuid.New()
  }
  return nil
}

func (s *AnnotationConfidenceScore) BeforeCreate(tx *gorm.DB) error {
  if s.ID == uuid.Nil {
    s.ID = uuid.New()
  }
  return nil
}

func (p *UserReliabilityProfile) BeforeCreate(tx *gorm.DB) error {
  if p.ID == uuid.Nil {
    p.ID = uuid.New()
  }
  return nil
}

func (e *EarningsLedgerEntry) BeforeCreate(tx *gorm.DB) error {
  if e.ID == uuid.Nil {
    e.ID = uuid.New()
  }
  return nil
}
