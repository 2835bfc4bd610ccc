package types

import (
  "encoding/json"
  "fmt"
  "gorm.io/datatypes"
)

// LabelKind discriminates the label payload variants. Every annotation and
// model detection carries exactly one kind, and agreement comparisons only
// ever happen between payloads of the same kind.
type LabelKind string

const (
  LabelKindBoundingBox    LabelKind = "bounding_box"
  LabelKindTranscriptSpan LabelKind = "transcript_span"
  LabelKindClassification LabelKind = "classification"
)

func (k LabelKind) Valid() bool {
  switch k {
  case LabelKindBoundingBox, LabelKindTranscriptSpan, LabelKindClassification:
    return true
  }
  return false
}

type BoundingBoxLabel struct {
  X       float64   `json:"x"`
  Y       float64   `json:"y"`
  Width   float64   `json:"width"`
  Height  float64   `json:"height"`
  Label   string    `json:"label"`
}

type TranscriptSpanLabel struct {
  StartMs int64     `json:"start_ms"`
  EndMs   int64     `json:"end_ms"`
  Text    string    `json:"text"`
}

type ClassificationLabel struct {
  Tags    []string  `json:"tags"`
}

// LabelPayload is a tagged union: Kind selects which of the three arms is
// populated. It is stored as JSONB on annotations and model detections.
type LabelPayload struct {
  Kind    LabelKind             `json:"kind"`
  Box     *BoundingBoxLabel     `json:"box,omitempty"`
  Span    *TranscriptSpanLabel  `json:"span,omitempty"`
  Class   *ClassificationLabel  `json:"class,omitempty"`
}

func (p LabelPayload) Validate() error {
  switch p.Kind {
  case LabelKindBoundingBox:
    if p.Box == nil {
      return fmt.Errorf("bounding_box payload missing box")
    }
    if p.Box.Width <= 0 || p.Box.Height <= 0 {
      return fmt.Errorf("bounding_box payload has non-positive dimensions")
    }
  case LabelKindTranscriptSpan:
    if p.Span == nil {
      return fmt.Errorf("transcript_span payload missing span")
    }
    if p.Span.EndMs < p.Span.StartMs {
      return fmt.Errorf("transcript_span payload ends before it starts")
    }
  case LabelKindClassification:
    if p.Class == nil || len(p.Class.Tags) == 0 {
      return fmt.Errorf("classification payload has no tags")
    }
  default:
    return fmt.Errorf("unknown label kind %q", p.Kind)
  }
  return nil
}

func (p LabelPayload) ToJSON() (datatypes.JSON, error) {
  raw, err := json.Marshal(p)
  if err != nil {
    return nil, err
  }
  return datatypes.JSON(raw), nil
}

func ParseLabelPayload(raw datatypes.JSON) (LabelPayload, error) {
  var p LabelPayload
  if len(raw) == 0 {
    return p, fmt.Errorf("empty label payload")
  }
  if err := json.Unmarshal(raw, &p); err != nil {
    return p, fmt.Errorf("decode label payload: %w", err)
  }
  if err := p.Validate(); err != nil {
    return p, err
  }
  return p, nil
}

// baseTrainingWeights is how much each label kind counts toward a dataset by
// default. Downstream dataset assembly multiplies the confidence score by this.
var baseTrainingWeights = map[LabelKind]float64{
  LabelKindBoundingBox:    1.0,
  LabelKindTranscriptSpan: 1.0,
  LabelKindClassification: 1.0,
}

func BaseTrainingWeight(kind LabelKind) float64 {
  if w, ok := baseTrainingWeights[kind]; ok {
    return w
  }
  return 1.0
}
