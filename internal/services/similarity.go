package services

import (
	"strings"

	"github.com/yungbote/harborml-backend/internal/types"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// boundingBoxIoU is intersection-over-union of two boxes in the same
// coordinate space. Zero when the boxes do not overlap.
func boundingBoxIoU(a, b *types.BoundingBoxLabel) float64 {
	if a == nil || b == nil {
		return 0
	}
	ix := overlap1D(a.X, a.X+a.Width, b.X, b.X+b.Width)
	iy := overlap1D(a.Y, a.Y+a.Height, b.Y, b.Y+b.Height)
	inter := ix * iy
	if inter <= 0 {
		return 0
	}
	union := a.Width*a.Height + b.Width*b.Height - inter
	if union <= 0 {
		return 0
	}
	return clamp01(inter / union)
}

func overlap1D(aLo, aHi, bLo, bHi float64) float64 {
	lo := aLo
	if bLo > lo {
		lo = bLo
	}
	hi := aHi
	if bHi < hi {
		hi = bHi
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// tokenJaccard is the Jaccard similarity of the lowercased token sets of two
// strings. Both empty counts as full agreement.
func tokenJaccard(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 && len(bs) == 0 {
		return 1
	}
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for tok := range as {
		if _, ok := bs[tok]; ok {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return clamp01(float64(inter) / float64(union))
}

func tokenSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,;:!?\"'()[]")
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

func spanOverlapMs(a, b *types.TranscriptSpanLabel) int64 {
	if a == nil || b == nil {
		return 0
	}
	lo := a.StartMs
	if b.StartMs > lo {
		lo = b.StartMs
	}
	hi := a.EndMs
	if b.EndMs < hi {
		hi = b.EndMs
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// modelAgreement compares a human label against the model detections of the
// same kind and returns the best similarity in [0,1]. The second return is
// false when no detection offers a comparison, in which case the caller falls
// back to the neutral default.
func modelAgreement(payload types.LabelPayload, detections []types.LabelPayload) (float64, bool) {
	best := 0.0
	comparable := false
	for _, det := range detections {
		if det.Kind != payload.Kind {
			continue
		}
		var score float64
		switch payload.Kind {
		case types.LabelKindBoundingBox:
			iou := boundingBoxIoU(payload.Box, det.Box)
			if strings.EqualFold(payload.Box.Label, det.Box.Label) {
				score = iou
			} else {
				// Spatial overlap with a different label is weak evidence.
				score = iou * 0.5
			}
		case types.LabelKindTranscriptSpan:
			sim := tokenJaccard(payload.Span.Text, det.Span.Text)
			if spanOverlapMs(payload.Span, det.Span) > 0 {
				score = sim
			} else {
				score = sim * 0.5
			}
		case types.LabelKindClassification:
			score = classificationAgreement(payload.Class, det.Class)
		default:
			continue
		}
		comparable = true
		if score > best {
			best = score
		}
	}
	return clamp01(best), comparable
}

// classificationAgreement averages per-tag evidence: an exact tag match counts
// 1.0, a partial (substring) match 0.6, a miss 0.2.
func classificationAgreement(user, model *types.ClassificationLabel) float64 {
	if user == nil || model == nil || len(user.Tags) == 0 {
		return 0
	}
	modelTags := map[string]struct{}{}
	for _, t := range model.Tags {
		modelTags[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	total := 0.0
	for _, raw := range user.Tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if _, ok := modelTags[tag]; ok {
			total += 1.0
			continue
		}
		partial := false
		for mt := range modelTags {
			if mt == "" || tag == "" {
				continue
			}
			if strings.Contains(tag, mt) || strings.Contains(mt, tag) {
				partial = true
				break
			}
		}
		if partial {
			total += 0.6
		} else {
			total += 0.2
		}
	}
	return clamp01(total / float64(len(user.Tags)))
}

// siblingMatches reports whether two human annotations of the same kind agree
// on the same region or segment.
func siblingMatches(a, b types.LabelPayload) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case types.LabelKindBoundingBox:
		return strings.EqualFold(a.Box.Label, b.Box.Label) && boundingBoxIoU(a.Box, b.Box) >= 0.5
	case types.LabelKindTranscriptSpan:
		return spanOverlapMs(a.Span, b.Span) > 0 && tokenJaccard(a.Span.Text, b.Span.Text) >= 0.5
	case types.LabelKindClassification:
		for _, at := range a.Class.Tags {
			for _, bt := range b.Class.Tags {
				if strings.EqualFold(strings.TrimSpace(at), strings.TrimSpace(bt)) {
					return true
				}
			}
		}
	}
	return false
}

// crossUserAgreement is the fraction of sibling annotations that agree with
// the given payload. The second return is false when there are no siblings.
func crossUserAgreement(payload types.LabelPayload, siblings []types.LabelPayload) (float64, bool) {
	if len(siblings) == 0 {
		return 0, false
	}
	matches := 0
	for _, sib := range siblings {
		if siblingMatches(payload, sib) {
			matches++
		}
	}
	return clamp01(float64(matches) / float64(len(siblings))), true
}

// contextQuality blends the media asset's 0-100 quality sub-scores into [0,1].
// Missing quality data is neutral, never a penalty.
func contextQuality(q *types.MediaQualityScore) float64 {
	if q == nil {
		return 0.5
	}
	clarity := clamp01(q.ClarityScore / 100)
	stability := clamp01(q.StabilityScore / 100)
	overall := clamp01(q.OverallScore / 100)
	return clamp01(clarity*0.4 + stability*0.4 + overall*0.2)
}
