package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/harborml-backend/internal/logger"
	apperrors "github.com/yungbote/harborml-backend/internal/pkg/errors"
	"github.com/yungbote/harborml-backend/internal/repos"
	"github.com/yungbote/harborml-backend/internal/types"
)

// Fixed component weights of the composite confidence score. Policy
// constants, not derived values.
const (
	weightModelAgreement     = 0.4
	weightCrossUserAgreement = 0.3
	weightUserReliability    = 0.2
	weightContextQuality     = 0.1
)

const (
	reliabilityInitial   = 0.5
	reliabilityMin       = 0.20
	reliabilityMax       = 0.95
	reliabilityIncrement = 0.02
	reliabilityDecrement = 0.02

	// Annotations faster than this that also miss consensus draw an extra
	// penalty.
	fastWrongThresholdMs = 2000
	fastWrongPenalty     = 0.05

	xpBasePerAnnotation = 10.0
	xpThrottleThreshold = 0.35
	xpThrottleCap       = 0.25

	// Cross-user agreement at or above this counts as matching consensus.
	consensusThreshold = 0.5

	scorerVersion = "1.0.0"

	leaderboardMaxLimit = 100
	batchConcurrency    = 4
)

// ScoreBreakdown is the full result of scoring one annotation. All four
// components and the composite are in [0,1].
type ScoreBreakdown struct {
	ModelAgreement     float64 `json:"model_agreement"`
	CrossUserAgreement float64 `json:"cross_user_agreement"`
	UserReliability    float64 `json:"user_reliability"`
	ContextQuality     float64 `json:"context_quality"`
	ConfidenceScore    float64 `json:"confidence_score"`
	TrainingWeight     float64 `json:"training_weight"`
}

// BatchOutcome is the per-annotation result of a batch operation: exactly one
// of Breakdown or Err is set.
type BatchOutcome struct {
	Breakdown *ScoreBreakdown
	Err       error
}

type LeaderboardEntry struct {
	UserID           uuid.UUID `json:"user_id"`
	ReliabilityScore float64   `json:"reliability_score"`
	XPMultiplier     float64   `json:"xp_multiplier"`
	TotalAnnotations int64     `json:"total_annotations"`
	MatchRate        string    `json:"match_rate"`
}

type ReliabilityProfileView struct {
	types.UserReliabilityProfile
	MatchRate string `json:"match_rate"`
}

// LeaderboardCache is an optional read-through cache for leaderboard views.
// All methods are best-effort; a miss or failure falls back to the store.
type LeaderboardCache interface {
	Get(ctx context.Context, limit int) ([]LeaderboardEntry, bool)
	Set(ctx context.Context, limit int, entries []LeaderboardEntry)
	Invalidate(ctx context.Context)
}

type ConfidenceService interface {
	// ScoreAnnotation computes and persists the four-component confidence
	// score for one annotation and applies the scoring outcome to the
	// author's reliability profile. Returns apperrors.ErrNotFound when the
	// annotation does not exist.
	ScoreAnnotation(ctx context.Context, annotationID uuid.UUID) (*ScoreBreakdown, error)
	// BatchScore scores each id independently; one failure never aborts the
	// rest. The returned map has an outcome for every requested id.
	BatchScore(ctx context.Context, annotationIDs []uuid.UUID) map[uuid.UUID]BatchOutcome
	// RescoreForMedia re-scores every annotation on the asset. Call after
	// bulk ingestion shifts the cross-user agreement baseline.
	RescoreForMedia(ctx context.Context, mediaAssetID uuid.UUID) error
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetStoredScore(ctx context.Context, annotationID uuid.UUID) (*types.AnnotationConfidenceScore, error)
	GetReliabilityProfile(ctx context.Context, userID uuid.UUID) (*ReliabilityProfileView, error)
	// ComputeAnnotationXP grants XP for a scored annotation and records it in
	// the earnings ledger. Returns 0 when the annotation has no stored score.
	ComputeAnnotationXP(ctx context.Context, annotationID uuid.UUID) (float64, error)
	GetEarnings(ctx context.Context, userID uuid.UUID) ([]*types.EarningsLedgerEntry, error)
}

type confidenceService struct {
	db              *gorm.DB
	log             *logger.Logger
	annotationRepo  repos.AnnotationRepo
	detectionRepo   repos.ModelDetectionRepo
	scoreRepo       repos.ConfidenceScoreRepo
	profileRepo     repos.ReliabilityProfileRepo
	qualityRepo     repos.MediaQualityScoreRepo
	ledgerRepo      repos.EarningsLedgerRepo
	mediaRepo       repos.MediaAssetRepo
	cache           LeaderboardCache
	annotationLocks *keyedMutex
	profileLocks    *keyedMutex
}

func NewConfidenceService(
	db *gorm.DB,
	log *logger.Logger,
	annotationRepo repos.AnnotationRepo,
	detectionRepo repos.ModelDetectionRepo,
	scoreRepo repos.ConfidenceScoreRepo,
	profileRepo repos.ReliabilityProfileRepo,
	qualityRepo repos.MediaQualityScoreRepo,
	ledgerRepo repos.EarningsLedgerRepo,
	mediaRepo repos.MediaAssetRepo,
	cache LeaderboardCache,
) ConfidenceService {
	serviceLog := log.With("service", "ConfidenceService")
	return &confidenceService{
		db:              db,
		log:             serviceLog,
		annotationRepo:  annotationRepo,
		detectionRepo:   detectionRepo,
		scoreRepo:       scoreRepo,
		profileRepo:     profileRepo,
		qualityRepo:     qualityRepo,
		ledgerRepo:      ledgerRepo,
		mediaRepo:       mediaRepo,
		cache:           cache,
		annotationLocks: newKeyedMutex(),
		profileLocks:    newKeyedMutex(),
	}
}

func (s *confidenceService) ScoreAnnotation(ctx context.Context, annotationID uuid.UUID) (*ScoreBreakdown, error) {
	unlockAnnotation := s.annotationLocks.Lock(annotationID.String())
	defer unlockAnnotation()

	ann, err := s.annotationRepo.GetByID(ctx, nil, annotationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("annotation %s: %w", annotationID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("load annotation: %w", err)
	}

	payload, err := types.ParseLabelPayload(ann.Payload)
	if err != nil {
		return nil, fmt.Errorf("annotation %s has invalid payload: %w", annotationID, err)
	}

	detections, err := s.detectionRepo.GetByMediaAndKind(ctx, nil, ann.MediaAssetID, ann.Kind)
	if err != nil {
		return nil, fmt.Errorf("load model detections: %w", err)
	}
	detectionPayloads := make([]types.LabelPayload, 0, len(detections))
	for _, det := range detections {
		p, perr := types.ParseLabelPayload(det.Payload)
		if perr != nil {
			s.log.Warn("Skipping model detection with invalid payload", "detection_id", det.ID, "error", perr)
			continue
		}
		detectionPayloads = append(detectionPayloads, p)
	}

	siblings, err := s.annotationRepo.GetSiblings(ctx, nil, ann.MediaAssetID, ann.Kind, ann.ID)
	if err != nil {
		return nil, fmt.Errorf("load sibling annotations: %w", err)
	}
	siblingPayloads := make([]types.LabelPayload, 0, len(siblings))
	for _, sib := range siblings {
		p, perr := types.ParseLabelPayload(sib.Payload)
		if perr != nil {
			s.log.Warn("Skipping sibling annotation with invalid payload", "annotation_id", sib.ID, "error", perr)
			continue
		}
		siblingPayloads = append(siblingPayloads, p)
	}

	quality, err := s.qualityRepo.GetByMediaAssetID(ctx, nil, ann.MediaAssetID)
	if err != nil {
		return nil, fmt.Errorf("load media quality: %w", err)
	}

	// Profile reads and the outcome update are serialized per user so two
	// concurrent scores of the same user's annotations cannot lose a counter
	// or a reliability step.
	unlockProfile := s.profileLocks.Lock(ann.UserID.String())
	defer unlockProfile()

	profile, err := s.profileRepo.GetOrCreate(ctx, nil, ann.UserID)
	if err != nil {
		return nil, fmt.Errorf("load reliability profile: %w", err)
	}

	prior, err := s.scoreRepo.Peek(ctx, nil, ann.ID)
	if err != nil {
		return nil, fmt.Errorf("load prior score: %w", err)
	}

	modelScore := 0.5
	if v, comparable := modelAgreement(payload, detectionPayloads); comparable {
		modelScore = v
	}
	crossScore := 0.5
	if v, comparable := crossUserAgreement(payload, siblingPayloads); comparable {
		crossScore = v
	}
	// The annotation's own prior scoring event moved the profile; feeding the
	// moved value back in would make re-scoring drift. Use the reliability
	// the annotation was first scored against.
	reliability := clamp01(profile.ReliabilityScore)
	if prior != nil {
		reliability = clamp01(prior.UserReliability)
	}
	quality01 := contextQuality(quality)

	composite := weightModelAgreement*modelScore +
		weightCrossUserAgreement*crossScore +
		weightUserReliability*reliability +
		weightContextQuality*quality01
	composite = clamp01(composite)
	trainingWeight := composite * types.BaseTrainingWeight(ann.Kind)
	matched := crossScore >= consensusThreshold

	scoreRow := &types.AnnotationConfidenceScore{
		AnnotationID:       ann.ID,
		ModelAgreement:     modelScore,
		CrossUserAgreement: crossScore,
		UserReliability:    reliability,
		ContextQuality:     quality01,
		ConfidenceScore:    composite,
		TrainingWeight:     trainingWeight,
		MatchedConsensus:   matched,
		ScorerVersion:      scorerVersion,
	}

	delta := s.profileDelta(ann, profile, prior, matched)

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.scoreRepo.Upsert(ctx, tx, scoreRow); err != nil {
			return fmt.Errorf("upsert confidence score: %w", err)
		}
		if err := s.annotationRepo.UpdateConfidence(ctx, tx, ann.ID, composite); err != nil {
			return fmt.Errorf("write back annotation confidence: %w", err)
		}
		if delta != nil {
			if err := s.profileRepo.ApplyScoringOutcome(ctx, tx, ann.UserID, *delta); err != nil {
				return fmt.Errorf("apply profile outcome: %w", err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if s.cache != nil && delta != nil {
		s.cache.Invalidate(ctx)
	}

	s.log.Debug("Annotation scored",
		"annotation_id", ann.ID,
		"confidence", composite,
		"matched_consensus", matched,
	)

	return &ScoreBreakdown{
		ModelAgreement:     modelScore,
		CrossUserAgreement: crossScore,
		UserReliability:    reliability,
		ContextQuality:     quality01,
		ConfidenceScore:    composite,
		TrainingWeight:     trainingWeight,
	}, nil
}

// profileDelta decides how a scoring event moves the author's profile. The
// first scoring of an annotation charges the counters once; a re-score only
// adjusts them when the consensus outcome flipped, so re-scoring with
// unchanged inputs leaves the profile untouched.
func (s *confidenceService) profileDelta(
	ann *types.Annotation,
	profile *types.UserReliabilityProfile,
	prior *types.AnnotationConfidenceScore,
	matched bool,
) *repos.ProfileScoringDelta {
	if prior != nil && prior.MatchedConsensus == matched {
		return nil
	}

	newScore := profile.ReliabilityScore
	delta := repos.ProfileScoringDelta{}

	if prior == nil {
		delta.TotalAnnotations = 1
		if matched {
			delta.ConsensusMatches = 1
			newScore += reliabilityIncrement
		} else {
			delta.ConsensusMismatches = 1
			newScore -= reliabilityDecrement
			if ann.AnnotationTimeMs != nil && *ann.AnnotationTimeMs < fastWrongThresholdMs {
				delta.FastWrongPenalties = 1
				newScore -= fastWrongPenalty
			}
		}
		if ann.AnnotationTimeMs != nil {
			current := profile.AvgAnnotationTimeMs
			if current == 0 {
				current = float64(*ann.AnnotationTimeMs)
			}
			ema := current*0.9 + float64(*ann.AnnotationTimeMs)*0.1
			delta.AvgAnnotationTimeMs = &ema
		}
	} else if matched {
		// Flipped mismatch -> match.
		delta.ConsensusMatches = 1
		delta.ConsensusMismatches = -1
		newScore += reliabilityIncrement + reliabilityDecrement
	} else {
		// Flipped match -> mismatch.
		delta.ConsensusMatches = -1
		delta.ConsensusMismatches = 1
		newScore -= reliabilityIncrement + reliabilityDecrement
	}

	newScore = clampReliability(newScore)
	delta.ReliabilityScore = newScore
	delta.XPMultiplier = xpMultiplierFor(newScore)
	return &delta
}

func clampReliability(v float64) float64 {
	if v < reliabilityMin {
		return reliabilityMin
	}
	if v > reliabilityMax {
		return reliabilityMax
	}
	return v
}

func xpMultiplierFor(reliability float64) float64 {
	if reliability < xpThrottleThreshold {
		return xpThrottleCap
	}
	m := reliability / reliabilityMax
	if m > 1.0 {
		return 1.0
	}
	return m
}

func (s *confidenceService) BatchScore(ctx context.Context, annotationIDs []uuid.UUID) map[uuid.UUID]BatchOutcome {
	results := make(map[uuid.UUID]BatchOutcome, len(annotationIDs))
	if len(annotationIDs) == 0 {
		return results
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(batchConcurrency)
	for _, id := range annotationIDs {
		id := id
		g.Go(func() error {
			breakdown, err := s.ScoreAnnotation(ctx, id)
			if err != nil {
				s.log.Warn("Batch item failed to score", "annotation_id", id, "error", err)
			}
			mu.Lock()
			results[id] = BatchOutcome{Breakdown: breakdown, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *confidenceService) RescoreForMedia(ctx context.Context, mediaAssetID uuid.UUID) error {
	exists, err := s.mediaRepo.Exists(ctx, nil, mediaAssetID)
	if err != nil {
		return fmt.Errorf("check media asset: %w", err)
	}
	if !exists {
		return fmt.Errorf("media asset %s: %w", mediaAssetID, apperrors.ErrNotFound)
	}

	annotations, err := s.annotationRepo.GetByMediaAssetID(ctx, nil, mediaAssetID)
	if err != nil {
		return fmt.Errorf("load annotations for media: %w", err)
	}
	if len(annotations) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(annotations))
	for _, ann := range annotations {
		ids = append(ids, ann.ID)
	}
	results := s.BatchScore(ctx, ids)

	failed := 0
	for _, outcome := range results {
		if outcome.Err != nil {
			failed++
		}
	}
	s.log.Info("Re-scored annotations for media asset",
		"media_asset_id", mediaAssetID,
		"total", len(ids),
		"failed", failed,
	)
	return nil
}

func (s *confidenceService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("leaderboard limit must be positive: %w", apperrors.ErrInvalidArgument)
	}
	if limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}

	if s.cache != nil {
		if entries, ok := s.cache.Get(ctx, limit); ok {
			return entries, nil
		}
	}

	profiles, err := s.profileRepo.Top(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, LeaderboardEntry{
			UserID:           p.UserID,
			ReliabilityScore: p.ReliabilityScore,
			XPMultiplier:     p.XPMultiplier,
			TotalAnnotations: p.TotalAnnotations,
			MatchRate:        matchRate(p),
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, limit, entries)
	}
	return entries, nil
}

func matchRate(p *types.UserReliabilityProfile) string {
	if p == nil || p.TotalAnnotations == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", float64(p.ConsensusMatches)/float64(p.TotalAnnotations)*100)
}

func (s *confidenceService) GetStoredScore(ctx context.Context, annotationID uuid.UUID) (*types.AnnotationConfidenceScore, error) {
	score, err := s.scoreRepo.GetByAnnotationID(ctx, nil, annotationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("no confidence score for annotation %s: %w", annotationID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return score, nil
}

func (s *confidenceService) GetReliabilityProfile(ctx context.Context, userID uuid.UUID) (*ReliabilityProfileView, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("no reliability profile for user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &ReliabilityProfileView{
		UserReliabilityProfile: *profile,
		MatchRate:              matchRate(profile),
	}, nil
}

func (s *confidenceService) ComputeAnnotationXP(ctx context.Context, annotationID uuid.UUID) (float64, error) {
	score, err := s.scoreRepo.Peek(ctx, nil, annotationID)
	if err != nil {
		return 0, fmt.Errorf("load confidence score: %w", err)
	}
	if score == nil {
		return 0, nil
	}

	ann, err := s.annotationRepo.GetByID(ctx, nil, annotationID)
	if err != nil {
		return 0, fmt.Errorf("load annotation: %w", err)
	}

	unlockProfile := s.profileLocks.Lock(ann.UserID.String())
	defer unlockProfile()

	profile, err := s.profileRepo.GetOrCreate(ctx, nil, ann.UserID)
	if err != nil {
		return 0, fmt.Errorf("load reliability profile: %w", err)
	}

	xp := xpBasePerAnnotation * score.ConfidenceScore * profile.XPMultiplier

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := &types.EarningsLedgerEntry{
			UserID:       ann.UserID,
			MediaAssetID: ann.MediaAssetID,
			EventType:    "annotation_xp",
			Amount:       xp,
			Currency:     "XP",
		}
		if _, err := s.ledgerRepo.Create(ctx, tx, []*types.EarningsLedgerEntry{entry}); err != nil {
			return fmt.Errorf("append earnings ledger: %w", err)
		}
		if err := s.profileRepo.AddXP(ctx, tx, ann.UserID, xp); err != nil {
			return fmt.Errorf("add profile xp: %w", err)
		}
		return nil
	}); err != nil {
		return 0, err
	}

	s.log.Debug("Annotation XP granted", "annotation_id", annotationID, "xp", xp)
	return xp, nil
}

func (s *confidenceService) GetEarnings(ctx context.Context, userID uuid.UUID) ([]*types.EarningsLedgerEntry, error) {
	entries, err := s.ledgerRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load earnings ledger: %w", err)
	}
	return entries, nil
}
