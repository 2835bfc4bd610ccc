package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/harborml-backend/internal/pkg/errors"
	"github.com/yungbote/harborml-backend/internal/types"
)

func TestScoreAnnotationNeutralDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	mediaID := env.seedMedia(t, userID)
	annID := env.seedAnnotation(t, mediaID, userID, classPayload("cat"), nil)

	breakdown, err := env.svc.ScoreAnnotation(ctx, annID)
	if err != nil {
		t.Fatalf("ScoreAnnotation: %v", err)
	}

	// No detections, no siblings, no quality data: every component falls back
	// to the neutral 0.5 and so does the composite.
	if !almostEqual(breakdown.ModelAgreement, 0.5) {
		t.Errorf("model agreement = %v, want 0.5", breakdown.ModelAgreement)
	}
	if !almostEqual(breakdown.CrossUserAgreement, 0.5) {
		t.Errorf("cross-user agreement = %v, want 0.5", breakdown.CrossUserAgreement)
	}
	if !almostEqual(breakdown.UserReliability, 0.5) {
		t.Errorf("user reliability = %v, want 0.5", breakdown.UserReliability)
	}
	if !almostEqual(breakdown.ContextQuality, 0.5) {
		t.Errorf("context quality = %v, want 0.5", breakdown.ContextQuality)
	}
	if !almostEqual(breakdown.ConfidenceScore, 0.5) {
		t.Errorf("confidence score = %v, want 0.5", breakdown.ConfidenceScore)
	}

	stored, err := env.svc.GetStoredScore(ctx, annID)
	if err != nil {
		t.Fatalf("GetStoredScore: %v", err)
	}
	if !almostEqual(stored.ConfidenceScore, 0.5) {
		t.Errorf("stored confidence = %v, want 0.5", stored.ConfidenceScore)
	}
	if stored.ScorerVersion != scorerVersion {
		t.Errorf("scorer version = %q, want %q", stored.ScorerVersion, scorerVersion)
	}

	var ann types.Annotation
	if err := env.db.First(&ann, "id = ?", annID).Error; err != nil {
		t.Fatalf("reload annotation: %v", err)
	}
	if !almostEqual(ann.Confidence, 0.5) {
		t.Errorf("annotation confidence write-back = %v, want 0.5", ann.Confidence)
	}

	profile := env.profile(t, userID)
	if profile.TotalAnnotations != 1 {
		t.Errorf("total annotations = %d, want 1", profile.TotalAnnotations)
	}
}

func TestScoreAnnotationWeightedComposite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t)
	peer := env.seedUser(t)
	mediaID := env.seedMedia(t, author)
	env.seedQuality(t, mediaID, 80, 60, 70)

	box := boxPayload(10, 10, 50, 50, "cat")
	annID := env.seedAnnotation(t, mediaID, author, box, nil)
	env.seedAnnotation(t, mediaID, peer, box, nil)
	env.seedDetection(t, mediaID, box)

	breakdown, err := env.svc.ScoreAnnotation(ctx, annID)
	if err != nil {
		t.Fatalf("ScoreAnnotation: %v", err)
	}

	if !almostEqual(breakdown.ModelAgreement, 1.0) {
		t.Errorf("model agreement = %v, want 1.0", breakdown.ModelAgreement)
	}
	if !almostEqual(breakdown.CrossUserAgreement, 1.0) {
		t.Errorf("cross-user agreement = %v, want 1.0", breakdown.CrossUserAgreement)
	}
	if !almostEqual(breakdown.UserReliability, 0.5) {
		t.Errorf("user reliability = %v, want 0.5", breakdown.UserReliability)
	}
	// 80/60/70 on the 0-100 scale blends to 0.7.
	if !almostEqual(breakdown.ContextQuality, 0.7) {
		t.Errorf("context quality = %v, want 0.7", breakdown.ContextQuality)
	}
	// 0.4*1.0 + 0.3*1.0 + 0.2*0.5 + 0.1*0.7
	if !almostEqual(breakdown.ConfidenceScore, 0.87) {
		t.Errorf("confidence score = %v, want 0.87", breakdown.ConfidenceScore)
	}
	if !almostEqual(breakdown.TrainingWeight, 0.87*types.BaseTrainingWeight(types.LabelKindBoundingBox)) {
		t.Errorf("training weight = %v, want 0.87", breakdown.TrainingWeight)
	}
}

func TestScoreAnnotationNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ScoreAnnotation(context.Background(), uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestScoreAnnotationIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t)
	peer := env.seedUser(t)
	mediaID := env.seedMedia(t, author)
	annID := env.seedAnnotation(t, mediaID, author, classPayload("cat"), ptrInt64(4000))
	env.seedAnnotation(t, mediaID, peer, classPayload("cat"), nil)

	first, err := env.svc.ScoreAnnotation(ctx, annID)
	if err != nil {
		t.Fatalf("first score: %v", err)
	}
	profileAfterFirst := env.profile(t, author)

	second, err := env.svc.ScoreAnnotation(ctx, annID)
	if err != nil {
		t.Fatalf("second score: %v", err)
	}

	if *first != *second {
		t.Errorf("re-score with unchanged inputs changed the breakdown: %+v vs %+v", first, second)
	}

	profileAfterSecond := env.profile(t, author)
	if profileAfterSecond.TotalAnnotations != profileAfterFirst.TotalAnnotations {
		t.Errorf("re-score double-counted total annotations: %d vs %d",
			profileAfterSecond.TotalAnnotations, profileAfterFirst.TotalAnnotations)
	}
	if profileAfterSecond.ConsensusMatches != profileAfterFirst.ConsensusMatches {
		t.Errorf("re-score double-counted consensus matches: %d vs %d",
			profileAfterSecond.ConsensusMatches, profileAfterFirst.ConsensusMatches)
	}
	if !almostEqual(profileAfterSecond.ReliabilityScore, profileAfterFirst.ReliabilityScore) {
		t.Errorf("re-score moved reliability: %v vs %v",
			profileAfterSecond.ReliabilityScore, profileAfterFirst.ReliabilityScore)
	}

	var count int64
	if err := env.db.Model(&types.AnnotationConfidenceScore{}).
		Where("annotation_id = ?", annID).Count(&count).Error; err != nil {
		t.Fatalf("count score rows: %v", err)
	}
	if count != 1 {
		t.Errorf("score rows for annotation = %d, want 1", count)
	}
}

func TestScoreAnnotationConsensusMatchMovesProfileUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t)
	peer := env.seedUser(t)
	mediaID := env.seedMedia(t, author)
	annID := env.seedAnnotation(t, mediaID, author, classPayload("cat"), ptrInt64(5000))
	env.seedAnnotation(t, mediaID, peer, classPayload("cat"), nil)

	if _, err := env.svc.ScoreAnnotation(ctx, annID); err != nil {
		t.Fatalf("ScoreAnnotation: %v", err)
	}

	profile := env.profile(t, author)
	if !almostEqual(profile.ReliabilityScore, 0.52) {
		t.Errorf("reliability = %v, want 0.52", profile.ReliabilityScore)
	}
	if profile.ConsensusMatches != 1 || profile.ConsensusMismatches != 0 {
		t.Errorf("matches/mismatches = %d/%d, want 1/0", profile.ConsensusMatches, profile.ConsensusMismatches)
	}
	if !almostEqual(profile.AvgAnnotationTimeMs, 5000) {
		t.Errorf("avg annotation time = %v, want 5000", profile.AvgAnnotationTimeMs)
	}
	if !almostEqual(profile.XPMultiplier, 0.52/reliabilityMax) {
		t.Errorf("xp multiplier = %v, want %v", profile.XPMultiplier, 0.52/reliabilityMax)
	}
}

func TestScoreAnnotationFastWrongPenalty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t)
	peer := env.seedUser(t)
	mediaID := env.seedMedia(t, author)
	annID := env.seedAnnotation(t, mediaID, author, classPayload("cat"), ptrInt64(1500))
	env.seedAnnotation(t, mediaID, peer, classPayload("dog"), nil)

	breakdown, err := env.svc.ScoreAnnotation(ctx, annID)
	if err != nil {
		t.Fatalf("ScoreAnnotation: %v", err)
	}
	if !almostEqual(breakdown.CrossUserAgreement, 0.0) {
		t.Errorf("cross-user agreement = %v, want 0.0", breakdown.CrossUserAgreement)
	}

	// Missed consensus at 1500ms: base decrement plus the fast-wrong penalty.
	profile := env.profile(t, author)
	if !almostEqual(profile.ReliabilityScore, 0.43) {
		t.Errorf("reliability = %v, want 0.43", profile.ReliabilityScore)
	}
	if profile.FastWrongPenalties != 1 {
		t.Errorf("fast-wrong penalties = %d, want 1", profile.FastWrongPenalties)
	}
	if profile.ConsensusMismatches != 1 {
		t.Errorf("consensus mismatches = %d, want 1", profile.ConsensusMismatches)
	}
	if !almostEqual(profile.XPMultiplier, 0.43/reliabilityMax) {
		t.Errorf("xp multiplier = %v, want %v", profile.XPMultiplier, 0.43/reliabilityMax)
	}
}

func TestScoreAnnotationConsensusFlipAdjustsCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t)
	peer := env.seedUser(t)
	mediaID := env.seedMedia(t, author)
	annID := env.seedAnnotation(t, mediaID, author, classPayload("cat"), nil)
	env.seedAnnotation(t, mediaID, peer, classPayload("cat"), nil)

	if _, err := env.svc.ScoreAnnotation(ctx, annID); err != nil {
		t.Fatalf("first score: %v", err)
	}
	if p := env.profile(t, author); p.ConsensusMatches != 1 {
		t.Fatalf("matches after first score = %d, want 1", p.ConsensusMatches)
	}

	// Two dissenting peers arrive; agreement drops to 1/3 and the annotation
	// no longer matches consensus.
	for _, tag := range []string{"dog", "bird"} {
		dissenter := env.seedUser(t)
		env.seedAnnotation(t, mediaID, dissenter, classPayload(tag), nil)
	}

	breakdown, err := env.svc.ScoreAnnotation(ctx, annID)
	if err != nil {
		t.Fatalf("re-score: %v", err)
	}
	if !almostEqual(breakdown.CrossUserAgreement, 1.0/3.0) {
		t.Errorf("cross-user agreement = %v, want 1/3", breakdown.CrossUserAgreement)
	}
	// The reliability input stays pinned to the value the annotation was first
	// scored against.
	if !almostEqual(breakdown.UserReliability, 0.5) {
		t.Errorf("user reliability = %v, want 0.5", breakdown.UserReliability)
	}

	profile := env.profile(t, author)
	if profile.TotalAnnotations != 1 {
		t.Errorf("total annotations = %d, want 1", profile.TotalAnnotations)
	}
	if profile.ConsensusMatches != 0 || profile.ConsensusMismatches != 1 {
		t.Errorf("matches/mismatches = %d/%d, want 0/1", profile.ConsensusMatches, profile.ConsensusMismatches)
	}
	if !almostEqual(profile.ReliabilityScore, 0.48) {
		t.Errorf("reliability = %v, want 0.48", profile.ReliabilityScore)
	}
}

func TestBatchScoreIsolatesFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	mediaID := env.seedMedia(t, userID)
	validID := env.seedAnnotation(t, mediaID, userID, classPayload("cat"), nil)
	missingID := uuid.New()

	results := env.svc.BatchScore(ctx, []uuid.UUID{validID, missingID})
	if len(results) != 2 {
		t.Fatalf("results = %d entries, want 2", len(results))
	}

	valid := results[validID]
	if valid.Err != nil {
		t.Errorf("valid annotation errored: %v", valid.Err)
	}
	if valid.Breakdown == nil || !almostEqual(valid.Breakdown.ConfidenceScore, 0.5) {
		t.Errorf("valid breakdown = %+v, want confidence 0.5", valid.Breakdown)
	}

	missing := results[missingID]
	if !errors.Is(missing.Err, apperrors.ErrNotFound) {
		t.Errorf("missing annotation err = %v, want ErrNotFound", missing.Err)
	}
	if missing.Breakdown != nil {
		t.Errorf("missing annotation has a breakdown: %+v", missing.Breakdown)
	}

	// The failing neighbor must not roll back the committed score.
	if _, err := env.svc.GetStoredScore(ctx, validID); err != nil {
		t.Errorf("valid annotation's score was not persisted: %v", err)
	}
}

func TestProfileCountersAccumulateAcrossAnnotations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t)
	peer := env.seedUser(t)
	mediaID := env.seedMedia(t, author)
	env.seedAnnotation(t, mediaID, peer, classPayload("cat"), nil)

	const n = 3
	for i := 0; i < n; i++ {
		annID := env.seedAnnotation(t, mediaID, author, classPayload("cat"), nil)
		if _, err := env.svc.ScoreAnnotation(ctx, annID); err != nil {
			t.Fatalf("score %d: %v", i, err)
		}
	}

	profile := env.profile(t, author)
	if profile.TotalAnnotations != n {
		t.Errorf("total annotations = %d, want %d", profile.TotalAnnotations, n)
	}
	if profile.ConsensusMatches != n {
		t.Errorf("consensus matches = %d, want %d", profile.ConsensusMatches, n)
	}
	if profile.ConsensusMismatches != 0 {
		t.Errorf("consensus mismatches = %d, want 0", profile.ConsensusMismatches)
	}
	// Three consensus matches from the 0.5 start.
	if !almostEqual(profile.ReliabilityScore, 0.56) {
		t.Errorf("reliability = %v, want 0.56", profile.ReliabilityScore)
	}
}

func TestRescoreForMediaPropagatesAgreementShift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userA := env.seedUser(t)
	userB := env.seedUser(t)
	mediaID := env.seedMedia(t, userA)
	annA := env.seedAnnotation(t, mediaID, userA, classPayload("cat"), nil)
	annB := env.seedAnnotation(t, mediaID, userB, classPayload("cat"), nil)

	for _, id := range []uuid.UUID{annA, annB} {
		if _, err := env.svc.ScoreAnnotation(ctx, id); err != nil {
			t.Fatalf("initial score: %v", err)
		}
	}
	scoreA, err := env.svc.GetStoredScore(ctx, annA)
	if err != nil {
		t.Fatalf("GetStoredScore: %v", err)
	}
	if !almostEqual(scoreA.CrossUserAgreement, 1.0) {
		t.Fatalf("initial cross-user agreement = %v, want 1.0", scoreA.CrossUserAgreement)
	}

	userC := env.seedUser(t)
	annC := env.seedAnnotation(t, mediaID, userC, classPayload("dog"), nil)

	if err := env.svc.RescoreForMedia(ctx, mediaID); err != nil {
		t.Fatalf("RescoreForMedia: %v", err)
	}

	scoreA, err = env.svc.GetStoredScore(ctx, annA)
	if err != nil {
		t.Fatalf("GetStoredScore after rescore: %v", err)
	}
	if !almostEqual(scoreA.CrossUserAgreement, 0.5) {
		t.Errorf("cat cross-user agreement after dissent = %v, want 0.5", scoreA.CrossUserAgreement)
	}

	scoreC, err := env.svc.GetStoredScore(ctx, annC)
	if err != nil {
		t.Fatalf("GetStoredScore for dissenter: %v", err)
	}
	if !almostEqual(scoreC.CrossUserAgreement, 0.0) {
		t.Errorf("dissenter cross-user agreement = %v, want 0.0", scoreC.CrossUserAgreement)
	}
}

func TestRescoreForMediaNotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.svc.RescoreForMedia(context.Background(), uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetLeaderboardOrderingAndMatchRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seedProfile := func(reliability float64, total, matches int64) uuid.UUID {
		userID := env.seedUser(t)
		p := &types.UserReliabilityProfile{
			UserID:           userID,
			ReliabilityScore: reliability,
			XPMultiplier:     xpMultiplierFor(reliability),
			TotalAnnotations: total,
			ConsensusMatches: matches,
		}
		if err := env.db.Create(p).Error; err != nil {
			t.Fatalf("seed profile: %v", err)
		}
		return userID
	}

	first := seedProfile(0.9, 10, 9)
	second := seedProfile(0.9, 5, 2)
	third := seedProfile(0.7, 20, 10)
	idle := seedProfile(0.3, 0, 0)

	entries, err := env.svc.GetLeaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}

	wantOrder := []uuid.UUID{first, second, third, idle}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Errorf("entry %d = %s, want %s", i, entries[i].UserID, want)
		}
	}
	if entries[0].MatchRate != "90.0%" {
		t.Errorf("top match rate = %q, want \"90.0%%\"", entries[0].MatchRate)
	}
	if entries[3].MatchRate != "N/A" {
		t.Errorf("idle match rate = %q, want \"N/A\"", entries[3].MatchRate)
	}

	limited, err := env.svc.GetLeaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("GetLeaderboard limit 2: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited entries = %d, want 2", len(limited))
	}

	if _, err := env.svc.GetLeaderboard(ctx, 0); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("limit 0 err = %v, want ErrInvalidArgument", err)
	}
}

type fakeLeaderboardCache struct {
	entries     map[int][]LeaderboardEntry
	sets        int
	invalidated int
}

func newFakeLeaderboardCache() *fakeLeaderboardCache {
	return &fakeLeaderboardCache{entries: map[int][]LeaderboardEntry{}}
}

func (c *fakeLeaderboardCache) Get(_ context.Context, limit int) ([]LeaderboardEntry, bool) {
	entries, ok := c.entries[limit]
	return entries, ok
}

func (c *fakeLeaderboardCache) Set(_ context.Context, limit int, entries []LeaderboardEntry) {
	c.entries[limit] = entries
	c.sets++
}

func (c *fakeLeaderboardCache) Invalidate(_ context.Context) {
	c.entries = map[int][]LeaderboardEntry{}
	c.invalidated++
}

func TestGetLeaderboardCacheRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cache := newFakeLeaderboardCache()

	cached := env.withCache(cache)

	userID := env.seedUser(t)
	mediaID := env.seedMedia(t, userID)
	annID := env.seedAnnotation(t, mediaID, userID, classPayload("cat"), nil)

	if _, err := cached.GetLeaderboard(ctx, 5); err != nil {
		t.Fatalf("GetLeaderboard miss: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	if _, err := cached.GetLeaderboard(ctx, 5); err != nil {
		t.Fatalf("GetLeaderboard hit: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets after hit = %d, want 1", cache.sets)
	}

	// Scoring moves a profile, which must drop the cached view.
	if _, err := cached.ScoreAnnotation(ctx, annID); err != nil {
		t.Fatalf("ScoreAnnotation: %v", err)
	}
	if cache.invalidated == 0 {
		t.Error("scoring did not invalidate the leaderboard cache")
	}
}

func TestComputeAnnotationXP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	mediaID := env.seedMedia(t, userID)
	annID := env.seedAnnotation(t, mediaID, userID, classPayload("cat"), nil)

	if _, err := env.svc.ScoreAnnotation(ctx, annID); err != nil {
		t.Fatalf("ScoreAnnotation: %v", err)
	}

	// Neutral composite 0.5; the solo consensus match lifted reliability to
	// 0.52 so the multiplier is 0.52/0.95.
	wantXP := xpBasePerAnnotation * 0.5 * (0.52 / reliabilityMax)
	xp, err := env.svc.ComputeAnnotationXP(ctx, annID)
	if err != nil {
		t.Fatalf("ComputeAnnotationXP: %v", err)
	}
	if !almostEqual(xp, wantXP) {
		t.Errorf("xp = %v, want %v", xp, wantXP)
	}

	var entries []types.EarningsLedgerEntry
	if err := env.db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(entries))
	}
	if entries[0].EventType != "annotation_xp" || entries[0].Currency != "XP" {
		t.Errorf("ledger entry = %+v, want annotation_xp in XP", entries[0])
	}
	if !almostEqual(entries[0].Amount, wantXP) {
		t.Errorf("ledger amount = %v, want %v", entries[0].Amount, wantXP)
	}

	profile := env.profile(t, userID)
	if !almostEqual(profile.TotalXPEarned, wantXP) {
		t.Errorf("profile xp = %v, want %v", profile.TotalXPEarned, wantXP)
	}

	history, err := env.svc.GetEarnings(ctx, userID)
	if err != nil {
		t.Fatalf("GetEarnings: %v", err)
	}
	if len(history) != 1 || !almostEqual(history[0].Amount, wantXP) {
		t.Errorf("earnings history = %+v, want one entry of %v", history, wantXP)
	}
}

func TestComputeAnnotationXPUnscored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	mediaID := env.seedMedia(t, userID)
	annID := env.seedAnnotation(t, mediaID, userID, classPayload("cat"), nil)

	xp, err := env.svc.ComputeAnnotationXP(ctx, annID)
	if err != nil {
		t.Fatalf("ComputeAnnotationXP: %v", err)
	}
	if xp != 0 {
		t.Errorf("xp for unscored annotation = %v, want 0", xp)
	}

	var count int64
	if err := env.db.Model(&types.EarningsLedgerEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	if count != 0 {
		t.Errorf("ledger entries = %d, want 0", count)
	}
}

func TestGetReliabilityProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.GetReliabilityProfile(ctx, uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("missing profile err = %v, want ErrNotFound", err)
	}

	userID := env.seedUser(t)
	mediaID := env.seedMedia(t, userID)
	annID := env.seedAnnotation(t, mediaID, userID, classPayload("cat"), nil)
	if _, err := env.svc.ScoreAnnotation(ctx, annID); err != nil {
		t.Fatalf("ScoreAnnotation: %v", err)
	}

	view, err := env.svc.GetReliabilityProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetReliabilityProfile: %v", err)
	}
	if view.TotalAnnotations != 1 {
		t.Errorf("total annotations = %d, want 1", view.TotalAnnotations)
	}
	if view.MatchRate != "100.0%" {
		t.Errorf("match rate = %q, want \"100.0%%\"", view.MatchRate)
	}
}

func TestGetStoredScoreNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.GetStoredScore(context.Background(), uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
