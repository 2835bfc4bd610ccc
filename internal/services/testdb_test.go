package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/harborml-backend/internal/logger"
	"github.com/yungbote/harborml-backend/internal/repos"
	"github.com/yungbote/harborml-backend/internal/types"
)

type testEnv struct {
	db            *gorm.DB
	svc           ConfidenceService
	annotations   AnnotationService
	profileRepo   repos.ReliabilityProfileRepo
	scoreRepo     repos.ConfidenceScoreRepo
	userRepo      repos.UserRepo
	mediaRepo     repos.MediaAssetRepo
	qualityRepo   repos.MediaQualityScoreRepo
	detectionRepo repos.ModelDetectionRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A named shared-cache database keeps the schema alive across the pooled
	// connections gorm opens for one test.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.MediaAsset{},
		&types.MediaQualityScore{},
		&types.Annotation{},
		&types.ModelDetection{},
		&types.AnnotationConfidenceScore{},
		&types.UserReliabilityProfile{},
		&types.EarningsLedgerEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.NewNop()
	annotationRepo := repos.NewAnnotationRepo(db, log)
	detectionRepo := repos.NewModelDetectionRepo(db, log)
	scoreRepo := repos.NewConfidenceScoreRepo(db, log)
	profileRepo := repos.NewReliabilityProfileRepo(db, log)
	qualityRepo := repos.NewMediaQualityScoreRepo(db, log)
	ledgerRepo := repos.NewEarningsLedgerRepo(db, log)
	mediaRepo := repos.NewMediaAssetRepo(db, log)

	userRepo := repos.NewUserRepo(db, log)

	svc := NewConfidenceService(db, log, annotationRepo, detectionRepo, scoreRepo, profileRepo, qualityRepo, ledgerRepo, mediaRepo, nil)
	annotations := NewAnnotationService(db, log, annotationRepo, mediaRepo, userRepo, svc)

	return &testEnv{
		db:            db,
		svc:           svc,
		annotations:   annotations,
		profileRepo:   profileRepo,
		scoreRepo:     scoreRepo,
		userRepo:      userRepo,
		mediaRepo:     mediaRepo,
		qualityRepo:   qualityRepo,
		detectionRepo: detectionRepo,
	}
}

// withCache rebuilds the confidence service over the same database with a
// leaderboard cache attached.
func (e *testEnv) withCache(cache LeaderboardCache) ConfidenceService {
	log := logger.NewNop()
	return NewConfidenceService(
		e.db, log,
		repos.NewAnnotationRepo(e.db, log),
		repos.NewModelDetectionRepo(e.db, log),
		repos.NewConfidenceScoreRepo(e.db, log),
		repos.NewReliabilityProfileRepo(e.db, log),
		repos.NewMediaQualityScoreRepo(e.db, log),
		repos.NewEarningsLedgerRepo(e.db, log),
		repos.NewMediaAssetRepo(e.db, log),
		cache,
	)
}

func (e *testEnv) seedUser(t *testing.T) uuid.UUID {
	t.Helper()
	u := &types.User{
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
	}
	if _, err := e.userRepo.Create(context.Background(), nil, []*types.User{u}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func (e *testEnv) seedMedia(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	m := &types.MediaAsset{
		UserID:    userID,
		MediaType: "video",
		Status:    "ready",
	}
	if _, err := e.mediaRepo.Create(context.Background(), nil, []*types.MediaAsset{m}); err != nil {
		t.Fatalf("seed media asset: %v", err)
	}
	return m.ID
}

func (e *testEnv) seedQuality(t *testing.T, mediaID uuid.UUID, clarity, stability, overall float64) {
	t.Helper()
	q := &types.MediaQualityScore{
		MediaAssetID:   mediaID,
		ClarityScore:   clarity,
		StabilityScore: stability,
		OverallScore:   overall,
	}
	if err := e.qualityRepo.Upsert(context.Background(), nil, q); err != nil {
		t.Fatalf("seed quality score: %v", err)
	}
}

func (e *testEnv) seedAnnotation(t *testing.T, mediaID, userID uuid.UUID, payload types.LabelPayload, timeMs *int64) uuid.UUID {
	t.Helper()
	raw, err := payload.ToJSON()
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	a := &types.Annotation{
		MediaAssetID:     mediaID,
		UserID:           userID,
		Kind:             payload.Kind,
		Payload:          raw,
		AnnotationTimeMs: timeMs,
	}
	if err := e.db.Create(a).Error; err != nil {
		t.Fatalf("seed annotation: %v", err)
	}
	return a.ID
}

func (e *testEnv) seedDetection(t *testing.T, mediaID uuid.UUID, payload types.LabelPayload) {
	t.Helper()
	raw, err := payload.ToJSON()
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	d := &types.ModelDetection{
		MediaAssetID: mediaID,
		Kind:         payload.Kind,
		Payload:      raw,
		Confidence:   0.9,
		ModelVersion: "det-v1",
	}
	if _, err := e.detectionRepo.Create(context.Background(), nil, []*types.ModelDetection{d}); err != nil {
		t.Fatalf("seed model detection: %v", err)
	}
}

func (e *testEnv) profile(t *testing.T, userID uuid.UUID) *types.UserReliabilityProfile {
	t.Helper()
	var p types.UserReliabilityProfile
	if err := e.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	return &p
}

func boxPayload(x, y, w, h float64, label string) types.LabelPayload {
	return types.LabelPayload{
		Kind: types.LabelKindBoundingBox,
		Box:  &types.BoundingBoxLabel{X: x, Y: y, Width: w, Height: h, Label: label},
	}
}

func spanPayload(startMs, endMs int64, text string) types.LabelPayload {
	return types.LabelPayload{
		Kind: types.LabelKindTranscriptSpan,
		Span: &types.TranscriptSpanLabel{StartMs: startMs, EndMs: endMs, Text: text},
	}
}

func classPayload(tags ...string) types.LabelPayload {
	return types.LabelPayload{
		Kind:  types.LabelKindClassification,
		Class: &types.ClassificationLabel{Tags: tags},
	}
}

func ptrInt64(v int64) *int64 {
	return &v
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
