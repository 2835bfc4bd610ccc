package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/harborml-backend/internal/logger"
	apperrors "github.com/yungbote/harborml-backend/internal/pkg/errors"
	"github.com/yungbote/harborml-backend/internal/repos"
	"github.com/yungbote/harborml-backend/internal/types"
)

type SubmitAnnotationInput struct {
	MediaAssetID     uuid.UUID
	UserID           uuid.UUID
	Payload          types.LabelPayload
	AnnotationTimeMs *int64
}

type AnnotationService interface {
	// Submit stores a new annotation, scores it, and re-scores its siblings
	// because the new label shifts their cross-user agreement baseline.
	Submit(ctx context.Context, input SubmitAnnotationInput) (*types.Annotation, *ScoreBreakdown, error)
	ListForMedia(ctx context.Context, mediaAssetID uuid.UUID) ([]*types.Annotation, error)
}

type annotationService struct {
	db             *gorm.DB
	log            *logger.Logger
	annotationRepo repos.AnnotationRepo
	mediaRepo      repos.MediaAssetRepo
	userRepo       repos.UserRepo
	confidenceSvc  ConfidenceService
}

func NewAnnotationService(
	db *gorm.DB,
	log *logger.Logger,
	annotationRepo repos.AnnotationRepo,
	mediaRepo repos.MediaAssetRepo,
	userRepo repos.UserRepo,
	confidenceSvc ConfidenceService,
) AnnotationService {
	serviceLog := log.With("service", "AnnotationService")
	return &annotationService{
		db:             db,
		log:            serviceLog,
		annotationRepo: annotationRepo,
		mediaRepo:      mediaRepo,
		userRepo:       userRepo,
		confidenceSvc:  confidenceSvc,
	}
}

func (s *annotationService) Submit(ctx context.Context, input SubmitAnnotationInput) (*types.Annotation, *ScoreBreakdown, error) {
	if input.MediaAssetID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, nil, fmt.Errorf("media asset id and user id are required: %w", apperrors.ErrInvalidArgument)
	}
	if err := input.Payload.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, apperrors.ErrInvalidArgument)
	}

	exists, err := s.mediaRepo.Exists(ctx, nil, input.MediaAssetID)
	if err != nil {
		return nil, nil, fmt.Errorf("check media asset: %w", err)
	}
	if !exists {
		return nil, nil, fmt.Errorf("media asset %s: %w", input.MediaAssetID, apperrors.ErrNotFound)
	}

	userExists, err := s.userRepo.Exists(ctx, nil, input.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("check user: %w", err)
	}
	if !userExists {
		return nil, nil, fmt.Errorf("user %s: %w", input.UserID, apperrors.ErrNotFound)
	}

	raw, err := input.Payload.ToJSON()
	if err != nil {
		return nil, nil, fmt.Errorf("encode label payload: %w", err)
	}

	ann := &types.Annotation{
		MediaAssetID:     input.MediaAssetID,
		UserID:           input.UserID,
		Kind:             input.Payload.Kind,
		Payload:          raw,
		AnnotationTimeMs: input.AnnotationTimeMs,
	}
	if _, err := s.annotationRepo.Create(ctx, nil, []*types.Annotation{ann}); err != nil {
		return nil, nil, fmt.Errorf("create annotation: %w", err)
	}

	breakdown, err := s.confidenceSvc.ScoreAnnotation(ctx, ann.ID)
	if err != nil {
		// The annotation is stored; scoring can be retried via the routes.
		s.log.Warn("Annotation stored but scoring failed", "annotation_id", ann.ID, "error", err)
		return ann, nil, nil
	}

	// Sibling scores depend on the agreement baseline the new label just
	// changed, so re-score the rest of the asset.
	siblings, err := s.annotationRepo.GetSiblings(ctx, nil, ann.MediaAssetID, ann.Kind, ann.ID)
	if err != nil {
		s.log.Warn("Failed to load siblings for re-score", "annotation_id", ann.ID, "error", err)
		return ann, breakdown, nil
	}
	if len(siblings) > 0 {
		ids := make([]uuid.UUID, 0, len(siblings))
		for _, sib := range siblings {
			ids = append(ids, sib.ID)
		}
		results := s.confidenceSvc.BatchScore(ctx, ids)
		for id, outcome := range results {
			if outcome.Err != nil && !errors.Is(outcome.Err, apperrors.ErrNotFound) {
				s.log.Warn("Sibling re-score failed", "annotation_id", id, "error", outcome.Err)
			}
		}
	}

	return ann, breakdown, nil
}

func (s *annotationService) ListForMedia(ctx context.Context, mediaAssetID uuid.UUID) ([]*types.Annotation, error) {
	exists, err := s.mediaRepo.Exists(ctx, nil, mediaAssetID)
	if err != nil {
		return nil, fmt.Errorf("check media asset: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("media asset %s: %w", mediaAssetID, apperrors.ErrNotFound)
	}
	return s.annotationRepo.GetByMediaAssetID(ctx, nil, mediaAssetID)
}
