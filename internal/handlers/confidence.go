package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/harborml-backend/internal/logger"
	apperrors "github.com/yungbote/harborml-backend/internal/pkg/errors"
	"github.com/yungbote/harborml-backend/internal/services"
)

type ConfidenceHandler struct {
	log           *logger.Logger
	confidenceSvc services.ConfidenceService
}

func NewConfidenceHandler(log *logger.Logger, confidenceSvc services.ConfidenceService) *ConfidenceHandler {
	return &ConfidenceHandler{
		log:           log.With("handler", "ConfidenceHandler"),
		confidenceSvc: confidenceSvc,
	}
}

type componentView struct {
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// GET /api/confidence/annotations/:annotationId
func (h *ConfidenceHandler) GetScore(c *gin.Context) {
	annotationID, err := uuid.Parse(c.Param("annotationId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_annotation_id", err)
		return
	}

	score, err := h.confidenceSvc.GetStoredScore(c.Request.Context(), annotationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "score_not_found", err)
			return
		}
		h.log.Error("Failed to fetch confidence score", "annotation_id", annotationID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	RespondOK(c, gin.H{
		"data": gin.H{
			"annotation_id": annotationID,
			"components": gin.H{
				"model_agreement":      componentView{Value: score.ModelAgreement, Weight: 0.4},
				"cross_user_agreement": componentView{Value: score.CrossUserAgreement, Weight: 0.3},
				"user_reliability":     componentView{Value: score.UserReliability, Weight: 0.2},
				"context_quality":      componentView{Value: score.ContextQuality, Weight: 0.1},
			},
			"confidence_score": score.ConfidenceScore,
			"training_weight":  score.TrainingWeight,
			"computed_at":      score.ComputedAt,
		},
	})
}

// POST /api/confidence/annotations/:annotationId/score
func (h *ConfidenceHandler) ScoreAnnotation(c *gin.Context) {
	annotationID, err := uuid.Parse(c.Param("annotationId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_annotation_id", err)
		return
	}

	breakdown, err := h.confidenceSvc.ScoreAnnotation(c.Request.Context(), annotationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "annotation_not_found", err)
			return
		}
		h.log.Error("Failed to score annotation", "annotation_id", annotationID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	RespondOK(c, gin.H{
		"data":    breakdown,
		"message": "Annotation scored successfully",
	})
}

type batchScoreRequest struct {
	AnnotationIDs []string `json:"annotation_ids"`
}

// POST /api/confidence/batch-score
func (h *ConfidenceHandler) BatchScore(c *gin.Context) {
	var req batchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.AnnotationIDs == nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("annotation_ids array is required"))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.AnnotationIDs))
	for _, raw := range req.AnnotationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_annotation_id", fmt.Errorf("invalid annotation id %q: %w", raw, err))
			return
		}
		ids = append(ids, id)
	}

	results := h.confidenceSvc.BatchScore(c.Request.Context(), ids)

	scored := gin.H{}
	failed := gin.H{}
	for id, outcome := range results {
		if outcome.Err != nil {
			failed[id.String()] = outcome.Err.Error()
			continue
		}
		scored[id.String()] = outcome.Breakdown
	}

	RespondOK(c, gin.H{
		"data":    scored,
		"errors":  failed,
		"message": fmt.Sprintf("Scored %d of %d annotations", len(scored), len(ids)),
	})
}

// GET /api/confidence/users/:userId/reliability
func (h *ConfidenceHandler) GetReliability(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	view, err := h.confidenceSvc.GetReliabilityProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "profile_not_found", err)
			return
		}
		h.log.Error("Failed to fetch reliability profile", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	RespondOK(c, gin.H{"data": view})
}

// GET /api/confidence/leaderboard?limit=N
func (h *ConfidenceHandler) GetLeaderboard(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}

	entries, err := h.confidenceSvc.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		h.log.Error("Failed to fetch leaderboard", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	RespondOK(c, gin.H{"data": entries})
}

// POST /api/confidence/media/:mediaId/rescore
func (h *ConfidenceHandler) RescoreMedia(c *gin.Context) {
	mediaID, err := uuid.Parse(c.Param("mediaId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_media_id", err)
		return
	}

	if err := h.confidenceSvc.RescoreForMedia(c.Request.Context(), mediaID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "media_not_found", err)
			return
		}
		h.log.Error("Failed to re-score media annotations", "media_id", mediaID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	RespondOK(c, gin.H{"message": fmt.Sprintf("Re-scored all annotations for media %s", mediaID)})
}

// POST /api/confidence/annotations/:annotationId/xp
func (h *ConfidenceHandler) GrantXP(c *gin.Context) {
	annotationID, err := uuid.Parse(c.Param("annotationId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_annotation_id", err)
		return
	}

	xp, err := h.confidenceSvc.ComputeAnnotationXP(c.Request.Context(), annotationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "annotation_not_found", err)
			return
		}
		h.log.Error("Failed to grant annotation XP", "annotation_id", annotationID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	RespondOK(c, gin.H{"data": gin.H{"annotation_id": annotationID, "xp": xp}})
}

// GET /api/confidence/users/:userId/earnings
func (h *ConfidenceHandler) GetEarnings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	entries, err := h.confidenceSvc.GetEarnings(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to fetch earnings ledger", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	RespondOK(c, gin.H{"data": entries})
}
