package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/harborml-backend/internal/logger"
	apperrors "github.com/yungbote/harborml-backend/internal/pkg/errors"
	"github.com/yungbote/harborml-backend/internal/services"
	"github.com/yungbote/harborml-backend/internal/types"
)

type AnnotationHandler struct {
	log           *logger.Logger
	annotationSvc services.AnnotationService
}

func NewAnnotationHandler(log *logger.Logger, annotationSvc services.AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{
		log:           log.With("handler", "AnnotationHandler"),
		annotationSvc: annotationSvc,
	}
}

type submitAnnotationRequest struct {
	MediaAssetID     string             `json:"media_asset_id" binding:"required"`
	UserID           string             `json:"user_id" binding:"required"`
	Payload          types.LabelPayload `json:"payload" binding:"required"`
	AnnotationTimeMs *int64             `json:"annotation_time_ms"`
}

// POST /api/annotations
func (h *AnnotationHandler) Submit(c *gin.Context) {
	var req submitAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	mediaID, err := uuid.Parse(req.MediaAssetID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_media_id", err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	ann, breakdown, err := h.annotationSvc.Submit(c.Request.Context(), services.SubmitAnnotationInput{
		MediaAssetID:     mediaID,
		UserID:           userID,
		Payload:          req.Payload,
		AnnotationTimeMs: req.AnnotationTimeMs,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "media_not_found", err)
			return
		}
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "invalid_annotation", err)
			return
		}
		h.log.Error("Failed to submit annotation", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"annotation": ann,
			"score":      breakdown,
		},
	})
}

// GET /api/media/:mediaId/annotations
func (h *AnnotationHandler) ListForMedia(c *gin.Context) {
	mediaID, err := uuid.Parse(c.Param("mediaId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_media_id", err)
		return
	}

	annotations, err := h.annotationSvc.ListForMedia(c.Request.Context(), mediaID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "media_not_found", err)
			return
		}
		h.log.Error("Failed to list annotations", "media_id", mediaID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	RespondOK(c, gin.H{"data": annotations})
}
