package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldnav/annotation-backend/internal/http/response"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/services"
)

type RatingHandler struct {
	log           *logger.Logger
	ratingService services.RatingService
}

func NewRatingHandler(log *logger.Logger, ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{
		log:           log.With("handler", "RatingHandler"),
		ratingService: ratingService,
	}
}

func ratingPathParams(c *gin.Context) (uuid.UUID, int, bool) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, 0, false
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_index", err)
		return uuid.Nil, 0, false
	}
	return sessionID, index, true
}

type timelineRatingRequest struct {
	ClinicalImpact            string `json:"clinical_impact"`
	EnvironmentalImpact       string `json:"environmental_impact"`
	HomeServiceAdoptionImpact string `json:"home_service_adoption_impact"`
	EddDelta                  string `json:"edd_delta"`
	BottleneckRealism         bool   `json:"bottleneck_realism"`
}

func (h *RatingHandler) UpsertTimelineRating(c *gin.Context) {
	sessionID, eventIndex, ok := ratingPathParams(c)
	if !ok {
		return
	}
	var req timelineRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rating, err := h.ratingService.UpsertTimelineRating(c.Request.Context(), sessionID, eventIndex, services.Format1Input{
		ClinicalImpact:            req.ClinicalImpact,
		EnvironmentalImpact:       req.EnvironmentalImpact,
		HomeServiceAdoptionImpact: req.HomeServiceAdoptionImpact,
		EddDelta:                  req.EddDelta,
		BottleneckRealism:         req.BottleneckRealism,
	})
	if err != nil {
		h.log.Warn("UpsertTimelineRating failed", "error", err, "session_id", sessionID, "event_index", eventIndex)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rating": rating})
}

type tacticRatingRequest struct {
	IntentFeasibility int `json:"intent_feasibility"`
}

func (h *RatingHandler) UpsertTacticRating(c *gin.Context) {
	sessionID, tripleIndex, ok := ratingPathParams(c)
	if !ok {
		return
	}
	var req tacticRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rating, err := h.ratingService.UpsertTacticRating(c.Request.Context(), sessionID, tripleIndex, req.IntentFeasibility)
	if err != nil {
		h.log.Warn("UpsertTacticRating failed", "error", err, "session_id", sessionID, "triple_index", tripleIndex)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rating": rating})
}

type boundaryRatingRequest struct {
	PnCategory         string `json:"pn_category"`
	AiIntendedCategory string `json:"ai_intended_category"`
}

func (h *RatingHandler) UpsertBoundaryRating(c *gin.Context) {
	sessionID, optionIndex, ok := ratingPathParams(c)
	if !ok {
		return
	}
	var req boundaryRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rating, err := h.ratingService.UpsertBoundaryRating(c.Request.Context(), sessionID, optionIndex, services.Format3Input{
		PnCategory:         req.PnCategory,
		AiIntendedCategory: req.AiIntendedCategory,
	})
	if err != nil {
		h.log.Warn("UpsertBoundaryRating failed", "error", err, "session_id", sessionID, "option_index", optionIndex)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rating": rating})
}

func (h *RatingHandler) ListSessionRatings(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	ratings, err := h.ratingService.ListSessionRatings(c.Request.Context(), sessionID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ratings": ratings})
}
