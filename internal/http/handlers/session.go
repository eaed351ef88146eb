package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldnav/annotation-backend/internal/http/response"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/services"
)

type SessionHandler struct {
	log            *logger.Logger
	sessionService services.SessionService
}

func NewSessionHandler(log *logger.Logger, sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{
		log:            log.With("handler", "SessionHandler"),
		sessionService: sessionService,
	}
}

type startSessionRequest struct {
	CaseID uuid.UUID `json:"case_id" binding:"required"`
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	session, err := h.sessionService.StartSession(c.Request.Context(), req.CaseID)
	if err != nil {
		h.log.Warn("StartSession failed", "error", err, "case_id", req.CaseID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	var navigatorID *uuid.UUID
	if raw := c.Query("navigator_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_navigator_id", err)
			return
		}
		navigatorID = &id
	}
	sessions, err := h.sessionService.ListSessions(c.Request.Context(), navigatorID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	session, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

type submitScoreRequest struct {
	Score int `json:"overall_field_authenticity"`
}

func (h *SessionHandler) SubmitOverallScore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	session, err := h.sessionService.SubmitOverallScore(c.Request.Context(), id, req.Score)
	if err != nil {
		h.log.Warn("SubmitOverallScore failed", "error", err, "session_id", id)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

func (h *SessionHandler) CompleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	session, err := h.sessionService.CompleteSession(c.Request.Context(), id)
	if err != nil {
		h.log.Warn("CompleteSession failed", "error", err, "session_id", id)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.sessionService.DeleteSession(c.Request.Context(), id); err != nil {
		h.log.Warn("DeleteSession failed", "error", err, "session_id", id)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
