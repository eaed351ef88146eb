package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/http/response"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/requestdata"
	"github.com/fieldnav/annotation-backend/internal/services"
)

type ProfileHandler struct {
	log            *logger.Logger
	profileService services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:            log.With("handler", "ProfileHandler"),
		profileService: profileService,
	}
}

type createProfileRequest struct {
	ID       *uuid.UUID `json:"id"`
	Role     string     `json:"role" binding:"required"`
	FullName string     `json:"full_name" binding:"required"`
	PIN      *string    `json:"pin"`
}

// CreateProfile provisions a profile row. When no id is supplied the
// caller's own identity is used, which is the self-provisioning path.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	id := uuid.Nil
	if req.ID != nil {
		id = *req.ID
	} else if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		id = rd.CallerID
	}
	profile, err := h.profileService.CreateProfile(c.Request.Context(), services.CreateProfileInput{
		ID:       id,
		Role:     types.Role(req.Role),
		FullName: req.FullName,
		PIN:      req.PIN,
	})
	if err != nil {
		h.log.Warn("CreateProfile failed", "error", err, "profile_id", id)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"profile": profile})
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, err := h.profileService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	profile, err := h.profileService.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var role *types.Role
	if raw := c.Query("role"); raw != "" {
		r := types.Role(raw)
		if !r.Valid() {
			response.RespondError(c, http.StatusBadRequest, "invalid_role", nil)
			return
		}
		role = &r
	}
	profiles, err := h.profileService.ListProfiles(c.Request.Context(), role)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profiles": profiles})
}

type updateProfileRequest struct {
	Role     *string `json:"role"`
	FullName *string `json:"full_name"`
	PIN      *string `json:"pin"`
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	input := services.UpdateProfileInput{
		FullName: req.FullName,
		PIN:      req.PIN,
	}
	if req.Role != nil {
		r := types.Role(*req.Role)
		input.Role = &r
	}
	profile, err := h.profileService.UpdateProfile(c.Request.Context(), id, input)
	if err != nil {
		h.log.Warn("UpdateProfile failed", "error", err, "profile_id", id)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.profileService.DeleteProfile(c.Request.Context(), id); err != nil {
		h.log.Warn("DeleteProfile failed", "error", err, "profile_id", id)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}

type verifyPINRequest struct {
	PIN string `json:"pin" binding:"required"`
}

func (h *ProfileHandler) VerifyPIN(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req verifyPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	ok, err := h.profileService.VerifyPIN(c.Request.Context(), id, req.PIN)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"valid": ok})
}
