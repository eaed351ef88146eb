package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fieldnav/annotation-backend/internal/http/response"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/services"
)

type CaseHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCaseHandler(log *logger.Logger, catalogService services.CatalogService) *CaseHandler {
	return &CaseHandler{
		log:            log.With("handler", "CaseHandler"),
		catalogService: catalogService,
	}
}

func (h *CaseHandler) ListCases(c *gin.Context) {
	cases, err := h.catalogService.ListCases(c.Request.Context(), c.Query("batch_id"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cases": cases})
}

func (h *CaseHandler) GetCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	syntheticCase, err := h.catalogService.GetCase(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"case": syntheticCase})
}

type caseRequest struct {
	Label             string         `json:"label" binding:"required"`
	NarrativeSummary  string         `json:"narrative_summary"`
	Format1StateLog   datatypes.JSON `json:"format_1_state_log"`
	Format2Triples    datatypes.JSON `json:"format_2_triples"`
	Format3RlScenario datatypes.JSON `json:"format_3_rl_scenario"`
}

func (r caseRequest) toInput() services.CaseInput {
	return services.CaseInput{
		Label:             r.Label,
		NarrativeSummary:  r.NarrativeSummary,
		Format1StateLog:   r.Format1StateLog,
		Format2Triples:    r.Format2Triples,
		Format3RlScenario: r.Format3RlScenario,
	}
}

type createCaseRequest struct {
	BatchID string `json:"batch_id"`
	caseRequest
}

func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req createCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	syntheticCase, err := h.catalogService.CreateCase(c.Request.Context(), req.BatchID, req.toInput())
	if err != nil {
		h.log.Warn("CreateCase failed", "error", err, "label", req.Label)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"case": syntheticCase})
}

type importBatchRequest struct {
	BatchID string        `json:"batch_id"`
	Cases   []caseRequest `json:"cases" binding:"required"`
}

// ImportBatch inserts a set of cases atomically under one batch id.
func (h *CaseHandler) ImportBatch(c *gin.Context) {
	var req importBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	inputs := make([]services.CaseInput, 0, len(req.Cases))
	for _, cr := range req.Cases {
		inputs = append(inputs, cr.toInput())
	}
	cases, err := h.catalogService.ImportBatch(c.Request.Context(), req.BatchID, inputs)
	if err != nil {
		h.log.Warn("ImportBatch failed", "error", err, "batch_id", req.BatchID, "count", len(inputs))
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"cases": cases})
}

type updateCaseRequest struct {
	Label             *string        `json:"label"`
	NarrativeSummary  *string        `json:"narrative_summary"`
	Format1StateLog   datatypes.JSON `json:"format_1_state_log"`
	Format2Triples    datatypes.JSON `json:"format_2_triples"`
	Format3RlScenario datatypes.JSON `json:"format_3_rl_scenario"`
}

func (h *CaseHandler) UpdateCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req updateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	syntheticCase, err := h.catalogService.UpdateCase(c.Request.Context(), id, services.CaseUpdateInput{
		Label:             req.Label,
		NarrativeSummary:  req.NarrativeSummary,
		Format1StateLog:   req.Format1StateLog,
		Format2Triples:    req.Format2Triples,
		Format3RlScenario: req.Format3RlScenario,
	})
	if err != nil {
		h.log.Warn("UpdateCase failed", "error", err, "case_id", id)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"case": syntheticCase})
}

func (h *CaseHandler) DeleteCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.catalogService.DeleteCase(c.Request.Context(), id); err != nil {
		h.log.Warn("DeleteCase failed", "error", err, "case_id", id)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
