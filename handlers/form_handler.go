package handlers

import (
	"net/http"

	"dossierportal-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FormHandler handles HTTP requests for WISI, TARII and FHN forms
type FormHandler struct {
	formService *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formService *service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// GetSchema handles GET /api/formulaires/:type/schema
func (h *FormHandler) GetSchema(c *gin.Context) {
	schema, err := h.formService.Schema(c.Param("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schema)
}

// SubmitFormRequest represents the request body for a form submission
type SubmitFormRequest struct {
	DossierID *uuid.UUID             `json:"dossierId"`
	Data      map[string]interface{} `json:"data"`
}

// SubmitForm handles POST /api/formulaires/:type
func (h *FormHandler) SubmitForm(c *gin.Context) {
	var req SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.formService.Submit(c.Request.Context(), service.SubmitFormRequest{
		Actor:     actor(c),
		FormType:  c.Param("type"),
		DossierID: req.DossierID,
		Data:      req.Data,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result.Submission)
}

// ListDossierForms handles GET /api/dossiers/:id/formulaires
func (h *FormHandler) ListDossierForms(c *gin.Context) {
	id, ok := pathID(c, "id", "dossier")
	if !ok {
		return
	}

	result, err := h.formService.ListForDossier(c.Request.Context(), service.ListFormsRequest{
		Actor:     actor(c),
		DossierID: id,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"formulaires": result.Submissions})
}
