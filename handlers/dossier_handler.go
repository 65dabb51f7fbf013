package handlers

import (
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"dossierportal-backend/models"
	"dossierportal-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// documentFieldPrefix marks the multipart file fields holding dossier documents
const documentFieldPrefix = "document"

// DossierHandler handles HTTP requests for dossiers
type DossierHandler struct {
	dossierService *service.DossierService
}

// NewDossierHandler creates a new dossier handler
func NewDossierHandler(dossierService *service.DossierService) *DossierHandler {
	return &DossierHandler{dossierService: dossierService}
}

// CreateDossier handles POST /api/dossiers
func (h *DossierHandler) CreateDossier(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "expected a multipart form")
		return
	}

	input := service.DossierInput{
		Nom:             c.PostForm("nom"),
		Prenom:          c.PostForm("prenom"),
		DateNaissance:   c.PostForm("dateNaissance"),
		Sexe:            c.PostForm("sexe"),
		Commune:         c.PostForm("commune"),
		Quartier:        optionalPostForm(c, "quartier"),
		ParentNom:       c.PostForm("parentNom"),
		ParentTelephone: c.PostForm("parentTelephone"),
		ParentEmail:     optionalPostForm(c, "parentEmail"),
		Diagnostic:      optionalPostForm(c, "diagnostic"),
	}

	uploads, closeAll, err := documentUploads(form)
	defer closeAll()
	if err != nil {
		badRequest(c, "could not read uploaded documents")
		return
	}

	result, err := h.dossierService.CreateDossier(c.Request.Context(), service.CreateDossierRequest{
		Actor:     actor(c),
		Input:     input,
		Documents: uploads,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result.Dossier)
}

// documentUploads opens every file of the fields named document* in field
// name order. The returned func closes whatever was opened.
func documentUploads(form *multipart.Form) ([]service.Upload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	names := make([]string, 0, len(form.File))
	for name := range form.File {
		if strings.HasPrefix(name, documentFieldPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var uploads []service.Upload
	for _, name := range names {
		for _, fh := range form.File[name] {
			f, err := fh.Open()
			if err != nil {
				return nil, closeAll, err
			}
			opened = append(opened, f)
			uploads = append(uploads, uploadFrom(fh, f))
		}
	}
	return uploads, closeAll, nil
}

func uploadFrom(fh *multipart.FileHeader, f multipart.File) service.Upload {
	return service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}
}

func optionalPostForm(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}

// ListDossiers handles GET /api/dossiers
func (h *DossierHandler) ListDossiers(c *gin.Context) {
	var filter models.DossierFilter

	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid userId")
			return
		}
		filter.UserID = &id
	}
	if raw := c.Query("statut"); raw != "" {
		st := models.Statut(raw)
		filter.Statut = &st
	}
	filter.SearchTerm = c.Query("q")

	var ok bool
	if filter.Limit, ok = queryInt(c, "limit"); !ok {
		return
	}
	if filter.Offset, ok = queryInt(c, "offset"); !ok {
		return
	}

	result, err := h.dossierService.ListDossiers(c.Request.Context(), service.ListDossiersRequest{
		Actor:  actor(c),
		Filter: filter,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dossiers": result.Dossiers,
		"total":    result.Total,
	})
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "invalid "+key)
		return 0, false
	}
	return n, true
}

// GetDossier handles GET /api/dossiers/:id
func (h *DossierHandler) GetDossier(c *gin.Context) {
	id, ok := pathID(c, "id", "dossier")
	if !ok {
		return
	}

	result, err := h.dossierService.GetDossier(c.Request.Context(), service.GetDossierRequest{
		Actor: actor(c),
		ID:    id,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.Dossier)
}

// ChangeStatusRequest represents the request body for a status change
type ChangeStatusRequest struct {
	Statut string `json:"statut"`
}

// ChangeStatus handles POST /api/dossiers/:id/status
func (h *DossierHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "dossier")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.dossierService.ChangeStatus(c.Request.Context(), service.ChangeStatusRequest{
		Actor:     actor(c),
		DossierID: id,
		Statut:    req.Statut,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.Dossier)
}

// StatusHistory handles GET /api/dossiers/:id/history
func (h *DossierHandler) StatusHistory(c *gin.Context) {
	id, ok := pathID(c, "id", "dossier")
	if !ok {
		return
	}

	result, err := h.dossierService.StatusHistory(c.Request.Context(), service.StatusHistoryRequest{
		Actor:     actor(c),
		DossierID: id,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"changes": result.Changes})
}

// AddCommentRequest represents the request body for a comment
type AddCommentRequest struct {
	Text    string `json:"text"`
	Author  string `json:"author"`
	Interne bool   `json:"interne"`
}

// AddComment handles POST /api/dossiers/:id/commentaires
func (h *DossierHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c, "id", "dossier")
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.dossierService.AddComment(c.Request.Context(), service.AddCommentRequest{
		Actor:     actor(c),
		DossierID: id,
		Text:      req.Text,
		Author:    req.Author,
		Interne:   req.Interne,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result.Commentaire)
}

// DossierStats handles GET /api/stats/dossiers
func (h *DossierHandler) DossierStats(c *gin.Context) {
	result, err := h.dossierService.DossierStats(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
