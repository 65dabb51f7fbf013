package handlers

import (
	"fmt"
	"net/http"

	"dossierportal-backend/service"

	"github.com/gin-gonic/gin"
)

// DocumentHandler handles HTTP requests for dossier documents
type DocumentHandler struct {
	dossierService *service.DossierService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(dossierService *service.DossierService) *DocumentHandler {
	return &DocumentHandler{dossierService: dossierService}
}

// UploadDocument handles POST /api/dossiers/:id/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	id, ok := pathID(c, "id", "dossier")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "could not read uploaded file")
		return
	}
	defer f.Close()

	result, err := h.dossierService.AddDocument(c.Request.Context(), service.AddDocumentRequest{
		Actor:     actor(c),
		DossierID: id,
		Upload:    uploadFrom(fileHeader, f),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result.Document)
}

// GetDocument handles GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := pathID(c, "id", "document")
	if !ok {
		return
	}

	result, err := h.dossierService.OpenDocument(c.Request.Context(), service.OpenDocumentRequest{
		Actor:      actor(c),
		DocumentID: id,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	defer result.Content.Close()

	doc := result.Document
	c.DataFromReader(http.StatusOK, doc.Size, doc.Type, result.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", doc.Name),
	})
}
