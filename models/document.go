package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a file attached to a dossier
type Document struct {
	ID         uuid.UUID  `json:"id"`
	DossierID  uuid.UUID  `json:"dossierId"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	URL        string     `json:"url"`
	Size       int64      `json:"size"`
	UploadDate time.Time  `json:"uploadDate"`
	UploadedBy *uuid.UUID `json:"uploadedBy,omitempty"`
}
