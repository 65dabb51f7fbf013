package models

import (
	"time"

	"github.com/google/uuid"
)

// Commentaire represents a timestamped note attached to a dossier.
// Author holds the display name; AuthorID links the note to a user when known.
type Commentaire struct {
	ID               uuid.UUID  `json:"id"`
	DossierID        uuid.UUID  `json:"dossierId"`
	Text             string     `json:"text"`
	Author           string     `json:"author"`
	AuthorID         *uuid.UUID `json:"authorId,omitempty"`
	Interne          bool       `json:"interne"`
	Date             time.Time  `json:"date"`
	DateModification time.Time  `json:"dateModification"`
}
