package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange records one accepted dossier status transition
type StatusChange struct {
	ID        uuid.UUID `json:"id"`
	DossierID uuid.UUID `json:"dossierId"`
	From      Statut    `json:"from"`
	To        Statut    `json:"to"`
	ChangedBy uuid.UUID `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}
