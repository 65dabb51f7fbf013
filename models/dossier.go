package models

import (
	"time"

	"github.com/google/uuid"
)

// Statut represents the lifecycle stage of a dossier
type Statut string

const (
	StatutNouveau   Statut = "NOUVEAU"
	StatutEnCours   Statut = "EN_COURS"
	StatutIncomplet Statut = "INCOMPLET"
	StatutAccepte   Statut = "ACCEPTE"
	StatutRejete    Statut = "REJETE"
	StatutCloture   Statut = "CLOTURE"
)

// Statuts lists every dossier status in lifecycle order
var Statuts = []Statut{
	StatutNouveau,
	StatutEnCours,
	StatutIncomplet,
	StatutAccepte,
	StatutRejete,
	StatutCloture,
}

// Valid reports whether s is one of the enumerated statuses
func (s Statut) Valid() bool {
	switch s {
	case StatutNouveau, StatutEnCours, StatutIncomplet, StatutAccepte, StatutRejete, StatutCloture:
		return true
	}
	return false
}

// ParseStatut converts a wire value to a Statut. Matching is case-sensitive.
func ParseStatut(s string) (Statut, bool) {
	st := Statut(s)
	return st, st.Valid()
}

// Sexe represents the sex of the child a dossier is about
type Sexe string

const (
	SexeMasculin Sexe = "M"
	SexeFeminin  Sexe = "F"
)

// Dossier represents a case file for one child
type Dossier struct {
	ID uuid.UUID `json:"id"`

	// Child identity
	Nom           string    `json:"nom"`
	Prenom        string    `json:"prenom"`
	DateNaissance time.Time `json:"dateNaissance"`
	Sexe          Sexe      `json:"sexe"`

	// Location
	Commune  string  `json:"commune"`
	Quartier *string `json:"quartier"`

	// Guardian contact
	ParentNom       string  `json:"parentNom"`
	ParentTelephone string  `json:"parentTelephone"`
	ParentEmail     *string `json:"parentEmail"`

	Diagnostic *string `json:"diagnostic"`
	Statut     Statut  `json:"statut"`

	DateCreation     time.Time `json:"dateCreation"`
	DateModification time.Time `json:"dateModification"`
	UserID           uuid.UUID `json:"userId"`

	Documents    []*Document    `json:"documents"`
	Commentaires []*Commentaire `json:"commentaires"`
}

// DossierFilter narrows a dossier listing. Zero values mean "no constraint".
type DossierFilter struct {
	UserID     *uuid.UUID
	Statut     *Statut
	SearchTerm string
	Limit      int
	Offset     int
}

// StatusCount is the number of dossiers currently in one status
type StatusCount struct {
	Statut Statut `json:"statut"`
	Count  int    `json:"count"`
}
