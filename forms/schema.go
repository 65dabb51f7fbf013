// Package forms declares the intake form schemas and validates submissions
// against them.
package forms

import (
	"regexp"
	"strings"

	"dossierportal-backend/models"
)

// Kind is the value type of a form field
type Kind string

const (
	KindText    Kind = "text"
	KindDate    Kind = "date"
	KindEmail   Kind = "email"
	KindPhone   Kind = "phone"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
)

// DateLayout is the wire format of date fields
const DateLayout = "2006-01-02"

// PhonePattern matches the phone numbers accepted across the portal
var PhonePattern = regexp.MustCompile(`^\+?[0-9][0-9 .-]{6,18}[0-9]$`)

// Condition makes a field required when another field holds a value
type Condition struct {
	Field  string      `json:"field"`
	Equals interface{} `json:"equals"`
}

// Field describes one form input
type Field struct {
	Name       string     `json:"name"`
	Label      string     `json:"label"`
	Kind       Kind       `json:"kind"`
	Required   bool       `json:"required"`
	RequiredIf *Condition `json:"requiredIf,omitempty"`
	Options    []string   `json:"options,omitempty"`
	MaxLength  int        `json:"maxLength,omitempty"`
}

// Schema is the ordered field list of a form type
type Schema struct {
	Type   models.FormType `json:"type"`
	Fields []Field         `json:"fields"`
}

var schemas = map[models.FormType]*Schema{
	models.FormTypeWISI:  wisi,
	models.FormTypeTARII: tarii,
	models.FormTypeFHN:   fhn,
}

// Lookup returns the schema of a form type
func Lookup(t models.FormType) (*Schema, bool) {
	s, ok := schemas[t]
	return s, ok
}

// ParseType converts a path segment to a FormType, case-insensitively
func ParseType(s string) (models.FormType, bool) {
	for t := range schemas {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

var wisi = &Schema{
	Type: models.FormTypeWISI,
	Fields: []Field{
		{Name: "nom", Label: "Nom", Kind: KindText, Required: true, MaxLength: 120},
		{Name: "prenom", Label: "Prénom", Kind: KindText, Required: true, MaxLength: 120},
		{Name: "dateNaissance", Label: "Date de naissance", Kind: KindDate, Required: true},
		{Name: "lieuNaissance", Label: "Lieu de naissance", Kind: KindText, MaxLength: 120},
		{Name: "adresse", Label: "Adresse", Kind: KindText, MaxLength: 255},
		{Name: "telephone", Label: "Téléphone", Kind: KindPhone},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
		{Name: "typeHandicap", Label: "Type de handicap", Kind: KindText, MaxLength: 255},
		{Name: "niveauEtude", Label: "Niveau d'étude", Kind: KindText, MaxLength: 120},
		{Name: "situationFamiliale", Label: "Situation familiale", Kind: KindText, MaxLength: 120},
		{Name: "nombreEnfants", Label: "Nombre d'enfants", Kind: KindInteger},
		{Name: "profession", Label: "Profession", Kind: KindText, MaxLength: 120},
		{Name: "revenuMensuel", Label: "Revenu mensuel", Kind: KindInteger},
		{Name: "besoins", Label: "Besoins", Kind: KindText, MaxLength: 2000},
	},
}

var situationsMere = []string{"celibataire", "mariee", "pacsee", "concubinage", "separee", "divorcee", "veuve"}
var situationsPere = []string{"celibataire", "marie", "pacse", "concubinage", "separe", "divorce", "veuf"}

var tarii = &Schema{
	Type: models.FormTypeTARII,
	Fields: []Field{
		{Name: "nom", Label: "Nom", Kind: KindText, Required: true, MaxLength: 120},
		{Name: "prenom", Label: "Prénom", Kind: KindText, Required: true, MaxLength: 120},
		{Name: "dateNaissance", Label: "Date de naissance", Kind: KindDate, Required: true},
		{Name: "lieuNaissance", Label: "Lieu de naissance", Kind: KindText, MaxLength: 120},
		{Name: "nationalite", Label: "Nationalité", Kind: KindText, MaxLength: 80},
		{Name: "adresse", Label: "Adresse", Kind: KindText, MaxLength: 255},
		{Name: "telephone", Label: "Téléphone", Kind: KindPhone},
		{Name: "email", Label: "Email", Kind: KindEmail},

		{Name: "nomMere", Label: "Nom de la mère", Kind: KindText, MaxLength: 120},
		{Name: "prenomMere", Label: "Prénom de la mère", Kind: KindText, MaxLength: 120},
		{Name: "dateNaissanceMere", Label: "Date de naissance de la mère", Kind: KindDate},
		{Name: "lieuNaissanceMere", Label: "Lieu de naissance de la mère", Kind: KindText, MaxLength: 120},
		{Name: "nationaliteMere", Label: "Nationalité de la mère", Kind: KindText, MaxLength: 80},
		{Name: "situationFamilialeMere", Label: "Situation familiale de la mère", Kind: KindEnum, Options: situationsMere},
		{Name: "situationProfessionnelleMere", Label: "Situation professionnelle de la mère", Kind: KindText, MaxLength: 120},
		{Name: "telephoneMere", Label: "Téléphone de la mère", Kind: KindPhone},
		{Name: "telephoneProMere", Label: "Téléphone professionnel de la mère", Kind: KindPhone},
		{Name: "emailMere", Label: "Email de la mère", Kind: KindEmail},
		{Name: "mereDecedee", Label: "Mère décédée", Kind: KindBoolean},
		{Name: "dateDecesMere", Label: "Date de décès de la mère", Kind: KindDate,
			RequiredIf: &Condition{Field: "mereDecedee", Equals: true}},

		{Name: "nomPere", Label: "Nom du père", Kind: KindText, MaxLength: 120},
		{Name: "prenomPere", Label: "Prénom du père", Kind: KindText, MaxLength: 120},
		{Name: "dateNaissancePere", Label: "Date de naissance du père", Kind: KindDate},
		{Name: "lieuNaissancePere", Label: "Lieu de naissance du père", Kind: KindText, MaxLength: 120},
		{Name: "situationFamilialePere", Label: "Situation familiale du père", Kind: KindEnum, Options: situationsPere},
		{Name: "situationProfessionnellePere", Label: "Situation professionnelle du père", Kind: KindText, MaxLength: 120},
		{Name: "telephonePere", Label: "Téléphone du père", Kind: KindPhone},
		{Name: "telephoneProPere", Label: "Téléphone professionnel du père", Kind: KindPhone},
		{Name: "emailPere", Label: "Email du père", Kind: KindEmail},
		{Name: "pereDecede", Label: "Père décédé", Kind: KindBoolean},
		{Name: "dateDecesPere", Label: "Date de décès du père", Kind: KindDate,
			RequiredIf: &Condition{Field: "pereDecede", Equals: true}},

		{Name: "autoriteParentale", Label: "Autorité parentale", Kind: KindEnum, Required: true,
			Options: []string{"pere", "mere", "deux", "autre"}},
		{Name: "autreAutoriteDetails", Label: "Précisions sur l'autorité parentale", Kind: KindText, MaxLength: 500,
			RequiredIf: &Condition{Field: "autoriteParentale", Equals: "autre"}},
		{Name: "dateReception", Label: "Date de réception", Kind: KindDate},
	},
}

var fhn = &Schema{
	Type: models.FormTypeFHN,
	Fields: []Field{
		{Name: "estPH", Label: "Je suis la personne handicapée", Kind: KindBoolean},
		{Name: "repondPourPH", Label: "Je réponds pour la personne handicapée", Kind: KindBoolean},
		{Name: "lienFiliation", Label: "Lien de filiation", Kind: KindEnum,
			Options:    []string{"pere", "mere", "tante", "oncle", "autre"},
			RequiredIf: &Condition{Field: "repondPourPH", Equals: true}},
		{Name: "autreLienFiliation", Label: "Autre lien de filiation", Kind: KindText, MaxLength: 120,
			RequiredIf: &Condition{Field: "lienFiliation", Equals: "autre"}},

		{Name: "sexe", Label: "Sexe", Kind: KindEnum, Required: true, Options: []string{"masculin", "feminin"}},
		{Name: "trancheAge", Label: "Tranche d'âge", Kind: KindEnum, Required: true,
			Options: []string{"0-10", "10-15", "15-20", "autre"}},
		{Name: "ageSpecifique", Label: "Âge", Kind: KindInteger,
			RequiredIf: &Condition{Field: "trancheAge", Equals: "autre"}},
		{Name: "ville", Label: "Ville", Kind: KindText, Required: true, MaxLength: 120},
		{Name: "quartier", Label: "Quartier", Kind: KindText, MaxLength: 120},

		{Name: "handicapSensoriel", Label: "Handicap sensoriel", Kind: KindBoolean},
		{Name: "sousTypeSensoriel", Label: "Précision (sensoriel)", Kind: KindText, MaxLength: 120},
		{Name: "handicapPhysique", Label: "Handicap physique", Kind: KindBoolean},
		{Name: "sousTypePhysique", Label: "Précision (physique)", Kind: KindText, MaxLength: 120},
		{Name: "handicapMental", Label: "Handicap mental", Kind: KindBoolean},
		{Name: "sousTypeMental", Label: "Précision (mental)", Kind: KindText, MaxLength: 120},
		{Name: "handicapPsychique", Label: "Handicap psychique", Kind: KindBoolean},
		{Name: "sousTypePsychique", Label: "Précision (psychique)", Kind: KindText, MaxLength: 120},
	},
}
