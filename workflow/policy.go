// Package workflow holds the dossier status transition table.
//
// Two tables are built in:
//   - open: every status may move to every status, self included
//   - strict: CLOTURE is final, REJETE may only be closed, NOUVEAU cannot be
//     closed without review
//
// A custom table can be loaded from a YAML file.
package workflow

import (
	"fmt"
	"os"
	"sort"

	"dossierportal-backend/models"

	"gopkg.in/yaml.v3"
)

const (
	PolicyOpen   = "open"
	PolicyStrict = "strict"
)

// Policy is an immutable transition table. Safe for concurrent use.
type Policy struct {
	name    string
	allowed map[models.Statut]map[models.Statut]bool
}

// TransitionError is returned when the table forbids a transition
type TransitionError struct {
	Policy string
	From   models.Statut
	To     models.Statut
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed by the %s policy", e.From, e.To, e.Policy)
}

// Open returns the fully connected table
func Open() *Policy {
	table := make(map[models.Statut][]models.Statut, len(models.Statuts))
	for _, from := range models.Statuts {
		table[from] = models.Statuts
	}
	p, _ := New(PolicyOpen, table)
	return p
}

// Strict returns the restricted table
func Strict() *Policy {
	p, _ := New(PolicyStrict, map[models.Statut][]models.Statut{
		models.StatutNouveau:   {models.StatutEnCours, models.StatutIncomplet, models.StatutAccepte, models.StatutRejete},
		models.StatutEnCours:   {models.StatutIncomplet, models.StatutAccepte, models.StatutRejete, models.StatutCloture},
		models.StatutIncomplet: {models.StatutEnCours, models.StatutRejete, models.StatutCloture},
		models.StatutAccepte:   {models.StatutEnCours, models.StatutCloture},
		models.StatutRejete:    {models.StatutCloture},
		models.StatutCloture:   {},
	})
	return p
}

// New builds a policy from an adjacency table. Statuses absent from the
// table have no outgoing transitions.
func New(name string, table map[models.Statut][]models.Statut) (*Policy, error) {
	allowed := make(map[models.Statut]map[models.Statut]bool, len(table))
	for from, targets := range table {
		if !from.Valid() {
			return nil, fmt.Errorf("unknown status %q in transition table", from)
		}
		set := make(map[models.Statut]bool, len(targets))
		for _, to := range targets {
			if !to.Valid() {
				return nil, fmt.Errorf("unknown status %q in transitions of %s", to, from)
			}
			set[to] = true
		}
		allowed[from] = set
	}
	return &Policy{name: name, allowed: allowed}, nil
}

// ByName returns a built-in policy
func ByName(name string) (*Policy, error) {
	switch name {
	case "", PolicyOpen:
		return Open(), nil
	case PolicyStrict:
		return Strict(), nil
	default:
		return nil, fmt.Errorf("unknown transition policy %q (want %s or %s)", name, PolicyOpen, PolicyStrict)
	}
}

type fileFormat struct {
	Name        string              `yaml:"name"`
	Transitions map[string][]string `yaml:"transitions"`
}

// LoadFile reads a transition table from YAML:
//
//	name: foundation-2025
//	transitions:
//	  NOUVEAU: [EN_COURS, REJETE]
//	  EN_COURS: [ACCEPTE, REJETE]
func LoadFile(path string) (*Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transitions file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML transition table
func Parse(raw []byte) (*Policy, error) {
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode transitions: %w", err)
	}
	if len(f.Transitions) == 0 {
		return nil, fmt.Errorf("transitions table is empty")
	}
	if f.Name == "" {
		f.Name = "custom"
	}

	table := make(map[models.Statut][]models.Statut, len(f.Transitions))
	for from, targets := range f.Transitions {
		list := make([]models.Statut, 0, len(targets))
		for _, to := range targets {
			list = append(list, models.Statut(to))
		}
		table[models.Statut(from)] = list
	}
	return New(f.Name, table)
}

// Name returns the policy name used in logs and errors
func (p *Policy) Name() string {
	return p.name
}

// CanTransition reports whether from -> to is allowed
func (p *Policy) CanTransition(from, to models.Statut) bool {
	return p.allowed[from][to]
}

// Check returns a *TransitionError when from -> to is not allowed
func (p *Policy) Check(from, to models.Statut) error {
	if !p.CanTransition(from, to) {
		return &TransitionError{Policy: p.name, From: from, To: to}
	}
	return nil
}

// Targets lists the statuses reachable from the given one, in lifecycle order
func (p *Policy) Targets(from models.Statut) []models.Statut {
	set := p.allowed[from]
	out := make([]models.Statut, 0, len(set))
	for to := range set {
		out = append(out, to)
	}
	sort.Slice(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

func rank(s models.Statut) int {
	for i, st := range models.Statuts {
		if st == s {
			return i
		}
	}
	return len(models.Statuts)
}
