package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"dossierportal-backend/models"
	"dossierportal-backend/repository"

	"github.com/google/uuid"
)

// DossierRepository stores dossiers in memory
type DossierRepository struct {
	store *Store
}

func (r *DossierRepository) Create(ctx context.Context, d *models.Dossier) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.dossiers[d.ID]; ok {
			return repository.ErrConflict
		}
		if _, ok := st.users[d.UserID]; !ok {
			return repository.ErrNotFound
		}
		st.dossiers[d.ID] = stripDossier(*d)
		return nil
	})
}

func (r *DossierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dossier, error) {
	var out *models.Dossier
	err := r.store.read(ctx, func(st *state) error {
		d, ok := st.dossiers[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &d
		return nil
	})
	return out, err
}

// GetByIDForUpdate is GetByID; transactions are already serialized
func (r *DossierRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Dossier, error) {
	return r.GetByID(ctx, id)
}

func (r *DossierRepository) List(ctx context.Context, filter models.DossierFilter) ([]*models.Dossier, error) {
	var out []*models.Dossier
	err := r.store.read(ctx, func(st *state) error {
		out = matchDossiers(st, filter)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *DossierRepository) Count(ctx context.Context, filter models.DossierFilter) (int, error) {
	var n int
	err := r.store.read(ctx, func(st *state) error {
		n = len(matchDossiers(st, filter))
		return nil
	})
	return n, err
}

func (r *DossierRepository) UpdateStatus(ctx context.Context, id uuid.UUID, statut models.Statut, modifiedAt time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		d, ok := st.dossiers[id]
		if !ok {
			return repository.ErrNotFound
		}
		d.Statut = statut
		d.DateModification = modifiedAt
		st.dossiers[id] = d
		return nil
	})
}

func (r *DossierRepository) Touch(ctx context.Context, id uuid.UUID, modifiedAt time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		d, ok := st.dossiers[id]
		if !ok {
			return repository.ErrNotFound
		}
		d.DateModification = modifiedAt
		st.dossiers[id] = d
		return nil
	})
}

func (r *DossierRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	counts := map[models.Statut]int{}
	err := r.store.read(ctx, func(st *state) error {
		for _, d := range st.dossiers {
			counts[d.Statut]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []models.StatusCount
	for _, s := range models.Statuts {
		if n := counts[s]; n > 0 {
			out = append(out, models.StatusCount{Statut: s, Count: n})
		}
	}
	return out, nil
}

func matchDossiers(st *state, filter models.DossierFilter) []*models.Dossier {
	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))

	var out []*models.Dossier
	for _, d := range st.dossiers {
		if filter.UserID != nil && d.UserID != *filter.UserID {
			continue
		}
		if filter.Statut != nil && d.Statut != *filter.Statut {
			continue
		}
		if term != "" && !containsFold(term, d.Nom, d.Prenom, d.ParentNom, d.Commune) {
			continue
		}
		d := d
		out = append(out, &d)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateCreation.Equal(out[j].DateCreation) {
			return out[i].DateCreation.After(out[j].DateCreation)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func stripDossier(d models.Dossier) models.Dossier {
	d.Documents = nil
	d.Commentaires = nil
	return d
}
