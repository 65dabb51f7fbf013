package memory

import (
	"context"
	"sort"

	"dossierportal-backend/models"
	"dossierportal-backend/repository"

	"github.com/google/uuid"
)

// DocumentRepository stores document metadata in memory
type DocumentRepository struct {
	store *Store
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.dossiers[doc.DossierID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := st.documents[doc.ID]; ok {
			return repository.ErrConflict
		}
		st.documents[doc.ID] = *doc
		return nil
	})
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var out *models.Document
	err := r.store.read(ctx, func(st *state) error {
		doc, ok := st.documents[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &doc
		return nil
	})
	return out, err
}

func (r *DocumentRepository) ListByDossierIDs(ctx context.Context, dossierIDs []uuid.UUID) ([]*models.Document, error) {
	want := idSet(dossierIDs)
	var out []*models.Document
	err := r.store.read(ctx, func(st *state) error {
		for _, doc := range st.documents {
			if want[doc.DossierID] {
				doc := doc
				out = append(out, &doc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadDate.Equal(out[j].UploadDate) {
			return out[i].UploadDate.Before(out[j].UploadDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

// CommentaireRepository stores comments in insertion order
type CommentaireRepository struct {
	store *Store
}

func (r *CommentaireRepository) Create(ctx context.Context, c *models.Commentaire) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.dossiers[c.DossierID]; !ok {
			return repository.ErrNotFound
		}
		st.commentaires = append(st.commentaires, *c)
		return nil
	})
}

// ListByDossierIDs returns comments most recent first. Ties keep reverse insertion order.
func (r *CommentaireRepository) ListByDossierIDs(ctx context.Context, dossierIDs []uuid.UUID, includeInterne bool) ([]*models.Commentaire, error) {
	want := idSet(dossierIDs)
	var out []*models.Commentaire
	err := r.store.read(ctx, func(st *state) error {
		for i := len(st.commentaires) - 1; i >= 0; i-- {
			c := st.commentaires[i]
			if !want[c.DossierID] || (c.Interne && !includeInterne) {
				continue
			}
			out = append(out, &c)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, err
}

// StatusChangeRepository stores the status history in memory
type StatusChangeRepository struct {
	store *Store
}

func (r *StatusChangeRepository) Create(ctx context.Context, sc *models.StatusChange) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.dossiers[sc.DossierID]; !ok {
			return repository.ErrNotFound
		}
		st.statusChanges = append(st.statusChanges, *sc)
		return nil
	})
}

func (r *StatusChangeRepository) ListByDossierID(ctx context.Context, dossierID uuid.UUID) ([]*models.StatusChange, error) {
	var out []*models.StatusChange
	err := r.store.read(ctx, func(st *state) error {
		for _, sc := range st.statusChanges {
			if sc.DossierID == dossierID {
				sc := sc
				out = append(out, &sc)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangedAt.Before(out[j].ChangedAt) })
	return out, err
}

// FormSubmissionRepository stores form submissions in memory
type FormSubmissionRepository struct {
	store *Store
}

func (r *FormSubmissionRepository) Create(ctx context.Context, s *models.FormSubmission) error {
	return r.store.write(ctx, func(st *state) error {
		if s.DossierID != nil {
			if _, ok := st.dossiers[*s.DossierID]; !ok {
				return repository.ErrNotFound
			}
		}
		cp := *s
		cp.Data = make(models.FormData, len(s.Data))
		for k, v := range s.Data {
			cp.Data[k] = v
		}
		st.forms = append(st.forms, cp)
		return nil
	})
}

func (r *FormSubmissionRepository) ListByDossierID(ctx context.Context, dossierID uuid.UUID) ([]*models.FormSubmission, error) {
	var out []*models.FormSubmission
	err := r.store.read(ctx, func(st *state) error {
		for i := len(st.forms) - 1; i >= 0; i-- {
			s := st.forms[i]
			if s.DossierID != nil && *s.DossierID == dossierID {
				out = append(out, &s)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}
