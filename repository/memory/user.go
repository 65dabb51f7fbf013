package memory

import (
	"context"
	"sort"
	"strings"

	"dossierportal-backend/models"
	"dossierportal-backend/repository"

	"github.com/google/uuid"
)

// UserRepository stores users in memory
type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return repository.ErrConflict
		}
		if emailTaken(st, u.Email, uuid.Nil) {
			return repository.ErrConflict
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var out *models.User
	err := r.store.read(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.store.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	return r.store.write(ctx, func(st *state) error {
		cur, ok := st.users[u.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if emailTaken(st, u.Email, u.ID) {
			return repository.ErrConflict
		}
		cur.Nom = u.Nom
		cur.Prenom = u.Prenom
		cur.Email = u.Email
		cur.Telephone = u.Telephone
		cur.UpdatedAt = u.UpdatedAt
		st.users[u.ID] = cur
		return nil
	})
}

func (r *UserRepository) UpdateRole(ctx context.Context, u *models.User) error {
	return r.store.write(ctx, func(st *state) error {
		cur, ok := st.users[u.ID]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Role = u.Role
		cur.UpdatedAt = u.UpdatedAt
		st.users[u.ID] = cur
		return nil
	})
}

func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))

	var out []*models.User
	err := r.store.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if filter.Role != nil && u.Role != *filter.Role {
				continue
			}
			if term != "" && !containsFold(term, u.Nom, u.Prenom, u.Email) {
				continue
			}
			u := u
			out = append(out, &u)
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Nom != out[j].Nom {
			return out[i].Nom < out[j].Nom
		}
		if out[i].Prenom != out[j].Prenom {
			return out[i].Prenom < out[j].Prenom
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

func (r *UserRepository) CountByRole(ctx context.Context) ([]models.RoleCount, error) {
	counts := map[models.Role]int{}
	err := r.store.read(ctx, func(st *state) error {
		for _, u := range st.users {
			counts[u.Role]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []models.RoleCount
	for _, role := range models.Roles {
		if n := counts[role]; n > 0 {
			out = append(out, models.RoleCount{Role: role, Count: n})
		}
	}
	return out, nil
}

func emailTaken(st *state, email string, except uuid.UUID) bool {
	for id, u := range st.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
