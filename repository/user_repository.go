package repository

import (
	"context"
	"fmt"
	"strings"

	"dossierportal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, nom, prenom, email, password_hash, telephone, role, created_at, updated_at`

// Create creates a new user. Returns ErrConflict when the email is taken.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := conn(ctx, r.db).Exec(
		ctx, query,
		u.ID,
		u.Nom,
		u.Prenom,
		u.Email,
		u.PasswordHash,
		u.Telephone,
		u.Role,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return translate(err)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(conn(ctx, r.db).QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(conn(ctx, r.db).QueryRow(ctx, query, email))
}

// Update updates the profile fields of a user
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET
			nom = $2,
			prenom = $3,
			email = $4,
			telephone = $5,
			updated_at = $6
		WHERE id = $1`

	tag, err := conn(ctx, r.db).Exec(ctx, query, u.ID, u.Nom, u.Prenom, u.Email, u.Telephone, u.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRole changes the role of a user
func (r *UserRepository) UpdateRole(ctx context.Context, u *models.User) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`, u.ID, u.Role, u.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves users matching the filter ordered by name
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	var (
		clauses []string
		args    []interface{}
	)
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		args = append(args, likePattern(term))
		clauses = append(clauses, fmt.Sprintf("(nom ILIKE $%[1]d OR prenom ILIKE $%[1]d OR email ILIKE $%[1]d)", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY nom ASC, prenom ASC, id ASC"

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// CountByRole returns how many users hold each role
func (r *UserRepository) CountByRole(ctx context.Context) ([]models.RoleCount, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.RoleCount
	for rows.Next() {
		var c models.RoleCount
		if err := rows.Scan(&c.Role, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Nom,
		&u.Prenom,
		&u.Email,
		&u.PasswordHash,
		&u.Telephone,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}
