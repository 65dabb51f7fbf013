package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dossierportal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DossierRepository handles database operations for dossiers
type DossierRepository struct {
	db *pgxpool.Pool
}

// NewDossierRepository creates a new dossier repository
func NewDossierRepository(db *pgxpool.Pool) *DossierRepository {
	return &DossierRepository{db: db}
}

const dossierColumns = `
	id, nom, prenom, date_naissance, sexe, commune, quartier,
	parent_nom, parent_telephone, parent_email, diagnostic,
	statut, date_creation, date_modification, user_id`

// Create inserts a dossier. ID and timestamps are set by the caller.
func (r *DossierRepository) Create(ctx context.Context, d *models.Dossier) error {
	query := `
		INSERT INTO dossiers (` + dossierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := conn(ctx, r.db).Exec(
		ctx, query,
		d.ID,
		d.Nom,
		d.Prenom,
		d.DateNaissance,
		d.Sexe,
		d.Commune,
		d.Quartier,
		d.ParentNom,
		d.ParentTelephone,
		d.ParentEmail,
		d.Diagnostic,
		d.Statut,
		d.DateCreation,
		d.DateModification,
		d.UserID,
	)
	return translate(err)
}

// GetByID retrieves a dossier by ID without its documents or comments
func (r *DossierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dossier, error) {
	query := `SELECT ` + dossierColumns + ` FROM dossiers WHERE id = $1`
	return scanDossier(conn(ctx, r.db).QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the dossier row until the surrounding transaction ends
func (r *DossierRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Dossier, error) {
	query := `SELECT ` + dossierColumns + ` FROM dossiers WHERE id = $1 FOR UPDATE`
	return scanDossier(conn(ctx, r.db).QueryRow(ctx, query, id))
}

// List retrieves dossiers matching the filter, newest first
func (r *DossierRepository) List(ctx context.Context, filter models.DossierFilter) ([]*models.Dossier, error) {
	where, args := dossierWhere(filter)
	query := `SELECT ` + dossierColumns + ` FROM dossiers` + where +
		` ORDER BY date_creation DESC, id DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dossiers []*models.Dossier
	for rows.Next() {
		d, err := scanDossier(rows)
		if err != nil {
			return nil, err
		}
		dossiers = append(dossiers, d)
	}

	return dossiers, rows.Err()
}

// Count returns the number of dossiers matching the filter, ignoring limit and offset
func (r *DossierRepository) Count(ctx context.Context, filter models.DossierFilter) (int, error) {
	where, args := dossierWhere(filter)

	var count int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM dossiers`+where, args...).Scan(&count)
	return count, err
}

// UpdateStatus sets the status and modification timestamp
func (r *DossierRepository) UpdateStatus(ctx context.Context, id uuid.UUID, statut models.Statut, modifiedAt time.Time) error {
	query := `UPDATE dossiers SET statut = $2, date_modification = $3 WHERE id = $1`

	tag, err := conn(ctx, r.db).Exec(ctx, query, id, statut, modifiedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Touch sets the modification timestamp only
func (r *DossierRepository) Touch(ctx context.Context, id uuid.UUID, modifiedAt time.Time) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE dossiers SET date_modification = $2 WHERE id = $1`, id, modifiedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns how many dossiers sit in each status
func (r *DossierRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT statut, COUNT(*) FROM dossiers GROUP BY statut`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Statut, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func dossierWhere(filter models.DossierFilter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Statut != nil {
		args = append(args, *filter.Statut)
		clauses = append(clauses, fmt.Sprintf("statut = $%d", len(args)))
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		args = append(args, likePattern(term))
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(nom ILIKE $%[1]d OR prenom ILIKE $%[1]d OR parent_nom ILIKE $%[1]d OR commune ILIKE $%[1]d)", n))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// likePattern wraps term for a substring ILIKE match, escaping wildcards
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

func scanDossier(row pgx.Row) (*models.Dossier, error) {
	d := &models.Dossier{}
	err := row.Scan(
		&d.ID,
		&d.Nom,
		&d.Prenom,
		&d.DateNaissance,
		&d.Sexe,
		&d.Commune,
		&d.Quartier,
		&d.ParentNom,
		&d.ParentTelephone,
		&d.ParentEmail,
		&d.Diagnostic,
		&d.Statut,
		&d.DateCreation,
		&d.DateModification,
		&d.UserID,
	)
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}
