package repository

import (
	"context"

	"dossierportal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FormSubmissionRepository handles database operations for intake forms
type FormSubmissionRepository struct {
	db *pgxpool.Pool
}

// NewFormSubmissionRepository creates a new form submission repository
func NewFormSubmissionRepository(db *pgxpool.Pool) *FormSubmissionRepository {
	return &FormSubmissionRepository{db: db}
}

// Create stores a validated submission
func (r *FormSubmissionRepository) Create(ctx context.Context, s *models.FormSubmission) error {
	query := `
		INSERT INTO form_submissions (id, form_type, dossier_id, user_id, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := conn(ctx, r.db).Exec(ctx, query, s.ID, s.FormType, s.DossierID, s.UserID, s.Data, s.CreatedAt)
	return translate(err)
}

// ListByDossierID retrieves submissions attached to a dossier, newest first
func (r *FormSubmissionRepository) ListByDossierID(ctx context.Context, dossierID uuid.UUID) ([]*models.FormSubmission, error) {
	query := `
		SELECT id, form_type, dossier_id, user_id, data, created_at
		FROM form_submissions
		WHERE dossier_id = $1
		ORDER BY created_at DESC`

	rows, err := conn(ctx, r.db).Query(ctx, query, dossierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.FormSubmission
	for rows.Next() {
		s := &models.FormSubmission{}
		if err := rows.Scan(&s.ID, &s.FormType, &s.DossierID, &s.UserID, &s.Data, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return subs, rows.Err()
}
