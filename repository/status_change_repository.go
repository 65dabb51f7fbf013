package repository

import (
	"context"

	"dossierportal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusChangeRepository stores the dossier status audit trail
type StatusChangeRepository struct {
	db *pgxpool.Pool
}

// NewStatusChangeRepository creates a new status change repository
func NewStatusChangeRepository(db *pgxpool.Pool) *StatusChangeRepository {
	return &StatusChangeRepository{db: db}
}

// Create records a status change
func (r *StatusChangeRepository) Create(ctx context.Context, sc *models.StatusChange) error {
	query := `
		INSERT INTO status_changes (id, dossier_id, from_statut, to_statut, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := conn(ctx, r.db).Exec(ctx, query, sc.ID, sc.DossierID, sc.From, sc.To, sc.ChangedBy, sc.ChangedAt)
	return translate(err)
}

// ListByDossierID retrieves the history of a dossier, oldest first
func (r *StatusChangeRepository) ListByDossierID(ctx context.Context, dossierID uuid.UUID) ([]*models.StatusChange, error) {
	query := `
		SELECT id, dossier_id, from_statut, to_statut, changed_by, changed_at
		FROM status_changes
		WHERE dossier_id = $1
		ORDER BY changed_at ASC, seq ASC`

	rows, err := conn(ctx, r.db).Query(ctx, query, dossierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []*models.StatusChange
	for rows.Next() {
		sc := &models.StatusChange{}
		if err := rows.Scan(&sc.ID, &sc.DossierID, &sc.From, &sc.To, &sc.ChangedBy, &sc.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, sc)
	}

	return changes, rows.Err()
}
