package repository

import (
	"context"

	"dossierportal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentaireRepository handles database operations for dossier comments
type CommentaireRepository struct {
	db *pgxpool.Pool
}

// NewCommentaireRepository creates a new comment repository
func NewCommentaireRepository(db *pgxpool.Pool) *CommentaireRepository {
	return &CommentaireRepository{db: db}
}

// Create creates a new comment
func (r *CommentaireRepository) Create(ctx context.Context, c *models.Commentaire) error {
	query := `
		INSERT INTO commentaires (
			id, dossier_id, text, author, author_id, interne, date, date_modification
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := conn(ctx, r.db).Exec(
		ctx, query,
		c.ID,
		c.DossierID,
		c.Text,
		c.Author,
		c.AuthorID,
		c.Interne,
		c.Date,
		c.DateModification,
	)
	return translate(err)
}

// ListByDossierIDs retrieves comments for several dossiers, most recent first.
// Internal notes are skipped unless includeInterne is set.
func (r *CommentaireRepository) ListByDossierIDs(ctx context.Context, dossierIDs []uuid.UUID, includeInterne bool) ([]*models.Commentaire, error) {
	if len(dossierIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, dossier_id, text, author, author_id, interne, date, date_modification
		FROM commentaires
		WHERE dossier_id = ANY($1) AND ($2 OR NOT interne)
		ORDER BY date DESC, seq DESC`

	rows, err := conn(ctx, r.db).Query(ctx, query, dossierIDs, includeInterne)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Commentaire
	for rows.Next() {
		c := &models.Commentaire{}
		if err := rows.Scan(
			&c.ID,
			&c.DossierID,
			&c.Text,
			&c.Author,
			&c.AuthorID,
			&c.Interne,
			&c.Date,
			&c.DateModification,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
