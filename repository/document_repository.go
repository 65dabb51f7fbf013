package repository

import (
	"context"

	"dossierportal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles database operations for dossier documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (
			id, dossier_id, name, type, url, size, upload_date, uploaded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := conn(ctx, r.db).Exec(
		ctx, query,
		doc.ID,
		doc.DossierID,
		doc.Name,
		doc.Type,
		doc.URL,
		doc.Size,
		doc.UploadDate,
		doc.UploadedBy,
	)
	return translate(err)
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `
		SELECT id, dossier_id, name, type, url, size, upload_date, uploaded_by
		FROM documents
		WHERE id = $1`

	return scanDocument(conn(ctx, r.db).QueryRow(ctx, query, id))
}

// ListByDossierIDs retrieves the documents of several dossiers in upload order
func (r *DocumentRepository) ListByDossierIDs(ctx context.Context, dossierIDs []uuid.UUID) ([]*models.Document, error) {
	if len(dossierIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, dossier_id, name, type, url, size, upload_date, uploaded_by
		FROM documents
		WHERE dossier_id = ANY($1)
		ORDER BY upload_date ASC, id ASC`

	rows, err := conn(ctx, r.db).Query(ctx, query, dossierIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	doc := &models.Document{}
	err := row.Scan(
		&doc.ID,
		&doc.DossierID,
		&doc.Name,
		&doc.Type,
		&doc.URL,
		&doc.Size,
		&doc.UploadDate,
		&doc.UploadedBy,
	)
	if err != nil {
		return nil, translate(err)
	}
	return doc, nil
}
