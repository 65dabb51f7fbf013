package service

import (
	"context"
	"time"

	"dossierportal-backend/models"
	"dossierportal-backend/repository"

	"github.com/google/uuid"
)

// TransactionManager runs a function in a single transaction
type TransactionManager interface {
	ExecTx(ctx context.Context, fn repository.TxFn) error
}

// DossierRepository persists dossiers
type DossierRepository interface {
	Create(ctx context.Context, d *models.Dossier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dossier, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Dossier, error)
	List(ctx context.Context, filter models.DossierFilter) ([]*models.Dossier, error)
	Count(ctx context.Context, filter models.DossierFilter) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, statut models.Statut, modifiedAt time.Time) error
	Touch(ctx context.Context, id uuid.UUID, modifiedAt time.Time) error
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

// DocumentRepository persists document metadata
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByDossierIDs(ctx context.Context, dossierIDs []uuid.UUID) ([]*models.Document, error)
}

// CommentaireRepository persists comments
type CommentaireRepository interface {
	Create(ctx context.Context, c *models.Commentaire) error
	ListByDossierIDs(ctx context.Context, dossierIDs []uuid.UUID, includeInterne bool) ([]*models.Commentaire, error)
}

// StatusChangeRepository persists the status audit trail
type StatusChangeRepository interface {
	Create(ctx context.Context, sc *models.StatusChange) error
	ListByDossierID(ctx context.Context, dossierID uuid.UUID) ([]*models.StatusChange, error)
}

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdateRole(ctx context.Context, u *models.User) error
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	CountByRole(ctx context.Context) ([]models.RoleCount, error)
}

// FormSubmissionRepository persists intake form submissions
type FormSubmissionRepository interface {
	Create(ctx context.Context, s *models.FormSubmission) error
	ListByDossierID(ctx context.Context, dossierID uuid.UUID) ([]*models.FormSubmission, error)
}
