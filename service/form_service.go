package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dossierportal-backend/auth"
	"dossierportal-backend/forms"
	"dossierportal-backend/models"

	"github.com/google/uuid"
)

// FormService stores intake form submissions
type FormService struct {
	formRepo    FormSubmissionRepository
	dossierRepo DossierRepository
	logger      *slog.Logger
	now         func() time.Time
}

// FormServiceOption is a functional option for FormService
type FormServiceOption func(*FormService)

// WithFormSubmissionRepository sets the submission repository
func WithFormSubmissionRepository(repo FormSubmissionRepository) FormServiceOption {
	return func(s *FormService) {
		s.formRepo = repo
	}
}

// FormWithDossierRepository sets the dossier repository used to check references
func FormWithDossierRepository(repo DossierRepository) FormServiceOption {
	return func(s *FormService) {
		s.dossierRepo = repo
	}
}

// FormWithLogger sets the logger
func FormWithLogger(logger *slog.Logger) FormServiceOption {
	return func(s *FormService) {
		s.logger = logger
	}
}

// NewFormService creates a new form service
func NewFormService(opts ...FormServiceOption) *FormService {
	s := &FormService{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FormService) ready() error {
	switch {
	case s.formRepo == nil:
		return errors.New("form submission repository not set")
	case s.dossierRepo == nil:
		return errors.New("dossier repository not set")
	}
	return nil
}

// Schema returns the field list of a form type
func (s *FormService) Schema(formType string) (*forms.Schema, error) {
	t, ok := forms.ParseType(formType)
	if !ok {
		return nil, notFound("form type")
	}
	schema, _ := forms.Lookup(t)
	return schema, nil
}

// SubmitFormRequest represents a filled-in form
type SubmitFormRequest struct {
	Actor     auth.Principal
	FormType  string
	DossierID *uuid.UUID
	Data      map[string]interface{}
}

// SubmitFormResult carries the stored submission
type SubmitFormResult struct {
	Submission *models.FormSubmission
}

// Submit validates data against the form schema and stores it
func (s *FormService) Submit(ctx context.Context, req SubmitFormRequest) (*SubmitFormResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}

	schema, err := s.Schema(req.FormType)
	if err != nil {
		return nil, err
	}

	data, err := schema.Validate(req.Data)
	if err != nil {
		return nil, fromValidation(err)
	}

	if req.DossierID != nil {
		d, err := s.dossierRepo.GetByID(ctx, *req.DossierID)
		if err != nil {
			return nil, fromRepository("get dossier", "dossier", err)
		}
		if !canSee(req.Actor, d) {
			return nil, notFound("dossier")
		}
	}

	sub := &models.FormSubmission{
		ID:        uuid.New(),
		FormType:  schema.Type,
		DossierID: req.DossierID,
		UserID:    req.Actor.UserID,
		Data:      data,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.formRepo.Create(ctx, sub); err != nil {
		return nil, fromRepository("create form submission", "dossier", err)
	}

	s.logger.InfoContext(ctx, "form submitted",
		slog.String("form_type", string(sub.FormType)),
		slog.String("submission_id", sub.ID.String()),
	)

	return &SubmitFormResult{Submission: sub}, nil
}

// ListFormsRequest represents a request for a dossier's submissions
type ListFormsRequest struct {
	Actor     auth.Principal
	DossierID uuid.UUID
}

// ListFormsResult carries submissions, newest first
type ListFormsResult struct {
	Submissions []*models.FormSubmission
}

// ListForDossier returns the submissions attached to a dossier the actor may see
func (s *FormService) ListForDossier(ctx context.Context, req ListFormsRequest) (*ListFormsResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}

	d, err := s.dossierRepo.GetByID(ctx, req.DossierID)
	if err != nil {
		return nil, fromRepository("get dossier", "dossier", err)
	}
	if !canSee(req.Actor, d) {
		return nil, notFound("dossier")
	}

	subs, err := s.formRepo.ListByDossierID(ctx, req.DossierID)
	if err != nil {
		return nil, fromRepository("list form submissions", "form submission", err)
	}
	if subs == nil {
		subs = []*models.FormSubmission{}
	}
	return &ListFormsResult{Submissions: subs}, nil
}
