package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"dossierportal-backend/auth"
	"dossierportal-backend/forms"
	"dossierportal-backend/models"
	"dossierportal-backend/storage"
	"dossierportal-backend/workflow"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// MaxListLimit caps the page size of dossier listings
const MaxListLimit = 500

const maxCommentLength = 5000

// DossierService handles business logic for dossiers
type DossierService struct {
	dossierRepo     DossierRepository
	documentRepo    DocumentRepository
	commentaireRepo CommentaireRepository
	historyRepo     StatusChangeRepository
	txManager       TransactionManager
	documentStore   storage.Storage
	policy          *workflow.Policy
	notifier        Notifier
	directory       *UserDirectory
	logger          *slog.Logger
	now             func() time.Time
}

// DossierServiceOption is a functional option for DossierService
type DossierServiceOption func(*DossierService)

// WithDossierRepository sets the dossier repository
func WithDossierRepository(repo DossierRepository) DossierServiceOption {
	return func(s *DossierService) {
		s.dossierRepo = repo
	}
}

// WithDocumentRepository sets the document repository
func WithDocumentRepository(repo DocumentRepository) DossierServiceOption {
	return func(s *DossierService) {
		s.documentRepo = repo
	}
}

// WithCommentaireRepository sets the comment repository
func WithCommentaireRepository(repo CommentaireRepository) DossierServiceOption {
	return func(s *DossierService) {
		s.commentaireRepo = repo
	}
}

// WithStatusChangeRepository sets the status history repository
func WithStatusChangeRepository(repo StatusChangeRepository) DossierServiceOption {
	return func(s *DossierService) {
		s.historyRepo = repo
	}
}

// WithTransactionManager sets the transaction manager
func WithTransactionManager(tm TransactionManager) DossierServiceOption {
	return func(s *DossierService) {
		s.txManager = tm
	}
}

// WithDocumentStorage sets the object store for document bytes
func WithDocumentStorage(store storage.Storage) DossierServiceOption {
	return func(s *DossierService) {
		s.documentStore = store
	}
}

// WithTransitionPolicy sets the status transition table
func WithTransitionPolicy(p *workflow.Policy) DossierServiceOption {
	return func(s *DossierService) {
		s.policy = p
	}
}

// WithNotifier sets the notifier used on status changes
func WithNotifier(n Notifier) DossierServiceOption {
	return func(s *DossierService) {
		s.notifier = n
	}
}

// WithUserDirectory sets the display name resolver
func WithUserDirectory(d *UserDirectory) DossierServiceOption {
	return func(s *DossierService) {
		s.directory = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) DossierServiceOption {
	return func(s *DossierService) {
		s.logger = logger
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) DossierServiceOption {
	return func(s *DossierService) {
		s.now = now
	}
}

// NewDossierService creates a new dossier service
func NewDossierService(opts ...DossierServiceOption) *DossierService {
	s := &DossierService{
		policy: workflow.Open(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.logger)
	}
	return s
}

func (s *DossierService) ready() error {
	switch {
	case s.dossierRepo == nil:
		return errors.New("dossier repository not set")
	case s.documentRepo == nil:
		return errors.New("document repository not set")
	case s.commentaireRepo == nil:
		return errors.New("commentaire repository not set")
	case s.historyRepo == nil:
		return errors.New("status change repository not set")
	case s.txManager == nil:
		return errors.New("transaction manager not set")
	case s.documentStore == nil:
		return errors.New("document storage not set")
	}
	return nil
}

// clock returns the current time at the precision Postgres stores
func (s *DossierService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// nextModification returns a timestamp strictly after prev
func nextModification(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}

func requireActor(actor auth.Principal) error {
	if actor.UserID == uuid.Nil {
		return &UnauthorizedError{Message: "authentication required"}
	}
	return nil
}

// canSee reports whether actor may read dossier d
func canSee(actor auth.Principal, d *models.Dossier) bool {
	return actor.IsInternal() || d.UserID == actor.UserID
}

// DossierInput holds the client-supplied fields of a new dossier
type DossierInput struct {
	Nom             string  `json:"nom"`
	Prenom          string  `json:"prenom"`
	DateNaissance   string  `json:"dateNaissance"`
	Sexe            string  `json:"sexe"`
	Commune         string  `json:"commune"`
	Quartier        *string `json:"quartier"`
	ParentNom       string  `json:"parentNom"`
	ParentTelephone string  `json:"parentTelephone"`
	ParentEmail     *string `json:"parentEmail"`
	Diagnostic      *string `json:"diagnostic"`
}

func (in *DossierInput) normalize() {
	in.Nom = strings.TrimSpace(in.Nom)
	in.Prenom = strings.TrimSpace(in.Prenom)
	in.DateNaissance = strings.TrimSpace(in.DateNaissance)
	in.Sexe = strings.ToUpper(strings.TrimSpace(in.Sexe))
	in.Commune = strings.TrimSpace(in.Commune)
	in.ParentNom = strings.TrimSpace(in.ParentNom)
	in.ParentTelephone = strings.TrimSpace(in.ParentTelephone)
	in.Quartier = trimOptional(in.Quartier)
	in.ParentEmail = trimOptional(in.ParentEmail)
	in.Diagnostic = trimOptional(in.Diagnostic)
	if in.ParentEmail != nil {
		lower := strings.ToLower(*in.ParentEmail)
		in.ParentEmail = &lower
	}
}

func (in DossierInput) validate(today time.Time) error {
	notFuture := validation.By(func(v interface{}) error {
		str, _ := v.(string)
		d, err := time.Parse(forms.DateLayout, str)
		if err != nil {
			return nil
		}
		if d.After(today) {
			return errors.New("must not be in the future")
		}
		return nil
	})

	return validation.ValidateStruct(&in,
		validation.Field(&in.Nom, validation.Required, validation.RuneLength(1, 120)),
		validation.Field(&in.Prenom, validation.Required, validation.RuneLength(1, 120)),
		validation.Field(&in.DateNaissance, validation.Required, validation.Date(forms.DateLayout), notFuture),
		validation.Field(&in.Sexe, validation.Required, validation.In(string(models.SexeMasculin), string(models.SexeFeminin))),
		validation.Field(&in.Commune, validation.Required, validation.RuneLength(1, 120)),
		validation.Field(&in.Quartier, validation.RuneLength(0, 120)),
		validation.Field(&in.ParentNom, validation.Required, validation.RuneLength(1, 240)),
		validation.Field(&in.ParentTelephone, validation.Required,
			validation.Match(forms.PhonePattern).Error("must be a valid phone number")),
		validation.Field(&in.ParentEmail, is.EmailFormat),
		validation.Field(&in.Diagnostic, validation.RuneLength(0, 5000)),
	)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// CreateDossierRequest represents a request to create a dossier
type CreateDossierRequest struct {
	Actor     auth.Principal
	Input     DossierInput
	Documents []Upload
}

// CreateDossierResult represents the result of creating a dossier
type CreateDossierResult struct {
	Dossier *models.Dossier
}

// CreateDossier validates the fields and documents, stores the document
// bytes and inserts the dossier with its documents in one transaction
func (s *DossierService) CreateDossier(ctx context.Context, req CreateDossierRequest) (*CreateDossierResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}

	now := s.clock()
	in := req.Input
	in.normalize()
	if err := fromValidation(in.validate(now)); err != nil {
		return nil, err
	}
	if len(req.Documents) == 0 {
		return nil, invalid("documents", "at least one document is required")
	}

	prepared := make([]*preparedUpload, 0, len(req.Documents))
	for i, u := range req.Documents {
		p, err := prepareUpload(fmt.Sprintf("documents[%d]", i), u)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, p)
	}

	birth, _ := time.Parse(forms.DateLayout, in.DateNaissance)
	dossier := &models.Dossier{
		ID:               uuid.New(),
		Nom:              in.Nom,
		Prenom:           in.Prenom,
		DateNaissance:    birth,
		Sexe:             models.Sexe(in.Sexe),
		Commune:          in.Commune,
		Quartier:         in.Quartier,
		ParentNom:        in.ParentNom,
		ParentTelephone:  in.ParentTelephone,
		ParentEmail:      in.ParentEmail,
		Diagnostic:       in.Diagnostic,
		Statut:           models.StatutNouveau,
		DateCreation:     now,
		DateModification: now,
		UserID:           req.Actor.UserID,
		Commentaires:     []*models.Commentaire{},
	}

	docs := make([]*models.Document, 0, len(prepared))
	for _, p := range prepared {
		doc, err := s.storeDocument(ctx, dossier.ID, req.Actor, p, now)
		if err != nil {
			s.discardObjects(ctx, docs)
			return nil, err
		}
		docs = append(docs, doc)
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.dossierRepo.Create(ctx, dossier); err != nil {
			return err
		}
		for _, doc := range docs {
			if err := s.documentRepo.Create(ctx, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.discardObjects(ctx, docs)
		return nil, fromRepository("create dossier", "dossier", err)
	}

	dossiersCreatedTotal.Inc()
	dossier.Documents = docs

	s.logger.InfoContext(ctx, "dossier created",
		slog.String("dossier_id", dossier.ID.String()),
		slog.String("user_id", dossier.UserID.String()),
		slog.Int("documents", len(docs)),
	)

	return &CreateDossierResult{Dossier: dossier}, nil
}

// storeDocument uploads the bytes and returns the metadata to insert
func (s *DossierService) storeDocument(ctx context.Context, dossierID uuid.UUID, actor auth.Principal, p *preparedUpload, now time.Time) (*models.Document, error) {
	docID := uuid.New()
	key, err := s.documentStore.Upload(ctx, storage.Object{
		ID:          docID,
		DossierID:   dossierID,
		Filename:    p.filename,
		ContentType: p.contentType,
		Size:        p.size,
	}, p.body)
	if err != nil {
		return nil, &StorageError{Op: "upload document", Err: err}
	}

	documentsUploadedTotal.Inc()
	documentBytesUploadedTotal.Add(float64(p.size))

	uploader := actor.UserID
	return &models.Document{
		ID:         docID,
		DossierID:  dossierID,
		Name:       p.filename,
		Type:       p.contentType,
		URL:        key,
		Size:       p.size,
		UploadDate: now,
		UploadedBy: &uploader,
	}, nil
}

// discardObjects removes uploaded bytes whose metadata was never committed
func (s *DossierService) discardObjects(ctx context.Context, docs []*models.Document) {
	for _, doc := range docs {
		if err := s.documentStore.Delete(context.WithoutCancel(ctx), doc.URL); err != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned document",
				slog.String("key", doc.URL),
				slog.String("error", err.Error()),
			)
		}
	}
}

// GetDossierRequest represents a request to get a dossier
type GetDossierRequest struct {
	Actor auth.Principal
	ID    uuid.UUID
}

// GetDossierResult represents the result of getting a dossier
type GetDossierResult struct {
	Dossier *models.Dossier
}

// GetDossier retrieves a dossier with its documents and comments
func (s *DossierService) GetDossier(ctx context.Context, req GetDossierRequest) (*GetDossierResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}

	d, err := s.visibleDossier(ctx, req.Actor, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, req.Actor, []*models.Dossier{d}); err != nil {
		return nil, err
	}

	return &GetDossierResult{Dossier: d}, nil
}

// visibleDossier loads a dossier the actor may read. Others' dossiers are
// reported as missing to PARENT callers.
func (s *DossierService) visibleDossier(ctx context.Context, actor auth.Principal, id uuid.UUID) (*models.Dossier, error) {
	d, err := s.dossierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepository("get dossier", "dossier", err)
	}
	if !canSee(actor, d) {
		return nil, notFound("dossier")
	}
	return d, nil
}

// hydrate attaches documents and comments, most recent comment first
func (s *DossierService) hydrate(ctx context.Context, actor auth.Principal, dossiers []*models.Dossier) error {
	if len(dossiers) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(dossiers))
	byID := make(map[uuid.UUID]*models.Dossier, len(dossiers))
	for i, d := range dossiers {
		ids[i] = d.ID
		byID[d.ID] = d
		d.Documents = []*models.Document{}
		d.Commentaires = []*models.Commentaire{}
	}

	docs, err := s.documentRepo.ListByDossierIDs(ctx, ids)
	if err != nil {
		return fromRepository("list documents", "document", err)
	}
	for _, doc := range docs {
		if d := byID[doc.DossierID]; d != nil {
			d.Documents = append(d.Documents, doc)
		}
	}

	comments, err := s.commentaireRepo.ListByDossierIDs(ctx, ids, actor.IsInternal())
	if err != nil {
		return fromRepository("list commentaires", "commentaire", err)
	}
	for _, c := range comments {
		if c.AuthorID != nil && s.directory != nil {
			if name, ok := s.directory.DisplayName(ctx, *c.AuthorID); ok {
				c.Author = name
			}
		}
		if d := byID[c.DossierID]; d != nil {
			d.Commentaires = append(d.Commentaires, c)
		}
	}

	return nil
}

// ListDossiersRequest represents a request to list dossiers
type ListDossiersRequest struct {
	Actor  auth.Principal
	Filter models.DossierFilter
}

// ListDossiersResult represents the result of listing dossiers
type ListDossiersResult struct {
	Dossiers []*models.Dossier
	Total    int
}

// ListDossiers returns matching dossiers, newest first. PARENT callers only
// ever see their own.
func (s *DossierService) ListDossiers(ctx context.Context, req ListDossiersRequest) (*ListDossiersResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}

	filter := req.Filter
	if !req.Actor.IsInternal() {
		self := req.Actor.UserID
		filter.UserID = &self
	}
	if filter.Statut != nil && !filter.Statut.Valid() {
		return nil, invalid("statut", "unknown status")
	}
	if filter.Limit < 0 {
		return nil, invalid("limit", "must not be negative")
	}
	if filter.Offset < 0 {
		return nil, invalid("offset", "must not be negative")
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	filter.SearchTerm = strings.TrimSpace(filter.SearchTerm)

	dossiers, err := s.dossierRepo.List(ctx, filter)
	if err != nil {
		return nil, fromRepository("list dossiers", "dossier", err)
	}

	total := len(dossiers)
	if filter.Limit > 0 || filter.Offset > 0 {
		total, err = s.dossierRepo.Count(ctx, filter)
		if err != nil {
			return nil, fromRepository("count dossiers", "dossier", err)
		}
	}

	if dossiers == nil {
		dossiers = []*models.Dossier{}
	}
	if err := s.hydrate(ctx, req.Actor, dossiers); err != nil {
		return nil, err
	}

	return &ListDossiersResult{Dossiers: dossiers, Total: total}, nil
}

// ChangeStatusRequest represents a request to move a dossier to a new status
type ChangeStatusRequest struct {
	Actor     auth.Principal
	DossierID uuid.UUID
	Statut    string
}

// ChangeStatusResult represents the result of a status change
type ChangeStatusResult struct {
	Dossier *models.Dossier
	Change  *models.StatusChange
}

// ChangeStatus moves a dossier to a new status when the transition policy
// allows it, records the change and notifies the owner
func (s *DossierService) ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*ChangeStatusResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}
	if !req.Actor.HasRole(models.RoleStaff, models.RoleAnalyste, models.RoleAdmin) {
		return nil, forbidden("only staff, analysts and administrators can change a dossier status")
	}

	to, ok := models.ParseStatut(req.Statut)
	if !ok {
		return nil, invalid("statut", fmt.Sprintf("unknown status %q", req.Statut))
	}

	var (
		from   models.Statut
		change *models.StatusChange
	)
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		d, err := s.dossierRepo.GetByIDForUpdate(ctx, req.DossierID)
		if err != nil {
			return fromRepository("get dossier", "dossier", err)
		}
		from = d.Statut

		if err := s.policy.Check(from, to); err != nil {
			return invalid("statut", err.Error())
		}

		modified := nextModification(d.DateModification, s.clock())
		if err := s.dossierRepo.UpdateStatus(ctx, d.ID, to, modified); err != nil {
			return err
		}

		change = &models.StatusChange{
			ID:        uuid.New(),
			DossierID: d.ID,
			From:      from,
			To:        to,
			ChangedBy: req.Actor.UserID,
			ChangedAt: modified,
		}
		return s.historyRepo.Create(ctx, change)
	})
	if err != nil {
		return nil, fromRepository("change status", "dossier", err)
	}

	statusTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()

	res, err := s.GetDossier(ctx, GetDossierRequest{Actor: req.Actor, ID: req.DossierID})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.DossierStatusChanged(ctx, res.Dossier, from, to); err != nil {
		s.logger.WarnContext(ctx, "status change notification failed",
			slog.String("dossier_id", req.DossierID.String()),
			slog.String("error", err.Error()),
		)
	}

	return &ChangeStatusResult{Dossier: res.Dossier, Change: change}, nil
}

// AddCommentRequest represents a request to comment on a dossier
type AddCommentRequest struct {
	Actor     auth.Principal
	DossierID uuid.UUID
	Text      string
	Author    string
	Interne   bool
}

// AddCommentResult represents the result of adding a comment
type AddCommentResult struct {
	Commentaire *models.Commentaire
}

// AddComment appends a comment and refreshes the dossier's modification date
func (s *DossierService) AddComment(ctx context.Context, req AddCommentRequest) (*AddCommentResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, invalid("text", "cannot be blank")
	}
	if len([]rune(text)) > maxCommentLength {
		return nil, invalid("text", fmt.Sprintf("must be at most %d characters", maxCommentLength))
	}
	if req.Interne && !req.Actor.IsInternal() {
		return nil, forbidden("internal notes are reserved to foundation staff")
	}

	author := s.authorName(ctx, req.Actor, req.Author)
	authorID := req.Actor.UserID

	var comment *models.Commentaire
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		d, err := s.dossierRepo.GetByIDForUpdate(ctx, req.DossierID)
		if err != nil {
			return fromRepository("get dossier", "dossier", err)
		}
		if !canSee(req.Actor, d) {
			return notFound("dossier")
		}

		now := s.clock()
		comment = &models.Commentaire{
			ID:               uuid.New(),
			DossierID:        d.ID,
			Text:             text,
			Author:           author,
			AuthorID:         &authorID,
			Interne:          req.Interne,
			Date:             now,
			DateModification: now,
		}
		if err := s.commentaireRepo.Create(ctx, comment); err != nil {
			return err
		}
		return s.dossierRepo.Touch(ctx, d.ID, nextModification(d.DateModification, now))
	})
	if err != nil {
		return nil, fromRepository("add comment", "dossier", err)
	}

	return &AddCommentResult{Commentaire: comment}, nil
}

// authorName prefers the directory name of the actor, then the name in the
// token, then the one supplied by the client
func (s *DossierService) authorName(ctx context.Context, actor auth.Principal, supplied string) string {
	if s.directory != nil {
		if name, ok := s.directory.DisplayName(ctx, actor.UserID); ok && name != "" {
			return name
		}
	}
	if actor.Name != "" {
		return actor.Name
	}
	if supplied = strings.TrimSpace(supplied); supplied != "" {
		return supplied
	}
	return actor.Email
}

// AddDocumentRequest represents a request to attach a document
type AddDocumentRequest struct {
	Actor     auth.Principal
	DossierID uuid.UUID
	Upload    Upload
}

// AddDocumentResult represents the result of attaching a document
type AddDocumentResult struct {
	Document *models.Document
}

// AddDocument validates and stores a document, then records it on the dossier
func (s *DossierService) AddDocument(ctx context.Context, req AddDocumentRequest) (*AddDocumentResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}

	if _, err := s.visibleDossier(ctx, req.Actor, req.DossierID); err != nil {
		return nil, err
	}

	p, err := prepareUpload("file", req.Upload)
	if err != nil {
		return nil, err
	}

	doc, err := s.storeDocument(ctx, req.DossierID, req.Actor, p, s.clock())
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		d, err := s.dossierRepo.GetByIDForUpdate(ctx, req.DossierID)
		if err != nil {
			return err
		}
		if err := s.documentRepo.Create(ctx, doc); err != nil {
			return err
		}
		return s.dossierRepo.Touch(ctx, d.ID, nextModification(d.DateModification, doc.UploadDate))
	})
	if err != nil {
		s.discardObjects(ctx, []*models.Document{doc})
		return nil, fromRepository("add document", "dossier", err)
	}

	return &AddDocumentResult{Document: doc}, nil
}

// StatusHistoryRequest represents a request for the status audit trail
type StatusHistoryRequest struct {
	Actor     auth.Principal
	DossierID uuid.UUID
}

// StatusHistoryResult represents the status audit trail, oldest first
type StatusHistoryResult struct {
	Changes []*models.StatusChange
}

// StatusHistory returns every accepted status change of a dossier
func (s *DossierService) StatusHistory(ctx context.Context, req StatusHistoryRequest) (*StatusHistoryResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}
	if !req.Actor.IsInternal() {
		return nil, forbidden("status history is reserved to foundation staff")
	}

	if _, err := s.dossierRepo.GetByID(ctx, req.DossierID); err != nil {
		return nil, fromRepository("get dossier", "dossier", err)
	}

	changes, err := s.historyRepo.ListByDossierID(ctx, req.DossierID)
	if err != nil {
		return nil, fromRepository("list status changes", "dossier", err)
	}
	if changes == nil {
		changes = []*models.StatusChange{}
	}

	return &StatusHistoryResult{Changes: changes}, nil
}

// DossierStatsResult holds dossier counts
type DossierStatsResult struct {
	Total     int                   `json:"total"`
	ParStatut map[models.Statut]int `json:"parStatut"`
}

// DossierStats counts dossiers per status. Every status is present.
func (s *DossierService) DossierStats(ctx context.Context, actor auth.Principal) (*DossierStatsResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsInternal() {
		return nil, forbidden("statistics are reserved to foundation staff")
	}

	counts, err := s.dossierRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fromRepository("count dossiers", "dossier", err)
	}

	res := &DossierStatsResult{ParStatut: make(map[models.Statut]int, len(models.Statuts))}
	for _, st := range models.Statuts {
		res.ParStatut[st] = 0
	}
	for _, c := range counts {
		res.ParStatut[c.Statut] = c.Count
		res.Total += c.Count
	}

	return res, nil
}

// OpenDocumentRequest represents a request to read a document's bytes
type OpenDocumentRequest struct {
	Actor      auth.Principal
	DocumentID uuid.UUID
}

// OpenDocumentResult carries the document and its content. The caller must close Content.
type OpenDocumentResult struct {
	Document *models.Document
	Content  io.ReadCloser
}

// OpenDocument streams a stored document back to a caller who may see its dossier
func (s *DossierService) OpenDocument(ctx context.Context, req OpenDocumentRequest) (*OpenDocumentResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}

	doc, err := s.documentRepo.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, fromRepository("get document", "document", err)
	}
	if _, err := s.visibleDossier(ctx, req.Actor, doc.DossierID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("document")
		}
		return nil, err
	}

	content, err := s.documentStore.Download(ctx, doc.URL)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, notFound("document content")
		}
		return nil, &StorageError{Op: "download document", Err: err}
	}

	return &OpenDocumentResult{Document: doc, Content: content}, nil
}
