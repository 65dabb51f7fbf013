package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dossierportal-backend/auth"
	"dossierportal-backend/models"
	"dossierportal-backend/repository/memory"
	"dossierportal-backend/storage"
	"dossierportal-backend/workflow"

	"github.com/google/uuid"
)

var (
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00\xff\xdb")
)

// fixedClock returns the same instant on every call so that modification
// dates only move through the strict-increase bump
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type fixture struct {
	store    *memory.Store
	files    storage.Storage
	clock    *fixedClock
	dossiers *DossierService
	users    *UserService
	forms    *FormService
	tokens   *auth.TokenManager

	admin, staff, analyste, parent, otherParent auth.Principal
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	policy *workflow.Policy
	files  storage.Storage
}

func withPolicy(p *workflow.Policy) fixtureOption {
	return func(c *fixtureConfig) { c.policy = p }
}

func withFiles(s storage.Storage) fixtureOption {
	return func(c *fixtureConfig) { c.files = s }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg := fixtureConfig{policy: workflow.Open()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.files == nil {
		local, err := storage.NewLocalStorage(t.TempDir())
		if err != nil {
			t.Fatalf("local storage: %v", err)
		}
		cfg.files = local
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	clock := &fixedClock{t: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)}
	directory := NewUserDirectory(store.Users(), 64, time.Minute)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		store:  store,
		files:  cfg.files,
		clock:  clock,
		tokens: tokens,
	}

	f.dossiers = NewDossierService(
		WithDossierRepository(store.Dossiers()),
		WithDocumentRepository(store.Documents()),
		WithCommentaireRepository(store.Commentaires()),
		WithStatusChangeRepository(store.StatusChanges()),
		WithTransactionManager(store),
		WithDocumentStorage(cfg.files),
		WithTransitionPolicy(cfg.policy),
		WithUserDirectory(directory),
		WithLogger(logger),
		WithClock(clock.Now),
	)
	f.users = NewUserService(
		WithUserRepository(store.Users()),
		WithTokenManager(tokens),
		UserWithDirectory(directory),
		UserWithLogger(logger),
	)
	f.forms = NewFormService(
		WithFormSubmissionRepository(store.FormSubmissions()),
		FormWithDossierRepository(store.Dossiers()),
		FormWithLogger(logger),
	)

	f.admin = f.seedUser(t, "admin@fondation.org", "Admin", "Alice", models.RoleAdmin)
	f.staff = f.seedUser(t, "staff@fondation.org", "Diallo", "Fatou", models.RoleStaff)
	f.analyste = f.seedUser(t, "analyste@fondation.org", "Mensah", "Kofi", models.RoleAnalyste)
	f.parent = f.seedUser(t, "mariam@example.org", "Koné", "Mariam", models.RoleParent)
	f.otherParent = f.seedUser(t, "yao@example.org", "Yao", "Koffi", models.RoleParent)

	return f
}

func (f *fixture) seedUser(t *testing.T, email, nom, prenom string, role models.Role) auth.Principal {
	t.Helper()
	u := &models.User{
		ID:           uuid.New(),
		Nom:          nom,
		Prenom:       prenom,
		Email:        email,
		PasswordHash: "unused",
		Role:         role,
	}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return auth.Principal{UserID: u.ID, Role: role, Email: email, Name: u.DisplayName()}
}

func strPtr(s string) *string { return &s }

func validInput() DossierInput {
	return DossierInput{
		Nom:             "Koné",
		Prenom:          "Awa",
		DateNaissance:   "2015-03-02",
		Sexe:            "F",
		Commune:         "Libreville",
		Quartier:        strPtr("Nzeng-Ayong"),
		ParentNom:       "Mariam Koné",
		ParentTelephone: "+24112345678",
		ParentEmail:     strPtr("mariam@example.org"),
		Diagnostic:      strPtr("Surdité partielle"),
	}
}

func pdfUpload(name string) Upload {
	return Upload{Filename: name, ContentType: "application/pdf", Size: int64(len(pdfBytes)), Content: bytes.NewReader(pdfBytes)}
}

func (f *fixture) createDossier(t *testing.T, owner auth.Principal) *models.Dossier {
	t.Helper()
	res, err := f.dossiers.CreateDossier(context.Background(), CreateDossierRequest{
		Actor:     owner,
		Input:     validInput(),
		Documents: []Upload{pdfUpload("certificat.pdf")},
	})
	if err != nil {
		t.Fatalf("CreateDossier: %v", err)
	}
	return res.Dossier
}
