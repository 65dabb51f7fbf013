package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"dossierportal-backend/database"
	"dossierportal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts Postgres in a container and applies the migrations
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("dossiers_test"),
		postgres.WithUsername("dossiers"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := database.Migrate(dsn, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := database.Connect(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func newTestUser(t *testing.T, repo *UserRepository, email string, role models.Role) *models.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	u := &models.User{
		ID:           uuid.New(),
		Nom:          "Koné",
		Prenom:       "Mariam",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func newTestDossier(owner uuid.UUID, nom string, created time.Time) *models.Dossier {
	return &models.Dossier{
		ID:               uuid.New(),
		Nom:              nom,
		Prenom:           "Awa",
		DateNaissance:    time.Date(2018, 3, 4, 0, 0, 0, 0, time.UTC),
		Sexe:             models.SexeFeminin,
		Commune:          "Cocody",
		ParentNom:        "Mariam Koné",
		ParentTelephone:  "+225 07 00 00 00",
		Statut:           models.StatutNouveau,
		DateCreation:     created,
		DateModification: created,
		UserID:           owner,
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	newTestUser(t, repo, "mariam@example.org", models.RoleParent)

	dup := &models.User{ID: uuid.New(), Nom: "X", Prenom: "Y", Email: "MARIAM@example.org", PasswordHash: "h", Role: models.RoleParent}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := repo.GetByEmail(ctx, "Mariam@Example.org")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.Email != "mariam@example.org" {
		t.Errorf("email = %q", got.Email)
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDossierRepository_ListAndCount(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	dossiers := NewDossierRepository(pool)

	owner := newTestUser(t, users, "owner@example.org", models.RoleParent)
	other := newTestUser(t, users, "other@example.org", models.RoleParent)

	base := time.Now().UTC().Truncate(time.Microsecond)
	d1 := newTestDossier(owner.ID, "Koné", base)
	d2 := newTestDossier(owner.ID, "Traoré", base.Add(time.Second))
	d3 := newTestDossier(other.ID, "Konan", base.Add(2*time.Second))
	for _, d := range []*models.Dossier{d1, d2, d3} {
		if err := dossiers.Create(ctx, d); err != nil {
			t.Fatalf("create dossier: %v", err)
		}
	}

	all, err := dossiers.List(ctx, models.DossierFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != d3.ID {
		t.Fatalf("expected 3 dossiers newest first, got %d", len(all))
	}

	search, err := dossiers.List(ctx, models.DossierFilter{SearchTerm: "kon"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if len(search) != 2 {
		t.Errorf("search 'kon' matched %d dossiers, want 2", len(search))
	}

	mine, err := dossiers.List(ctx, models.DossierFilter{UserID: &owner.ID, Limit: 1})
	if err != nil {
		t.Fatalf("List by user: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != d2.ID {
		t.Errorf("expected newest owner dossier, got %+v", mine)
	}

	n, err := dossiers.Count(ctx, models.DossierFilter{UserID: &owner.ID, Limit: 1})
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}
}

func TestDossierRepository_StatusAndChildren(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	dossiers := NewDossierRepository(pool)
	docs := NewDocumentRepository(pool)
	comments := NewCommentaireRepository(pool)
	history := NewStatusChangeRepository(pool)
	tm := NewTransactionManager(pool)

	owner := newTestUser(t, users, "owner@example.org", models.RoleParent)
	staff := newTestUser(t, users, "staff@example.org", models.RoleStaff)

	now := time.Now().UTC().Truncate(time.Microsecond)
	d := newTestDossier(owner.ID, "Koné", now)

	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		if err := dossiers.Create(ctx, d); err != nil {
			return err
		}
		return docs.Create(ctx, &models.Document{
			ID: uuid.New(), DossierID: d.ID, Name: "certificat.pdf", Type: "application/pdf",
			URL: "dossiers/x/certificat.pdf", Size: 1024, UploadDate: now, UploadedBy: &owner.ID,
		})
	})
	if err != nil {
		t.Fatalf("create in tx: %v", err)
	}

	later := now.Add(time.Minute)
	if err := dossiers.UpdateStatus(ctx, d.ID, models.StatutEnCours, later); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := history.Create(ctx, &models.StatusChange{
		ID: uuid.New(), DossierID: d.ID, From: models.StatutNouveau, To: models.StatutEnCours,
		ChangedBy: staff.ID, ChangedAt: later,
	}); err != nil {
		t.Fatalf("history Create: %v", err)
	}

	for i, interne := range []bool{false, true} {
		c := &models.Commentaire{
			ID: uuid.New(), DossierID: d.ID, Text: "note", Author: "Staff", AuthorID: &staff.ID,
			Interne: interne, Date: later.Add(time.Duration(i) * time.Second), DateModification: later,
		}
		if err := comments.Create(ctx, c); err != nil {
			t.Fatalf("comment Create: %v", err)
		}
	}

	got, err := dossiers.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Statut != models.StatutEnCours || !got.DateModification.Equal(later) {
		t.Errorf("unexpected dossier after update: %s %v", got.Statut, got.DateModification)
	}

	public, err := comments.ListByDossierIDs(ctx, []uuid.UUID{d.ID}, false)
	if err != nil || len(public) != 1 {
		t.Fatalf("public comments = %d, %v; want 1", len(public), err)
	}
	all, err := comments.ListByDossierIDs(ctx, []uuid.UUID{d.ID}, true)
	if err != nil || len(all) != 2 || !all[0].Interne {
		t.Fatalf("all comments = %d, %v; want 2, most recent first", len(all), err)
	}

	dl, err := docs.ListByDossierIDs(ctx, []uuid.UUID{d.ID})
	if err != nil || len(dl) != 1 {
		t.Fatalf("documents = %d, %v", len(dl), err)
	}

	h, err := history.ListByDossierID(ctx, d.ID)
	if err != nil || len(h) != 1 || h[0].To != models.StatutEnCours {
		t.Fatalf("history = %+v, %v", h, err)
	}

	counts, err := dossiers.CountByStatus(ctx)
	if err != nil || len(counts) != 1 || counts[0].Count != 1 {
		t.Fatalf("CountByStatus = %+v, %v", counts, err)
	}

	if err := dossiers.Touch(ctx, uuid.New(), later); !errors.Is(err, ErrNotFound) {
		t.Errorf("Touch on missing dossier: expected ErrNotFound, got %v", err)
	}
}

func TestTransactionManager_Rollback(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	tm := NewTransactionManager(pool)

	boom := errors.New("boom")
	var id uuid.UUID
	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		id = uuid.New()
		u := &models.User{ID: id, Nom: "Tx", Prenom: "User", Email: "tx@example.org", PasswordHash: "h", Role: models.RoleStaff}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := users.GetByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("user should have been rolled back, got %v", err)
	}
}
