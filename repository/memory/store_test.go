package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dossierportal-backend/models"
	"dossierportal-backend/repository"

	"github.com/google/uuid"
)

func seedUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.New(), Nom: "Koné", Prenom: "Mariam", Email: email, Role: models.RoleParent}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedDossier(t *testing.T, s *Store, owner uuid.UUID, nom string, created time.Time) *models.Dossier {
	t.Helper()
	d := &models.Dossier{
		ID: uuid.New(), Nom: nom, Prenom: "Awa", Sexe: models.SexeFeminin, Commune: "Cocody",
		ParentNom: "Mariam", ParentTelephone: "0700000000", Statut: models.StatutNouveau,
		DateCreation: created, DateModification: created, UserID: owner,
	}
	if err := s.Dossiers().Create(context.Background(), d); err != nil {
		t.Fatalf("create dossier: %v", err)
	}
	return d
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	owner := seedUser(t, s, "owner@example.org")

	boom := errors.New("boom")
	var id uuid.UUID
	err := s.ExecTx(ctx, func(ctx context.Context) error {
		d := &models.Dossier{ID: uuid.New(), Nom: "Koné", UserID: owner.ID, Statut: models.StatutNouveau}
		id = d.ID
		if err := s.Dossiers().Create(ctx, d); err != nil {
			return err
		}
		// visible inside the transaction
		if _, err := s.Dossiers().GetByID(ctx, id); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.Dossiers().GetByID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("dossier should not survive rollback, got %v", err)
	}
}

func TestExecTx_CommitsAndIsolates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	owner := seedUser(t, s, "owner@example.org")

	var id uuid.UUID
	err := s.ExecTx(ctx, func(txCtx context.Context) error {
		d := &models.Dossier{ID: uuid.New(), Nom: "Koné", UserID: owner.ID, Statut: models.StatutNouveau}
		id = d.ID
		if err := s.Dossiers().Create(txCtx, d); err != nil {
			return err
		}
		// not visible outside before commit
		if _, err := s.Dossiers().GetByID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("uncommitted dossier visible outside transaction: %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ExecTx: %v", err)
	}
	if _, err := s.Dossiers().GetByID(ctx, id); err != nil {
		t.Fatalf("committed dossier missing: %v", err)
	}
}

func TestDossierRepository_ListFilters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedUser(t, s, "a@example.org")
	b := seedUser(t, s, "b@example.org")

	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	d1 := seedDossier(t, s, a.ID, "Koné", base)
	d2 := seedDossier(t, s, a.ID, "Traoré", base.Add(time.Hour))
	seedDossier(t, s, b.ID, "KONAN", base.Add(2*time.Hour))

	if err := s.Dossiers().UpdateStatus(ctx, d1.ID, models.StatutAccepte, base.Add(3*time.Hour)); err != nil {
		t.Fatal(err)
	}

	accepte := models.StatutAccepte
	tests := []struct {
		name   string
		filter models.DossierFilter
		want   int
	}{
		{"all", models.DossierFilter{}, 3},
		{"by user", models.DossierFilter{UserID: &a.ID}, 2},
		{"by status", models.DossierFilter{Statut: &accepte}, 1},
		{"search case-insensitive", models.DossierFilter{SearchTerm: "kon"}, 2},
		{"search commune", models.DossierFilter{SearchTerm: "cocody"}, 3},
		{"limit", models.DossierFilter{Limit: 2}, 2},
		{"offset past end", models.DossierFilter{Offset: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Dossiers().List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d dossiers, want %d", len(got), tt.want)
			}
		})
	}

	mine, _ := s.Dossiers().List(ctx, models.DossierFilter{UserID: &a.ID})
	if mine[0].ID != d2.ID {
		t.Errorf("expected newest first")
	}
}

func TestCommentaireRepository_OrderAndVisibility(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	owner := seedUser(t, s, "owner@example.org")
	d := seedDossier(t, s, owner.ID, "Koné", time.Now())

	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	texts := []string{"first", "second", "third"}
	for i, text := range texts {
		c := &models.Commentaire{ID: uuid.New(), DossierID: d.ID, Text: text, Interne: i == 1, Date: at}
		if err := s.Commentaires().Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.Commentaires().ListByDossierIDs(ctx, []uuid.UUID{d.ID}, true)
	if len(all) != 3 || all[0].Text != "third" || all[2].Text != "first" {
		t.Fatalf("unexpected order: %v", texts)
	}

	public, _ := s.Commentaires().ListByDossierIDs(ctx, []uuid.UUID{d.ID}, false)
	if len(public) != 2 {
		t.Fatalf("expected internal note hidden, got %d comments", len(public))
	}
}

func TestUserRepository_EmailUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "mariam@example.org")
	other := seedUser(t, s, "other@example.org")

	dup := &models.User{ID: uuid.New(), Email: "MARIAM@example.org"}
	if err := s.Users().Create(ctx, dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("Create duplicate: expected ErrConflict, got %v", err)
	}

	other.Email = "mariam@example.org"
	if err := s.Users().Update(ctx, other); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("Update to taken email: expected ErrConflict, got %v", err)
	}

	got, err := s.Users().GetByEmail(ctx, "Mariam@Example.org")
	if err != nil || got.Email != "mariam@example.org" {
		t.Fatalf("GetByEmail = %v, %v", got, err)
	}
}
