package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"dossierportal-backend/auth"
	"dossierportal-backend/models"
	"dossierportal-backend/storage"
	"dossierportal-backend/workflow"

	"github.com/google/uuid"
)

func TestCreateDossier_InitialState(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)

	if d.Statut != models.StatutNouveau {
		t.Errorf("statut = %s, want NOUVEAU", d.Statut)
	}
	if !d.DateCreation.Equal(d.DateModification) {
		t.Errorf("dateCreation %v != dateModification %v", d.DateCreation, d.DateModification)
	}
	if d.UserID != f.parent.UserID {
		t.Errorf("userId = %s, want creator %s", d.UserID, f.parent.UserID)
	}
	if len(d.Documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(d.Documents))
	}
	doc := d.Documents[0]
	if doc.Type != "application/pdf" || doc.Size != int64(len(pdfBytes)) || doc.URL == "" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestCreateDossier_RoundTrip(t *testing.T) {
	f := newFixture(t)
	created := f.createDossier(t, f.parent)

	res, err := f.dossiers.GetDossier(context.Background(), GetDossierRequest{Actor: f.parent, ID: created.ID})
	if err != nil {
		t.Fatalf("GetDossier: %v", err)
	}
	got := res.Dossier
	in := validInput()

	checks := []struct {
		field     string
		got, want string
	}{
		{"nom", got.Nom, in.Nom},
		{"prenom", got.Prenom, in.Prenom},
		{"dateNaissance", got.DateNaissance.Format("2006-01-02"), in.DateNaissance},
		{"sexe", string(got.Sexe), in.Sexe},
		{"commune", got.Commune, in.Commune},
		{"quartier", *got.Quartier, *in.Quartier},
		{"parentNom", got.ParentNom, in.ParentNom},
		{"parentTelephone", got.ParentTelephone, in.ParentTelephone},
		{"parentEmail", *got.ParentEmail, *in.ParentEmail},
		{"diagnostic", *got.Diagnostic, *in.Diagnostic},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if len(got.Documents) != 1 || got.Documents[0].ID != created.Documents[0].ID {
		t.Errorf("documents not returned: %+v", got.Documents)
	}
	if got.Commentaires == nil || len(got.Commentaires) != 0 {
		t.Errorf("expected empty comment list, got %v", got.Commentaires)
	}
}

func TestCreateDossier_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*DossierInput)
		docs   []Upload
		field  string
	}{
		{"missing nom", func(in *DossierInput) { in.Nom = "  " }, nil, "nom"},
		{"bad sexe", func(in *DossierInput) { in.Sexe = "X" }, nil, "sexe"},
		{"bad phone", func(in *DossierInput) { in.ParentTelephone = "call me" }, nil, "parentTelephone"},
		{"bad email", func(in *DossierInput) { in.ParentEmail = strPtr("nope") }, nil, "parentEmail"},
		{"bad date", func(in *DossierInput) { in.DateNaissance = "02/03/2015" }, nil, "dateNaissance"},
		{"future birth", func(in *DossierInput) { in.DateNaissance = "2030-01-01" }, nil, "dateNaissance"},
		{"missing commune", func(in *DossierInput) { in.Commune = "" }, nil, "commune"},
		{"no documents", func(in *DossierInput) {}, []Upload{}, "documents"},
		{"unsupported document", func(in *DossierInput) {}, []Upload{
			{Filename: "notes.txt", ContentType: "text/plain", Size: 5, Content: strings.NewReader("hello")},
		}, "documents[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			docs := tt.docs
			if docs == nil {
				docs = []Upload{pdfUpload("a.pdf")}
			}

			_, err := f.dossiers.CreateDossier(context.Background(), CreateDossierRequest{
				Actor: f.parent, Input: in, Documents: docs,
			})

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tt.field]; !ok {
				t.Errorf("expected error on %q, got fields %v", tt.field, ve.Fields)
			}
		})
	}

	all, _ := f.store.Dossiers().List(context.Background(), models.DossierFilter{})
	if len(all) != 0 {
		t.Errorf("invalid requests persisted %d dossiers", len(all))
	}
}

func TestCreateDossier_Anonymous(t *testing.T) {
	f := newFixture(t)
	_, err := f.dossiers.CreateDossier(context.Background(), CreateDossierRequest{
		Input: validInput(), Documents: []Upload{pdfUpload("a.pdf")},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

type failingStorage struct {
	storage.Storage
	failUploadAfter int
	uploads         int
	deleted         []string
}

func (s *failingStorage) Upload(ctx context.Context, obj storage.Object, data io.Reader) (string, error) {
	s.uploads++
	if s.uploads > s.failUploadAfter {
		return "", errors.New("disk full")
	}
	return s.Storage.Upload(ctx, obj, data)
}

func (s *failingStorage) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return s.Storage.Delete(ctx, key)
}

func TestCreateDossier_StorageFailureCleansUp(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	files := &failingStorage{Storage: local, failUploadAfter: 1}
	f := newFixture(t, withFiles(files))

	_, err = f.dossiers.CreateDossier(context.Background(), CreateDossierRequest{
		Actor:     f.parent,
		Input:     validInput(),
		Documents: []Upload{pdfUpload("a.pdf"), pdfUpload("b.pdf")},
	})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if len(files.deleted) != 1 {
		t.Errorf("expected the first upload to be removed, deleted %v", files.deleted)
	}

	all, _ := f.store.Dossiers().List(context.Background(), models.DossierFilter{})
	if len(all) != 0 {
		t.Errorf("dossier persisted despite storage failure")
	}
}

func TestChangeStatus_EveryStatus(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	sequence := make([]models.Statut, 0, len(models.Statuts)+1)
	sequence = append(sequence, models.Statuts...)
	sequence = append(sequence, models.StatutCloture)

	prev := d.DateModification
	for _, st := range sequence {
		res, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: d.ID, Statut: string(st)})
		if err != nil {
			t.Fatalf("ChangeStatus(%s): %v", st, err)
		}

		stored, _ := f.store.Dossiers().GetByID(ctx, d.ID)
		if stored.Statut != st {
			t.Errorf("stored statut = %s, want %s", stored.Statut, st)
		}
		if !stored.DateModification.After(prev) {
			t.Errorf("dateModification did not increase on %s: %v -> %v", st, prev, stored.DateModification)
		}
		if !res.Dossier.DateModification.Equal(stored.DateModification) {
			t.Errorf("returned dossier is stale")
		}
		prev = stored.DateModification
	}

	hist, err := f.dossiers.StatusHistory(ctx, StatusHistoryRequest{Actor: f.analyste, DossierID: d.ID})
	if err != nil {
		t.Fatalf("StatusHistory: %v", err)
	}
	if len(hist.Changes) != len(sequence) {
		t.Errorf("history has %d entries, want %d", len(hist.Changes), len(sequence))
	}
	if hist.Changes[0].From != models.StatutNouveau || hist.Changes[0].ChangedBy != f.staff.UserID {
		t.Errorf("unexpected first change: %+v", hist.Changes[0])
	}
}

func TestChangeStatus_Bogus(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	for _, bogus := range []string{"BOGUS", "accepte", ""} {
		_, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: d.ID, Statut: bogus})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ChangeStatus(%q): expected ErrValidation, got %v", bogus, err)
		}
	}

	stored, _ := f.store.Dossiers().GetByID(ctx, d.ID)
	if stored.Statut != models.StatutNouveau || !stored.DateModification.Equal(d.DateModification) {
		t.Errorf("stored dossier changed: %s %v", stored.Statut, stored.DateModification)
	}
}

func TestChangeStatus_Authorization(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	_, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.parent, DossierID: d.ID, Statut: "ACCEPTE"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("parent: expected ErrForbidden, got %v", err)
	}

	for _, actor := range []auth.Principal{f.staff, f.analyste, f.admin} {
		if _, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: actor, DossierID: d.ID, Statut: "EN_COURS"}); err != nil {
			t.Errorf("%s: unexpected error %v", actor.Role, err)
		}
	}

	_, err = f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: uuid.New(), Statut: "ACCEPTE"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing dossier: expected ErrNotFound, got %v", err)
	}
}

func TestChangeStatus_StrictPolicy(t *testing.T) {
	f := newFixture(t, withPolicy(workflow.Strict()))
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	_, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: d.ID, Statut: "CLOTURE"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("NOUVEAU -> CLOTURE: expected ErrValidation, got %v", err)
	}

	for _, st := range []string{"EN_COURS", "CLOTURE"} {
		if _, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: d.ID, Statut: st}); err != nil {
			t.Fatalf("-> %s: %v", st, err)
		}
	}

	_, err = f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.admin, DossierID: d.ID, Statut: "EN_COURS"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("leaving CLOTURE: expected ErrValidation, got %v", err)
	}
	stored, _ := f.store.Dossiers().GetByID(ctx, d.ID)
	if stored.Statut != models.StatutCloture {
		t.Errorf("statut = %s, want CLOTURE", stored.Statut)
	}
}

type recordingNotifier struct {
	calls []models.Statut
}

func (n *recordingNotifier) DossierStatusChanged(ctx context.Context, d *models.Dossier, from, to models.Statut) error {
	n.calls = append(n.calls, to)
	return errors.New("smtp down")
}

func TestChangeStatus_NotifiesOwner(t *testing.T) {
	f := newFixture(t)
	n := &recordingNotifier{}
	WithNotifier(n)(f.dossiers)

	d := f.createDossier(t, f.parent)
	if _, err := f.dossiers.ChangeStatus(context.Background(), ChangeStatusRequest{Actor: f.staff, DossierID: d.ID, Statut: "INCOMPLET"}); err != nil {
		t.Fatalf("notification failure must not fail the change: %v", err)
	}
	if len(n.calls) != 1 || n.calls[0] != models.StatutIncomplet {
		t.Errorf("notifier calls = %v", n.calls)
	}
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	for _, text := range []string{"", "   "} {
		_, err := f.dossiers.AddComment(ctx, AddCommentRequest{Actor: f.staff, DossierID: d.ID, Text: text})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("AddComment(%q): expected ErrValidation, got %v", text, err)
		}
	}

	res, err := f.dossiers.AddComment(ctx, AddCommentRequest{Actor: f.staff, DossierID: d.ID, Text: "  hello  ", Author: "ignored"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	c := res.Commentaire
	if c.Text != "hello" || c.Author != "Fatou Diallo" || c.AuthorID == nil || *c.AuthorID != f.staff.UserID {
		t.Errorf("unexpected comment: %+v", c)
	}
	if !c.Date.Equal(c.DateModification) {
		t.Errorf("date %v != dateModification %v", c.Date, c.DateModification)
	}

	got, _ := f.dossiers.GetDossier(ctx, GetDossierRequest{Actor: f.staff, ID: d.ID})
	if len(got.Dossier.Commentaires) != 1 {
		t.Fatalf("comment count = %d, want 1", len(got.Dossier.Commentaires))
	}
	if !got.Dossier.DateModification.After(d.DateModification) {
		t.Errorf("dateModification not refreshed")
	}

	_, err = f.dossiers.AddComment(ctx, AddCommentRequest{Actor: f.staff, DossierID: uuid.New(), Text: "hello"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing dossier: expected ErrNotFound, got %v", err)
	}
}

func TestAddComment_AnyStatusAndOrder(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	if _, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: d.ID, Statut: "CLOTURE"}); err != nil {
		t.Fatal(err)
	}

	for i, text := range []string{"premier", "second"} {
		f.clock.t = f.clock.t.Add(time.Duration(i+1) * time.Minute)
		if _, err := f.dossiers.AddComment(ctx, AddCommentRequest{Actor: f.staff, DossierID: d.ID, Text: text}); err != nil {
			t.Fatalf("AddComment on CLOTURE dossier: %v", err)
		}
	}

	got, _ := f.dossiers.GetDossier(ctx, GetDossierRequest{Actor: f.staff, ID: d.ID})
	if got.Dossier.Commentaires[0].Text != "second" {
		t.Errorf("comments not most recent first: %q", got.Dossier.Commentaires[0].Text)
	}
}

func TestInternalComments_HiddenFromParents(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	if _, err := f.dossiers.AddComment(ctx, AddCommentRequest{Actor: f.staff, DossierID: d.ID, Text: "note interne", Interne: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.dossiers.AddComment(ctx, AddCommentRequest{Actor: f.parent, DossierID: d.ID, Text: "merci"}); err != nil {
		t.Fatal(err)
	}

	_, err := f.dossiers.AddComment(ctx, AddCommentRequest{Actor: f.parent, DossierID: d.ID, Text: "x", Interne: true})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("parent internal note: expected ErrForbidden, got %v", err)
	}

	asParent, _ := f.dossiers.GetDossier(ctx, GetDossierRequest{Actor: f.parent, ID: d.ID})
	if len(asParent.Dossier.Commentaires) != 1 || asParent.Dossier.Commentaires[0].Interne {
		t.Errorf("parent sees %d comments", len(asParent.Dossier.Commentaires))
	}

	asStaff, _ := f.dossiers.GetDossier(ctx, GetDossierRequest{Actor: f.staff, ID: d.ID})
	if len(asStaff.Dossier.Commentaires) != 2 {
		t.Errorf("staff sees %d comments, want 2", len(asStaff.Dossier.Commentaires))
	}
}

func TestAddDocument(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	big := Upload{Filename: "scan.pdf", ContentType: "application/pdf", Size: 15 * 1024 * 1024, Content: bytes.NewReader(pdfBytes)}
	exe := Upload{Filename: "virus.exe", ContentType: "application/x-msdownload", Size: 4, Content: strings.NewReader("MZ\x90\x00")}
	lying := Upload{Filename: "photo.pdf", ContentType: "application/pdf", Size: int64(len(pngBytes)), Content: bytes.NewReader(pngBytes)}

	for name, u := range map[string]Upload{"15 MB": big, "unsupported type": exe, "content mismatch": lying} {
		_, err := f.dossiers.AddDocument(ctx, AddDocumentRequest{Actor: f.parent, DossierID: d.ID, Upload: u})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	oneMB := append(append([]byte{}, pdfBytes...), bytes.Repeat([]byte{' '}, 1024*1024-len(pdfBytes))...)
	res, err := f.dossiers.AddDocument(ctx, AddDocumentRequest{Actor: f.parent, DossierID: d.ID, Upload: Upload{
		Filename: "bilan.pdf", ContentType: "application/pdf", Size: int64(len(oneMB)), Content: bytes.NewReader(oneMB),
	}})
	if err != nil {
		t.Fatalf("AddDocument 1 MB PDF: %v", err)
	}

	for _, u := range []Upload{
		{Filename: "photo.png", ContentType: "image/png", Size: int64(len(pngBytes)), Content: bytes.NewReader(pngBytes)},
		{Filename: "photo.jpg", ContentType: "image/jpeg", Size: int64(len(jpegBytes)), Content: bytes.NewReader(jpegBytes)},
	} {
		if _, err := f.dossiers.AddDocument(ctx, AddDocumentRequest{Actor: f.parent, DossierID: d.ID, Upload: u}); err != nil {
			t.Errorf("AddDocument %s: %v", u.Filename, err)
		}
	}

	got, _ := f.dossiers.GetDossier(ctx, GetDossierRequest{Actor: f.parent, ID: d.ID})
	if len(got.Dossier.Documents) != 4 {
		t.Errorf("document count = %d, want 4", len(got.Dossier.Documents))
	}
	if !got.Dossier.DateModification.After(d.DateModification) {
		t.Errorf("dateModification not refreshed")
	}

	opened, err := f.dossiers.OpenDocument(ctx, OpenDocumentRequest{Actor: f.staff, DocumentID: res.Document.ID})
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	content, _ := io.ReadAll(opened.Content)
	opened.Content.Close()
	if !bytes.Equal(content, oneMB) {
		t.Errorf("stored content differs (%d bytes, want %d)", len(content), len(oneMB))
	}

	_, err = f.dossiers.OpenDocument(ctx, OpenDocumentRequest{Actor: f.otherParent, DocumentID: res.Document.ID})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("other parent: expected ErrNotFound, got %v", err)
	}
}

func TestListDossiers_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.createDossier(t, f.parent)
	f.clock.t = f.clock.t.Add(time.Hour)
	theirs := f.createDossier(t, f.otherParent)

	if _, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: theirs.ID, Statut: "EN_COURS"}); err != nil {
		t.Fatal(err)
	}

	enCours := models.StatutEnCours
	tests := []struct {
		name   string
		actor  auth.Principal
		filter models.DossierFilter
		want   []uuid.UUID
	}{
		{"staff sees all, newest first", f.staff, models.DossierFilter{}, []uuid.UUID{theirs.ID, mine.ID}},
		{"staff by user", f.staff, models.DossierFilter{UserID: &f.parent.UserID}, []uuid.UUID{mine.ID}},
		{"staff by status", f.staff, models.DossierFilter{Statut: &enCours}, []uuid.UUID{theirs.ID}},
		{"parent forced to own", f.parent, models.DossierFilter{}, []uuid.UUID{mine.ID}},
		{"parent cannot widen", f.parent, models.DossierFilter{UserID: &f.otherParent.UserID}, []uuid.UUID{mine.ID}},
		{"search", f.analyste, models.DossierFilter{SearchTerm: "libre"}, []uuid.UUID{theirs.ID, mine.ID}},
		{"search miss", f.analyste, models.DossierFilter{SearchTerm: "Dakar"}, nil},
		{"page", f.admin, models.DossierFilter{Limit: 1, Offset: 1}, []uuid.UUID{mine.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.dossiers.ListDossiers(ctx, ListDossiersRequest{Actor: tt.actor, Filter: tt.filter})
			if err != nil {
				t.Fatalf("ListDossiers: %v", err)
			}
			if len(res.Dossiers) != len(tt.want) {
				t.Fatalf("got %d dossiers, want %d", len(res.Dossiers), len(tt.want))
			}
			for i, d := range res.Dossiers {
				if d.ID != tt.want[i] {
					t.Errorf("dossier[%d] = %s, want %s", i, d.ID, tt.want[i])
				}
				if tt.filter.UserID != nil && tt.actor.IsInternal() && d.UserID != *tt.filter.UserID {
					t.Errorf("dossier of user %s leaked into filter", d.UserID)
				}
				if d.Documents == nil {
					t.Errorf("documents not loaded")
				}
			}
		})
	}

	page, _ := f.dossiers.ListDossiers(ctx, ListDossiersRequest{Actor: f.admin, Filter: models.DossierFilter{Limit: 1}})
	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}

	_, err := f.dossiers.ListDossiers(ctx, ListDossiersRequest{Actor: f.admin, Filter: models.DossierFilter{Offset: -1}})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("negative offset: expected ErrValidation, got %v", err)
	}
}

func TestGetDossier_ParentScope(t *testing.T) {
	f := newFixture(t)
	d := f.createDossier(t, f.parent)
	ctx := context.Background()

	_, err := f.dossiers.GetDossier(ctx, GetDossierRequest{Actor: f.otherParent, ID: d.ID})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("other parent: expected ErrNotFound, got %v", err)
	}
	_, err = f.dossiers.AddComment(ctx, AddCommentRequest{Actor: f.otherParent, DossierID: d.ID, Text: "hi"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("other parent comment: expected ErrNotFound, got %v", err)
	}
	_, err = f.dossiers.GetDossier(ctx, GetDossierRequest{Actor: f.staff, ID: uuid.New()})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: expected ErrNotFound, got %v", err)
	}
}

func TestDossierStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.createDossier(t, f.parent)
	f.createDossier(t, f.parent)
	if _, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: a.ID, Statut: "ACCEPTE"}); err != nil {
		t.Fatal(err)
	}

	stats, err := f.dossiers.DossierStats(ctx, f.analyste)
	if err != nil {
		t.Fatalf("DossierStats: %v", err)
	}
	if stats.Total != 2 || stats.ParStatut[models.StatutAccepte] != 1 || stats.ParStatut[models.StatutNouveau] != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if _, ok := stats.ParStatut[models.StatutCloture]; !ok {
		t.Errorf("every status should be reported")
	}

	if _, err := f.dossiers.DossierStats(ctx, f.parent); !errors.Is(err, ErrForbidden) {
		t.Errorf("parent: expected ErrForbidden, got %v", err)
	}
	if _, err := f.dossiers.StatusHistory(ctx, StatusHistoryRequest{Actor: f.parent, DossierID: a.ID}); !errors.Is(err, ErrForbidden) {
		t.Errorf("parent history: expected ErrForbidden, got %v", err)
	}
}

// Awa Koné, born 2015-03-02 in Libreville, one PDF, then accepted
func TestScenario_AwaKone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.dossiers.CreateDossier(ctx, CreateDossierRequest{
		Actor: f.parent,
		Input: DossierInput{
			Nom: "Koné", Prenom: "Awa", DateNaissance: "2015-03-02", Sexe: "F",
			Commune: "Libreville", ParentNom: "Mariam Koné", ParentTelephone: "+24112345678",
		},
		Documents: []Upload{pdfUpload("acte-naissance.pdf")},
	})
	if err != nil {
		t.Fatalf("CreateDossier: %v", err)
	}
	if created.Dossier.Statut != models.StatutNouveau || len(created.Dossier.Documents) != 1 {
		t.Fatalf("statut = %s, documents = %d", created.Dossier.Statut, len(created.Dossier.Documents))
	}

	res, err := f.dossiers.ChangeStatus(ctx, ChangeStatusRequest{Actor: f.staff, DossierID: created.Dossier.ID, Statut: "ACCEPTE"})
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if res.Dossier.Statut != models.StatutAccepte {
		t.Fatalf("statut = %s, want ACCEPTE", res.Dossier.Statut)
	}
}

func TestNextModification(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := nextModification(base, base.Add(time.Second)); !got.Equal(base.Add(time.Second)) {
		t.Errorf("later clock should win, got %v", got)
	}
	if got := nextModification(base, base); !got.Equal(base.Add(time.Microsecond)) {
		t.Errorf("equal clock should bump, got %v", got)
	}
	if got := nextModification(base, base.Add(-time.Hour)); !got.After(base) {
		t.Errorf("clock going backwards should still increase, got %v", got)
	}
}
