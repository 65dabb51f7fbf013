// Package memory provides an in-memory implementation of the repositories.
// It backs DATABASE_DRIVER=memory and the service and handler tests.
//
// Transactions work on a private clone of the state that replaces the
// committed state on success. Writes outside a transaction wait for any
// running transaction to finish.
package memory

import (
	"context"
	"sync"

	"dossierportal-backend/models"
	"dossierportal-backend/repository"

	"github.com/google/uuid"
)

type state struct {
	users         map[uuid.UUID]models.User
	dossiers      map[uuid.UUID]models.Dossier
	documents     map[uuid.UUID]models.Document
	commentaires  []models.Commentaire
	statusChanges []models.StatusChange
	forms         []models.FormSubmission
}

func newState() *state {
	return &state{
		users:     map[uuid.UUID]models.User{},
		dossiers:  map[uuid.UUID]models.Dossier{},
		documents: map[uuid.UUID]models.Document{},
	}
}

func (s *state) clone() *state {
	cp := &state{
		users:         make(map[uuid.UUID]models.User, len(s.users)),
		dossiers:      make(map[uuid.UUID]models.Dossier, len(s.dossiers)),
		documents:     make(map[uuid.UUID]models.Document, len(s.documents)),
		commentaires:  append([]models.Commentaire(nil), s.commentaires...),
		statusChanges: append([]models.StatusChange(nil), s.statusChanges...),
		forms:         append([]models.FormSubmission(nil), s.forms...),
	}
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.dossiers {
		cp.dossiers[k] = v
	}
	for k, v := range s.documents {
		cp.documents[k] = v
	}
	return cp
}

// Store holds the in-memory state shared by the repositories
type Store struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{state: newState()}
}

type txKey struct{}

// ExecTx runs fn against a private copy of the state and commits it when fn
// returns nil. Nested calls join the outer transaction.
func (s *Store) ExecTx(ctx context.Context, fn repository.TxFn) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = work
	s.mu.Unlock()
	return nil
}

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// write applies fn to the transaction state, or directly to the committed
// state when ctx carries no transaction. fn must not mutate before it can fail.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Dossiers returns the dossier repository
func (s *Store) Dossiers() *DossierRepository { return &DossierRepository{store: s} }

// Documents returns the document repository
func (s *Store) Documents() *DocumentRepository { return &DocumentRepository{store: s} }

// Commentaires returns the comment repository
func (s *Store) Commentaires() *CommentaireRepository { return &CommentaireRepository{store: s} }

// StatusChanges returns the status history repository
func (s *Store) StatusChanges() *StatusChangeRepository { return &StatusChangeRepository{store: s} }

// Users returns the user repository
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// FormSubmissions returns the form submission repository
func (s *Store) FormSubmissions() *FormSubmissionRepository {
	return &FormSubmissionRepository{store: s}
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
