package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/readease/readease/internal/docstore"
	"github.com/readease/readease/internal/entities"
)

// State of an edit session.
type State int

const (
	Viewing State = iota
	Editing
	Committing
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrNotEditing = errors.New("edit session is not in the editing state")

// EditSession drives one book through Viewing -> Editing -> Committing and
// back. On a successful commit the record is re-fetched with a point read
// rather than waiting for the push notification; on failure the session
// stays in Editing with the candidate values untouched.
//
// There is no optimistic concurrency check: two sessions editing the same
// record are last-write-wins per field group.
type EditSession struct {
	docs        docstore.Store
	onCommitted func(entities.Book)

	now func() time.Time

	state     State
	persisted entities.Book
	edit      Edit
}

// NewEditSession creates a session over the last-known persisted record.
func NewEditSession(docs docstore.Store, persisted entities.Book) *EditSession {
	return &EditSession{
		docs:      docs,
		now:       time.Now,
		state:     Viewing,
		persisted: persisted,
	}
}

// OnCommitted registers a callback invoked with the re-fetched record after
// each successful non-empty commit. Screens hang navigation off this.
func (s *EditSession) OnCommitted(fn func(entities.Book)) {
	s.onCommitted = fn
}

// State returns the current state.
func (s *EditSession) State() State {
	return s.state
}

// Persisted returns the last-known persisted record.
func (s *EditSession) Persisted() entities.Book {
	return s.persisted
}

// Begin moves Viewing -> Editing, seeding the candidates from the persisted
// record. Begin on a session already editing is a no-op.
func (s *EditSession) Begin() {
	if s.state != Viewing {
		return
	}
	s.state = Editing
	s.edit = Edit{
		Rating: s.persisted.Rating,
		Notes:  append(entities.StringList(nil), s.persisted.Notes...),
	}
}

// SetRating replaces the candidate rating.
func (s *EditSession) SetRating(rating int) {
	if s.state != Editing {
		return
	}
	s.edit.Rating = rating
}

// SetNotes replaces the candidate notes wholesale.
func (s *EditSession) SetNotes(notes []string) {
	if s.state != Editing {
		return
	}
	s.edit.Notes = append(entities.StringList(nil), notes...)
}

// AddNote appends a note to the candidate list.
func (s *EditSession) AddNote(note string) {
	if s.state != Editing {
		return
	}
	s.edit.Notes = append(s.edit.Notes, note)
}

// MarkStarted flags the book as started reading now.
func (s *EditSession) MarkStarted() {
	if s.state != Editing {
		return
	}
	s.edit.MarkStarted = true
}

// MarkFinished flags the book as finished reading now.
func (s *EditSession) MarkFinished() {
	if s.state != Editing {
		return
	}
	s.edit.MarkFinished = true
}

// Commit computes the patch and applies it as a single partial write. An
// empty patch commits without a write. The returned patch reports what was
// sent.
func (s *EditSession) Commit(ctx context.Context) (entities.BookPatch, error) {
	if s.state != Editing {
		return entities.BookPatch{}, ErrNotEditing
	}

	patch := ComputePatch(s.persisted, s.edit, s.now())
	if patch.IsEmpty() {
		s.state = Viewing
		return patch, nil
	}

	s.state = Committing
	if err := s.docs.Update(ctx, s.persisted.ID, patch); err != nil {
		log.Printf("reconcile: update of book %s failed: %v", s.persisted.ID, err)
		s.state = Editing
		return entities.BookPatch{}, err
	}

	// Point re-fetch so the session sees its own write immediately. A failed
	// re-fetch keeps the stale record; the next push notification catches up.
	refreshed, err := s.docs.Get(ctx, s.persisted.ID)
	if err != nil {
		log.Printf("reconcile: re-fetch of book %s failed: %v", s.persisted.ID, err)
	} else if refreshed != nil {
		s.persisted = *refreshed
	}

	s.state = Viewing
	s.edit = Edit{}
	if s.onCommitted != nil {
		s.onCommitted(s.persisted)
	}
	return patch, nil
}
