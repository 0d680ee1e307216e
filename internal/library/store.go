// Package library holds the authoritative in-memory snapshot of the current
// user's saved books, refreshed by the document store's push notifications.
package library

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/readease/readease/internal/catalog"
	"github.com/readease/readease/internal/docstore"
	"github.com/readease/readease/internal/entities"
	"github.com/readease/readease/internal/session"
)

// ErrNoIdentity is returned when a scoped operation runs before anyone has
// signed in.
var ErrNoIdentity = errors.New("no authenticated identity")

// Store is the single writer of the saved-books snapshot. It maintains at
// most one upstream subscription to the document store and multiplexes
// change notifications to all registered listeners.
type Store struct {
	docs    docstore.Store
	session *session.Context

	mu          sync.Mutex
	snapshot    []entities.Book
	listeners   map[int]func([]entities.Book)
	nextID      int
	cancelWatch func()
	watchUserID string
}

// New creates a library store scoped by the given session context.
func New(docs docstore.Store, sess *session.Context) *Store {
	return &Store{
		docs:      docs,
		session:   sess,
		listeners: make(map[int]func([]entities.Book)),
	}
}

// Snapshot returns a copy of the current cached records. It never blocks on
// the document store. The order is the store's document order, not sorted by
// any user-visible field.
func (s *Store) Snapshot() []entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Book(nil), s.snapshot...)
}

// Subscribe registers cb for push updates and returns its unsubscribe func.
//
// The upstream subscription is established lazily on the first subscriber,
// and only once an identity is present: subscribing while signed out fails
// fast instead of masking the ordering with a delay. A subscribe under a
// different identity than the one the upstream watch is scoped to tears the
// stale watch down and re-establishes it, so the snapshot tracks whoever is
// signed in now. Unsubscribing the last listener tears the upstream
// subscription down.
func (s *Store) Subscribe(cb func([]entities.Book)) (func(), error) {
	ident, ok := s.session.Current()
	if !ok {
		return nil, ErrNoIdentity
	}

	s.mu.Lock()
	stale := s.cancelWatch
	if s.cancelWatch != nil && s.watchUserID == ident.UserID {
		stale = nil
	} else {
		s.cancelWatch = nil
	}
	established := s.cancelWatch != nil
	s.mu.Unlock()
	if stale != nil {
		stale()
	}

	if !established {
		cancel, err := s.docs.Watch(context.Background(), ident.UserID, s.deliver)
		if err != nil {
			return nil, fmt.Errorf("establish upstream subscription: %w", err)
		}
		s.mu.Lock()
		if s.cancelWatch == nil {
			s.cancelWatch = cancel
			s.watchUserID = ident.UserID
			cancel = nil
		}
		s.mu.Unlock()
		if cancel != nil {
			// Another subscriber won the race; drop the extra upstream.
			cancel()
		}
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = cb
	current := append([]entities.Book(nil), s.snapshot...)
	s.mu.Unlock()

	cb(current)

	unsubscribe := func() {
		s.mu.Lock()
		delete(s.listeners, id)
		var cancel func()
		if len(s.listeners) == 0 {
			cancel = s.cancelWatch
			s.cancelWatch = nil
		}
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	}
	return unsubscribe, nil
}

// deliver is the upstream watch callback: the only path that mutates the
// snapshot. A notification error is logged and the stale snapshot kept.
func (s *Store) deliver(books []entities.Book, err error) {
	if err != nil {
		log.Printf("library: push notification failed, keeping snapshot: %v", err)
		return
	}

	s.mu.Lock()
	s.snapshot = books
	listeners := make([]func([]entities.Book), 0, len(s.listeners))
	for _, cb := range s.listeners {
		listeners = append(listeners, cb)
	}
	s.mu.Unlock()

	for _, cb := range listeners {
		cb(append([]entities.Book(nil), books...))
	}
}

// GetByID is a point lookup going directly to the document store, bypassing
// the snapshot cache. A missing record is a nil result, not an error.
func (s *Store) GetByID(ctx context.Context, id string) (*entities.Book, error) {
	return s.docs.Get(ctx, id)
}

// Add saves a catalog volume into the current user's library and returns the
// created record.
func (s *Store) Add(ctx context.Context, vol catalog.Volume) (*entities.Book, error) {
	ident, ok := s.session.Current()
	if !ok {
		return nil, ErrNoIdentity
	}

	book := &entities.Book{
		UserID:        ident.UserID,
		GoogleBookID:  vol.ID,
		Title:         vol.VolumeInfo.Title,
		Authors:       entities.StringList(vol.VolumeInfo.Authors),
		Description:   vol.VolumeInfo.Description,
		Categories:    entities.StringList(vol.VolumeInfo.Categories),
		PublishedDate: vol.VolumeInfo.PublishedDate,
		Notes:         entities.StringList{},
	}
	if vol.VolumeInfo.ImageLinks != nil {
		book.PhotoURL = vol.VolumeInfo.ImageLinks.HTTPSThumbnail()
	}
	if vol.VolumeInfo.PageCount > 0 {
		pages := vol.VolumeInfo.PageCount
		book.PageCount = &pages
	}

	if _, err := s.docs.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Remove deletes a saved book.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, id)
}
