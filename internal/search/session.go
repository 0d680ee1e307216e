// Package search holds the query and result state for the search screen,
// independent of the saved library.
package search

import (
	"context"
	"log"
	"sync"

	"github.com/readease/readease/internal/catalog"
)

// DefaultPageSize is the fixed result page size. There is no pagination
// beyond it.
const DefaultPageSize = 15

// Searcher is the slice of the catalog client the session needs.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]catalog.Volume, error)
}

// Session holds the last query and its result set. Search replaces the
// results wholesale; catalog failures are absorbed and leave the session
// empty with the no-results flag set.
type Session struct {
	client   Searcher
	pageSize int

	mu        sync.Mutex
	lastQuery string
	results   []catalog.Volume
	noResults bool
}

// NewSession creates a search session. pageSize <= 0 selects the default.
func NewSession(client Searcher, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{client: client, pageSize: pageSize}
}

// Search runs query against the catalog and replaces the session state.
func (s *Session) Search(ctx context.Context, query string) {
	s.mu.Lock()
	s.lastQuery = query
	s.results = nil
	s.noResults = false
	s.mu.Unlock()

	volumes, err := s.client.Search(ctx, query, s.pageSize)
	if err != nil {
		log.Printf("search: query %q failed: %v", query, err)
		s.mu.Lock()
		s.noResults = true
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.results = volumes
	s.noResults = len(volumes) == 0
	s.mu.Unlock()
}

// LastQuery returns the most recent query.
func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// Results returns the current result set.
func (s *Session) Results() []catalog.Volume {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Volume(nil), s.results...)
}

// NoResults reports whether the last search came back empty or failed.
func (s *Session) NoResults() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noResults
}
