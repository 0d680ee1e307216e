package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease/internal/catalog"
)

type stubSearcher struct {
	volumes  []catalog.Volume
	err      error
	queries  []string
	pageSize int
}

func (s *stubSearcher) Search(_ context.Context, query string, maxResults int) ([]catalog.Volume, error) {
	s.queries = append(s.queries, query)
	s.pageSize = maxResults
	return s.volumes, s.err
}

func TestSession_SearchReplacesResultsWholesale(t *testing.T) {
	stub := &stubSearcher{volumes: []catalog.Volume{{ID: "a"}, {ID: "b"}}}
	session := NewSession(stub, 0)

	session.Search(context.Background(), "golang")

	assert.Equal(t, "golang", session.LastQuery())
	assert.False(t, session.NoResults())
	results := session.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, DefaultPageSize, stub.pageSize)

	// A second search fully replaces the first result set.
	stub.volumes = []catalog.Volume{{ID: "c"}}
	session.Search(context.Background(), "rust")

	assert.Equal(t, "rust", session.LastQuery())
	results = session.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].ID)
}

func TestSession_EmptyResultSetsNoResults(t *testing.T) {
	session := NewSession(&stubSearcher{}, 0)

	session.Search(context.Background(), "obscure")

	assert.True(t, session.NoResults())
	assert.Empty(t, session.Results())
}

func TestSession_CatalogFailureIsAbsorbed(t *testing.T) {
	stub := &stubSearcher{volumes: []catalog.Volume{{ID: "a"}}}
	session := NewSession(stub, 0)
	session.Search(context.Background(), "golang")
	require.Len(t, session.Results(), 1)

	stub.volumes = nil
	stub.err = catalog.ErrUnavailable
	session.Search(context.Background(), "golang again")

	assert.True(t, session.NoResults())
	assert.Empty(t, session.Results(), "a failed search clears the previous results")
	assert.Equal(t, "golang again", session.LastQuery())
}

func TestNewSession_PageSizeOverride(t *testing.T) {
	stub := &stubSearcher{}
	session := NewSession(stub, 40)

	session.Search(context.Background(), "golang")

	assert.Equal(t, 40, stub.pageSize)
}
