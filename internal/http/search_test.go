package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease/internal/catalog"
	"github.com/readease/readease/internal/search"
)

type stubSearcher struct {
	volumes []catalog.Volume
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) ([]catalog.Volume, error) {
	s.queries = append(s.queries, query)
	return s.volumes, s.err
}

func setupSearchTest(stub *stubSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewSearchController(search.NewSession(stub, 0), "comics")

	router := gin.New()
	router.GET("/api/search", controller.Search)
	return router
}

func TestSearchController_Search(t *testing.T) {
	stub := &stubSearcher{volumes: []catalog.Volume{
		{ID: "abc", VolumeInfo: catalog.VolumeInfo{Title: "Watchmen"}},
	}}
	router := setupSearchTest(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/search?q=watchmen", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Query     string           `json:"query"`
		Results   []catalog.Volume `json:"results"`
		NoResults bool             `json:"no_results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "watchmen", response.Query)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "Watchmen", response.Results[0].VolumeInfo.Title)
	assert.False(t, response.NoResults)
}

// The search screen opens on its default query, not on an empty result set.
func TestSearchController_MissingQueryUsesDefault(t *testing.T) {
	stub := &stubSearcher{}
	router := setupSearchTest(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"comics"}, stub.queries)
}

func TestSearchController_FailureIsNoResultsNotAnError(t *testing.T) {
	stub := &stubSearcher{err: catalog.ErrUnavailable}
	router := setupSearchTest(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/search?q=watchmen", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "catalog outages degrade to empty results")

	var response struct {
		NoResults bool `json:"no_results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.NoResults)
}
