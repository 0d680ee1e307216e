package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease/internal/search"
)

// SearchController serves the catalog search screen's state.
type SearchController struct {
	session      *search.Session
	defaultQuery string
}

func NewSearchController(session *search.Session, defaultQuery string) *SearchController {
	return &SearchController{session: session, defaultQuery: defaultQuery}
}

// Search runs a catalog query and returns the session's new result set. With
// no q parameter the screen's default query is used, matching the initial
// load of the search screen.
// GET /api/search?q=...
func (sc *SearchController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		query = sc.defaultQuery
	}

	sc.session.Search(c.Request.Context(), query)

	c.JSON(http.StatusOK, gin.H{
		"query":      sc.session.LastQuery(),
		"results":    sc.session.Results(),
		"no_results": sc.session.NoResults(),
	})
}
