package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease/internal/auth"
	"github.com/readease/readease/internal/catalog"
	"github.com/readease/readease/internal/docstore"
	"github.com/readease/readease/internal/entities"
	"github.com/readease/readease/internal/library"
	"github.com/readease/readease/internal/reconcile"
	"github.com/readease/readease/internal/session"
	"github.com/readease/readease/internal/views"
)

// LibraryController serves the saved library: shelves, details, add, update
// and delete. It owns one subscription to the library store at a time, the
// way a home screen owns one for its lifetime; the subscription is replaced
// when a different user signs in.
type LibraryController struct {
	store *library.Store
	docs  docstore.Store

	mu           sync.Mutex
	unsubscribe  func()
	subscribedAs string
}

func NewLibraryController(store *library.Store, docs docstore.Store) *LibraryController {
	return &LibraryController{store: store, docs: docs}
}

// ensureSubscribed lazily establishes this controller's subscription. The
// library store refuses to subscribe before anyone has signed in, so this is
// retried on each request until an identity exists. A request arriving under
// a different identity drops the old subscription and takes a fresh one, so
// the snapshot is re-scoped after a sign-out/sign-in.
func (lc *LibraryController) ensureSubscribed(ident session.Identity) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.unsubscribe != nil && lc.subscribedAs == ident.UserID {
		return nil
	}
	if lc.unsubscribe != nil {
		lc.unsubscribe()
		lc.unsubscribe = nil
	}
	unsubscribe, err := lc.store.Subscribe(func([]entities.Book) {})
	if err != nil {
		return err
	}
	lc.unsubscribe = unsubscribe
	lc.subscribedAs = ident.UserID
	return nil
}

// Shelves returns the categorized reading lists for the signed-in user.
// GET /api/library
func (lc *LibraryController) Shelves(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}
	if err := lc.ensureSubscribed(ident); err != nil {
		respondInternalError(c, err, "subscribe to library")
		return
	}

	shelves := views.Categorize(views.FromBooks(lc.store.Snapshot()), ident.UserID)
	c.JSON(http.StatusOK, shelves)
}

// GetBook returns the derived view of one saved book.
// GET /api/library/:id
func (lc *LibraryController) GetBook(c *gin.Context) {
	book, err := lc.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, views.ToView(*book))
}

// AddBook saves a catalog volume into the user's library.
// POST /api/library
func (lc *LibraryController) AddBook(c *gin.Context) {
	var vol catalog.Volume
	if err := c.ShouldBindJSON(&vol); err != nil {
		respondBadRequest(c, "invalid volume payload")
		return
	}

	book, err := lc.store.Add(c.Request.Context(), vol)
	if err != nil {
		respondInternalError(c, err, "add book")
		return
	}
	c.JSON(http.StatusCreated, views.ToView(*book))
}

type updateBookRequest struct {
	Rating       *int     `json:"rating"`
	Notes        []string `json:"notes"`
	MarkStarted  bool     `json:"mark_started"`
	MarkFinished bool     `json:"mark_finished"`
}

// UpdateBook commits an edit through the reconciler: only changed fields are
// written, as a single partial update.
// PATCH /api/library/:id
func (lc *LibraryController) UpdateBook(c *gin.Context) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid update payload")
		return
	}

	persisted, err := lc.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get book for update")
		return
	}
	if persisted == nil {
		respondNotFound(c, "book")
		return
	}

	edit := reconcile.NewEditSession(lc.docs, *persisted)
	edit.Begin()
	if req.Rating != nil {
		edit.SetRating(*req.Rating)
	}
	if req.Notes != nil {
		edit.SetNotes(req.Notes)
	}
	if req.MarkStarted {
		edit.MarkStarted()
	}
	if req.MarkFinished {
		edit.MarkFinished()
	}

	if _, err := edit.Commit(c.Request.Context()); err != nil {
		respondInternalError(c, err, "commit book update")
		return
	}
	c.JSON(http.StatusOK, views.ToView(edit.Persisted()))
}

// DeleteBook removes a saved book.
// DELETE /api/library/:id
func (lc *LibraryController) DeleteBook(c *gin.Context) {
	if err := lc.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}

// Stats summarizes the user's reading activity from the current snapshot.
// GET /api/stats
func (lc *LibraryController) Stats(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}
	if err := lc.ensureSubscribed(ident); err != nil {
		respondInternalError(c, err, "subscribe to library")
		return
	}

	shelves := views.Categorize(views.FromBooks(lc.store.Snapshot()), ident.UserID)
	c.JSON(http.StatusOK, gin.H{
		"display_name":      ident.DisplayName,
		"books_read":        len(shelves.Read),
		"currently_reading": len(shelves.ContinueReading),
		"to_read":           len(shelves.ToRead),
	})
}
