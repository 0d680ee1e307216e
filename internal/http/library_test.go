package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readease/readease/internal/auth"
	"github.com/readease/readease/internal/docstore"
	"github.com/readease/readease/internal/entities"
	"github.com/readease/readease/internal/library"
	"github.com/readease/readease/internal/session"
	"github.com/readease/readease/internal/views"
)

func setupLibraryTest(t *testing.T) (*docstore.SQLite, *session.Context, *gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_library_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	docs, err := docstore.NewSQLite(db)
	require.NoError(t, err)

	sess := session.NewContext()
	sess.Set(session.Identity{UserID: "u1", Email: "ada@example.com", DisplayName: "ada"})
	store := library.New(docs, sess)
	controller := NewLibraryController(store, docs)

	router := gin.New()
	// Stands in for the session middleware: every request is u1.
	router.Use(func(c *gin.Context) {
		ident, _ := sess.Current()
		c.Set(auth.ContextKeyIdentity, ident)
	})
	router.GET("/api/library", controller.Shelves)
	router.POST("/api/library", controller.AddBook)
	router.GET("/api/library/:id", controller.GetBook)
	router.PATCH("/api/library/:id", controller.UpdateBook)
	router.DELETE("/api/library/:id", controller.DeleteBook)
	router.GET("/api/stats", controller.Stats)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return docs, sess, router, cleanup
}

func TestLibraryController_Shelves(t *testing.T) {
	docs, _, router, cleanup := setupLibraryTest(t)
	defer cleanup()

	started := time.Now()
	seed := []entities.Book{
		{UserID: "u1", Title: "Queued"},
		{UserID: "u1", Title: "Reading", StartedReadingAt: &started},
		{UserID: "u2", Title: "Not Mine"},
	}
	for i := range seed {
		_, err := docs.Create(context.Background(), &seed[i])
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/library", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var shelves views.Shelves
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shelves))
	require.Len(t, shelves.ToRead, 1)
	assert.Equal(t, "Queued", shelves.ToRead[0].VolumeInfo.Title)
	require.Len(t, shelves.ContinueReading, 1)
	assert.Equal(t, "Reading", shelves.ContinueReading[0].VolumeInfo.Title)
	assert.Empty(t, shelves.Read)
}

func TestLibraryController_GetBook(t *testing.T) {
	t.Run("returns derived view with defaults", func(t *testing.T) {
		docs, _, router, cleanup := setupLibraryTest(t)
		defer cleanup()

		id, err := docs.Create(context.Background(), &entities.Book{UserID: "u1"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/library/"+id, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var view views.BookView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, views.UnknownTitle, view.VolumeInfo.Title)
		assert.Equal(t, []string{views.UnknownAuthor}, view.VolumeInfo.Authors)
	})

	t.Run("returns 404 for missing book", func(t *testing.T) {
		_, _, router, cleanup := setupLibraryTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/library/missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "book not found")
	})
}

func TestLibraryController_AddBook(t *testing.T) {
	docs, _, router, cleanup := setupLibraryTest(t)
	defer cleanup()

	payload := `{
		"id": "gb-42",
		"volumeInfo": {
			"title": "Piranesi",
			"authors": ["Susanna Clarke"],
			"pageCount": 245,
			"imageLinks": {"thumbnail": "http://books.example.com/p.jpg"}
		}
	}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/library", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	books, err := docs.Books(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Piranesi", books[0].Title)
	assert.Equal(t, "gb-42", books[0].GoogleBookID)
	assert.Equal(t, "https://books.example.com/p.jpg", books[0].PhotoURL)
}

func TestLibraryController_AddBook_InvalidPayload(t *testing.T) {
	_, _, router, cleanup := setupLibraryTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/library", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLibraryController_UpdateBook(t *testing.T) {
	docs, _, router, cleanup := setupLibraryTest(t)
	defer cleanup()

	id, err := docs.Create(context.Background(), &entities.Book{UserID: "u1", Title: "Piranesi", Rating: 3})
	require.NoError(t, err)

	payload := `{"rating": 5, "notes": ["the house is kind"], "mark_started": true}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/library/"+id, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	book, err := docs.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, 5, book.Rating)
	assert.Equal(t, entities.StringList{"the house is kind"}, book.Notes)
	assert.NotNil(t, book.StartedReadingAt)
	assert.Nil(t, book.EndedReadingAt)
	assert.Equal(t, "Piranesi", book.Title, "untouched fields keep their values")
}

func TestLibraryController_UpdateBook_Missing(t *testing.T) {
	_, _, router, cleanup := setupLibraryTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/library/missing", bytes.NewBufferString(`{"rating": 5}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLibraryController_DeleteBook(t *testing.T) {
	docs, _, router, cleanup := setupLibraryTest(t)
	defer cleanup()

	id, err := docs.Create(context.Background(), &entities.Book{UserID: "u1"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/library/"+id, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	book, err := docs.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestLibraryController_Stats(t *testing.T) {
	docs, _, router, cleanup := setupLibraryTest(t)
	defer cleanup()

	started := time.Now().Add(-time.Hour)
	ended := time.Now()
	seed := []entities.Book{
		{UserID: "u1"},
		{UserID: "u1", StartedReadingAt: &started},
		{UserID: "u1", StartedReadingAt: &started, EndedReadingAt: &ended},
	}
	for i := range seed {
		_, err := docs.Create(context.Background(), &seed[i])
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "ada", stats["display_name"])
	assert.Equal(t, float64(1), stats["books_read"])
	assert.Equal(t, float64(1), stats["currently_reading"])
	assert.Equal(t, float64(1), stats["to_read"])
}

// Reproduces the sign-out/sign-in sequence: the first user's browsing must
// not pin the snapshot scope for everyone who signs in after them.
func TestLibraryController_ShelvesFollowIdentitySwitch(t *testing.T) {
	docs, sess, router, cleanup := setupLibraryTest(t)
	defer cleanup()

	_, err := docs.Create(context.Background(), &entities.Book{UserID: "u2", Title: "Theirs"})
	require.NoError(t, err)

	// u1 browses first, establishing the controller's subscription.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/library", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var shelves views.Shelves
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shelves))
	assert.Empty(t, shelves.ToRead)

	// u1 signs out, u2 signs in.
	sess.Clear()
	sess.Set(session.Identity{UserID: "u2", Email: "bob@example.com", DisplayName: "bob"})

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/library", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shelves))
	require.Len(t, shelves.ToRead, 1)
	assert.Equal(t, "Theirs", shelves.ToRead[0].VolumeInfo.Title)
}
