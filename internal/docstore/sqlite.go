package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/readease/readease/internal/entities"
)

// SQLite is a gorm-backed Store. It emulates the cloud store's live query:
// every successful mutation re-queries the collection and notifies all
// registered watchers with their scoped view of it.
type SQLite struct {
	db *gorm.DB

	mu       sync.Mutex
	watchers map[int]*watcher
	nextID   int
}

type watcher struct {
	userID string
	fn     WatchFunc
}

var _ Store = (*SQLite)(nil)

// NewSQLite creates the store and migrates the books collection.
func NewSQLite(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&entities.Book{}); err != nil {
		return nil, fmt.Errorf("migrate books collection: %w", err)
	}
	return &SQLite{
		db:       db,
		watchers: make(map[int]*watcher),
	}, nil
}

// Create stores a new book document. The id is assigned here and is stable
// for the record's lifetime.
func (s *SQLite) Create(ctx context.Context, book *entities.Book) (string, error) {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if book.DateAdded.IsZero() {
		book.DateAdded = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		return "", fmt.Errorf("%w: create book: %v", ErrUnavailable, err)
	}
	s.notify(ctx)
	return book.ID, nil
}

// Get is a point read bypassing any cached snapshot.
func (s *SQLite) Get(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := s.db.WithContext(ctx).First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get book %s: %v", ErrUnavailable, id, err)
	}
	return &book, nil
}

// Update applies a partial write. Fields absent from the patch keep their
// stored values; there is no version check, so concurrent writers are
// last-write-wins per field.
func (s *SQLite) Update(ctx context.Context, id string, patch entities.BookPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("%w: update book %s: %v", ErrUnavailable, id, err)
	}
	s.notify(ctx)
	return nil
}

// Delete removes a book document.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Delete(&entities.Book{}, "id = ?", id).Error
	if err != nil {
		return fmt.Errorf("%w: delete book %s: %v", ErrUnavailable, id, err)
	}
	s.notify(ctx)
	return nil
}

// Books lists the collection in primary-key order, scoped to userID when
// non-empty.
func (s *SQLite) Books(ctx context.Context, userID string) ([]entities.Book, error) {
	var books []entities.Book
	q := s.db.WithContext(ctx).Order("id")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("%w: list books: %v", ErrUnavailable, err)
	}
	return books, nil
}

// Watch registers a scoped live subscription and delivers the current
// collection state to fn before returning.
func (s *SQLite) Watch(ctx context.Context, userID string, fn WatchFunc) (func(), error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = &watcher{userID: userID, fn: fn}
	s.mu.Unlock()

	books, err := s.Books(ctx, userID)
	fn(books, err)

	cancel := func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
	return cancel, nil
}

func (s *SQLite) notify(ctx context.Context) {
	s.mu.Lock()
	current := make([]*watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		current = append(current, w)
	}
	s.mu.Unlock()

	for _, w := range current {
		books, err := s.Books(ctx, w.userID)
		w.fn(books, err)
	}
}
