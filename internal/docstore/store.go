// Package docstore is the backing document store for saved books: whole-
// document create, point read, partial-field update, delete, and a live
// query subscription over the collection.
package docstore

import (
	"context"
	"errors"

	"github.com/readease/readease/internal/entities"
)

// ErrUnavailable is returned when a read or write against the store fails.
var ErrUnavailable = errors.New("document store unavailable")

// WatchFunc receives the full scoped collection after every change. A non-nil
// err means the refresh failed and the delivery carries no documents.
type WatchFunc func(books []entities.Book, err error)

// Store is the books collection. Point reads on a missing document return a
// nil book, not an error.
type Store interface {
	// Create stores a new document, assigning its id and date-added stamp,
	// and returns the assigned id.
	Create(ctx context.Context, book *entities.Book) (string, error)

	// Get is a point read by document id.
	Get(ctx context.Context, id string) (*entities.Book, error)

	// Update applies a partial write: only fields present in the patch are
	// touched. An empty patch is a no-op.
	Update(ctx context.Context, id string, patch entities.BookPatch) error

	// Delete removes a document.
	Delete(ctx context.Context, id string) error

	// Books lists the collection in document order, scoped to userID when it
	// is non-empty. Document order is not sorted by any user-visible field.
	Books(ctx context.Context, userID string) ([]entities.Book, error)

	// Watch registers a live subscription scoped to userID (empty for the
	// whole collection). The current collection is delivered immediately,
	// then again after every mutation. The returned func cancels the
	// subscription.
	Watch(ctx context.Context, userID string, fn WatchFunc) (func(), error)
}
