// Package views reshapes saved books into the catalog's display shape and
// computes the derived reading shelves. Everything here is a pure
// transformation: no side effects, no I/O, recomputed on every snapshot.
package views

import (
	"time"

	"github.com/readease/readease/internal/catalog"
	"github.com/readease/readease/internal/entities"
)

// Defaults substituted for missing optional fields so rendering code never
// has to branch on partially-populated records.
const (
	UnknownTitle     = "Unknown Title"
	UnknownAuthor    = "Unknown Author"
	UnknownPublisher = "Unknown Publisher"
	Uncategorized    = "Uncategorized"
	NoDescription    = "No description available"
	NoPublishedDate  = "N/A"
)

// BookView is a saved book presented in the same shape as a catalog volume,
// so screens render saved and not-yet-saved books uniformly. It is never
// persisted.
type BookView struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	StartedReadingAt *time.Time         `json:"started_reading_at,omitempty"`
	EndedReadingAt   *time.Time         `json:"ended_reading_at,omitempty"`
	VolumeInfo       catalog.VolumeInfo `json:"volumeInfo"`
}

// Shelves are the derived reading lists for one user.
type Shelves struct {
	ContinueReading []BookView `json:"continue_reading"`
	ToRead          []BookView `json:"to_read"`
	Read            []BookView `json:"read"`
}

// ToView applies the display defaults to a saved book. It never fails on a
// partially-populated record.
func ToView(book entities.Book) BookView {
	info := catalog.VolumeInfo{
		Title:         book.Title,
		Authors:       book.Authors,
		Publisher:     UnknownPublisher,
		PublishedDate: book.PublishedDate,
		Description:   book.Description,
		Categories:    book.Categories,
		Rating:        book.Rating,
	}
	if info.Title == "" {
		info.Title = UnknownTitle
	}
	if len(info.Authors) == 0 {
		info.Authors = []string{UnknownAuthor}
	}
	if len(info.Categories) == 0 {
		info.Categories = []string{Uncategorized}
	}
	if info.PublishedDate == "" {
		info.PublishedDate = NoPublishedDate
	}
	if info.Description == "" {
		info.Description = NoDescription
	}
	if book.PageCount != nil {
		info.PageCount = *book.PageCount
	}
	if book.PhotoURL != "" {
		info.ImageLinks = &catalog.ImageLinks{
			SmallThumbnail: book.PhotoURL,
			Thumbnail:      book.PhotoURL,
		}
	}

	return BookView{
		ID:               book.ID,
		UserID:           book.UserID,
		StartedReadingAt: book.StartedReadingAt,
		EndedReadingAt:   book.EndedReadingAt,
		VolumeInfo:       info,
	}
}

// FromBooks maps a snapshot into views.
func FromBooks(books []entities.Book) []BookView {
	out := make([]BookView, 0, len(books))
	for _, b := range books {
		out = append(out, ToView(b))
	}
	return out
}

// Categorize filters views to the given user and partitions them by reading
// stage. A record with an end date but no start date lands on no shelf; the
// to-read shelf is deduplicated by id, first occurrence wins.
func Categorize(all []BookView, userID string) Shelves {
	var shelves Shelves
	seenToRead := make(map[string]bool)

	for _, v := range all {
		if v.UserID != userID {
			continue
		}
		switch {
		case v.StartedReadingAt != nil && v.EndedReadingAt == nil:
			shelves.ContinueReading = append(shelves.ContinueReading, v)
		case v.StartedReadingAt == nil && v.EndedReadingAt == nil:
			if seenToRead[v.ID] {
				continue
			}
			seenToRead[v.ID] = true
			shelves.ToRead = append(shelves.ToRead, v)
		case v.StartedReadingAt != nil && v.EndedReadingAt != nil:
			shelves.Read = append(shelves.Read, v)
		}
	}
	return shelves
}
