package catalog

import "strings"

// Volume is a catalog entry. Volumes are ephemeral: they are never persisted
// directly, only reshaped into saved books when the user adds one.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo is the display shape shared by catalog results and derived book
// views. Rating here is the catalog's rating, distinct from the user's.
type VolumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Publisher     string      `json:"publisher"`
	PublishedDate string      `json:"publishedDate"`
	Description   string      `json:"description"`
	PageCount     int         `json:"pageCount"`
	Categories    []string    `json:"categories"`
	ImageLinks    *ImageLinks `json:"imageLinks,omitempty"`
	Rating        int         `json:"rating"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// HTTPSThumbnail upgrades the thumbnail scheme; the catalog still hands out
// plain http URLs.
func (l ImageLinks) HTTPSThumbnail() string {
	return strings.Replace(l.Thumbnail, "http://", "https://", 1)
}
