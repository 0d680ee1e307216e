package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores an ordered list of strings as a JSON-encoded text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("encode string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(l))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(l))
	default:
		return fmt.Errorf("unsupported string list column type %T", value)
	}
}

// Equal reports whether both lists hold the same elements in the same order.
func (l StringList) Equal(other StringList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Book is a saved library record: one document per saved title per user.
// Column names mirror the document field names used by the mobile clients.
type Book struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	UserID        string     `gorm:"index;size:36;column:user_id" json:"user_id"`
	GoogleBookID  string     `gorm:"size:64;column:google_book_id" json:"google_book_id,omitempty"`
	Title         string     `gorm:"size:512" json:"title,omitempty"`
	Authors       StringList `gorm:"type:text" json:"authors"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	Categories    StringList `gorm:"type:text" json:"categories"`
	PhotoURL      string     `gorm:"size:2048;column:book_photo_url" json:"book_photo_url,omitempty"`
	PublishedDate string     `gorm:"size:64;column:published_date" json:"published_date,omitempty"`
	Rating        int        `json:"rating"`
	Notes         StringList `gorm:"type:text" json:"notes"`
	PageCount     *int       `gorm:"column:page_count" json:"page_count,omitempty"`

	// Absence means the book has not reached that reading stage yet.
	StartedReadingAt *time.Time `gorm:"column:started_reading_at" json:"started_reading_at,omitempty"`
	EndedReadingAt   *time.Time `gorm:"column:ended_reading_at" json:"ended_reading_at,omitempty"`

	DateAdded time.Time `gorm:"column:date_added" json:"date_added"`
}

func (Book) TableName() string {
	return "books"
}
