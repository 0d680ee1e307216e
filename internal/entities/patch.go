package entities

import "time"

// BookPatch is a partial field-level update for a Book. A nil field is absent
// from the patch and leaves the stored value untouched; a set field is written
// as-is. Absent is different from "set to empty".
type BookPatch struct {
	Rating           *int
	Notes            *StringList
	StartedReadingAt *time.Time
	EndedReadingAt   *time.Time
}

// IsEmpty reports whether the patch carries no fields at all.
func (p BookPatch) IsEmpty() bool {
	return p.Rating == nil && p.Notes == nil &&
		p.StartedReadingAt == nil && p.EndedReadingAt == nil
}

// Fields flattens the patch into column/value pairs. This is the only place
// the typed patch degrades to a map, right at the storage boundary.
func (p BookPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Rating != nil {
		fields["rating"] = *p.Rating
	}
	if p.Notes != nil {
		fields["notes"] = *p.Notes
	}
	if p.StartedReadingAt != nil {
		fields["started_reading_at"] = *p.StartedReadingAt
	}
	if p.EndedReadingAt != nil {
		fields["ended_reading_at"] = *p.EndedReadingAt
	}
	return fields
}
