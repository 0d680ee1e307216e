// Package reconcile computes minimal field-level patches between an
// in-progress edit and the last-known persisted record, and drives the edit
// session state machine that commits them.
package reconcile

import (
	"time"

	"github.com/readease/readease/internal/entities"
)

// Edit holds the candidate values gathered while the user is editing a book:
// rating, the full notes list, and the "mark as started"/"mark as finished"
// flags.
type Edit struct {
	Rating       int
	Notes        entities.StringList
	MarkStarted  bool
	MarkFinished bool
}

// ComputePatch returns the patch that brings the persisted record in line
// with the edit.
//
// Rating and notes are included only when they differ from the persisted
// values (notes are a full-list replace, not an element-wise diff). The start
// timestamp is stamped `now` when newly marked, and once the persisted value
// is set it is resent unchanged on every subsequent patch; the end timestamp
// follows the same rule. An edit with nothing changed and nothing marked
// yields an empty patch, which callers must treat as "do not write".
func ComputePatch(persisted entities.Book, edit Edit, now time.Time) entities.BookPatch {
	changedRating := edit.Rating != persisted.Rating
	changedNotes := !edit.Notes.Equal(persisted.Notes)
	if !changedRating && !changedNotes && !edit.MarkStarted && !edit.MarkFinished {
		return entities.BookPatch{}
	}

	var patch entities.BookPatch

	if changedRating {
		rating := edit.Rating
		patch.Rating = &rating
	}
	if changedNotes {
		notes := append(entities.StringList(nil), edit.Notes...)
		patch.Notes = &notes
	}

	switch {
	case edit.MarkStarted:
		started := now
		patch.StartedReadingAt = &started
	case persisted.StartedReadingAt != nil:
		patch.StartedReadingAt = persisted.StartedReadingAt
	}

	switch {
	case edit.MarkFinished:
		ended := now
		patch.EndedReadingAt = &ended
	case persisted.EndedReadingAt != nil:
		patch.EndedReadingAt = persisted.EndedReadingAt
	}

	return patch
}
