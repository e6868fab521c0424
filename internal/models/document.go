package models

import "time"

// DocumentKind classifies a source document.
type DocumentKind string

const (
	// Unparsable document kinds.
	KindCircular DocumentKind = "circular"
	KindOther    DocumentKind = "other"

	// Parsable document kinds.
	KindTimetable     DocumentKind = "timetable"
	KindSubstitutions DocumentKind = "substitutions"
	KindLunchMenu     DocumentKind = "lunch-menu"
	KindSnackMenu     DocumentKind = "snack-menu"
	KindLunchSchedule DocumentKind = "lunch-schedule"
)

// Document is the bookkeeping record for one (kind, url) pair. It tracks the
// content hash used for change detection and whether the last parse attempt
// succeeded. Parsed=false marks a document that must be retried on the next run.
type Document struct {
	ID        int64        `db:"id" json:"id"`
	Kind      DocumentKind `db:"kind" json:"kind"`
	URL       string       `db:"url" json:"url"`
	Title     *string      `db:"title" json:"title,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	Effective *time.Time   `db:"effective" json:"effective,omitempty"`
	Hash      *string      `db:"hash" json:"hash,omitempty"`
	Parsed    bool         `db:"parsed" json:"parsed"`
	Content   *string      `db:"content" json:"content,omitempty"`
}
