// Package source implements one adapter per document origin. An adapter
// enumerates candidate documents, knows which of them need parsing or
// content extraction, resolves effective dates from historically drifting
// naming conventions, and dispatches the right parser per document kind and
// file extension.
package source

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/internal/parser"
)

// Descriptor describes one candidate document as enumerated by an adapter.
// It is transient and never persisted as-is.
type Descriptor struct {
	URL       string
	Kind      models.DocumentKind
	Title     string
	Created   *time.Time
	Modified  *time.Time
	Extension string

	// Reprocess disables the content-hash skip. Set by adapters whose
	// upstream already scopes payloads, so a stale stored copy must never
	// shadow the live one.
	Reprocess bool
}

// ParseResult carries the name-level rows extracted from one document. Only
// the slice matching the document kind is populated.
type ParseResult struct {
	Substitutions []parser.Substitution
	LunchSlots    []parser.LunchSlot
	SnackMenus    []parser.MenuDay
	LunchMenus    []parser.MenuDay
	Lessons       []parser.Lesson
}

// Source is one document origin. The update service drives it through the
// per-document lifecycle; enumeration errors abort the whole run while
// per-document failures stay isolated.
type Source interface {
	// Name identifies the source in logs, metrics and run records.
	Name() string

	// List enumerates all candidate documents. Any error here is an
	// enumeration error.
	List(ctx context.Context) ([]Descriptor, error)

	// NeedsParsing reports whether the document carries structured data.
	NeedsParsing(d Descriptor) bool

	// NeedsContentExtraction reports whether the document body should be
	// converted to HTML and stored on the bookkeeping record.
	NeedsContentExtraction(d Descriptor) bool

	// Title returns the stored document title.
	Title(d Descriptor) string

	// EffectiveDate resolves the calendar date the document applies to.
	// It returns nil for kinds that have no effective date.
	EffectiveDate(d Descriptor) (*time.Time, error)

	// FetchURL rewrites a public document URL into the URL the bytes are
	// actually downloaded from, adding tokens where the origin needs them.
	FetchURL(url string) string

	// Parse extracts rows from the downloaded bytes.
	Parse(d Descriptor, content []byte, effective *time.Time) (*ParseResult, error)

	// ExtractContent converts a content-bearing document to HTML.
	ExtractContent(d Descriptor, content []byte) (string, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func urlExtension(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	for i := len(url) - 1; i >= 0; i-- {
		switch url[i] {
		case '.':
			return strings.ToLower(url[i+1:])
		case '/':
			return ""
		}
	}
	return ""
}
