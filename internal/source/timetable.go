package source

import (
	"context"
	"time"

	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/internal/parser"
	"github.com/gimvic/schedule-sync/pkg/config"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

// Timetable tracks the single weekly timetable dump. The whole timetable is
// one living document keyed by its URL, refreshed in place.
type Timetable struct {
	cfg config.TimetableConfig
}

// NewTimetable constructs the timetable adapter.
func NewTimetable(cfg config.TimetableConfig) *Timetable {
	return &Timetable{cfg: cfg}
}

// Name implements Source.
func (s *Timetable) Name() string { return "timetable" }

// List implements Source. There is exactly one document.
func (s *Timetable) List(ctx context.Context) ([]Descriptor, error) {
	return []Descriptor{{
		URL:       s.cfg.URL,
		Kind:      models.KindTimetable,
		Extension: "js",
	}}, nil
}

// FetchURL implements Source.
func (s *Timetable) FetchURL(docURL string) string { return docURL }

// NeedsParsing implements Source.
func (s *Timetable) NeedsParsing(Descriptor) bool { return true }

// NeedsContentExtraction implements Source.
func (s *Timetable) NeedsContentExtraction(Descriptor) bool { return false }

// Title implements Source.
func (s *Timetable) Title(Descriptor) string { return "Urnik" }

// EffectiveDate implements Source. The timetable is not date-scoped.
func (s *Timetable) EffectiveDate(Descriptor) (*time.Time, error) { return nil, nil }

// Parse implements Source.
func (s *Timetable) Parse(d Descriptor, content []byte, _ *time.Time) (*ParseResult, error) {
	lessons, err := parser.Timetable(string(content))
	if err != nil {
		return nil, err
	}
	return &ParseResult{Lessons: lessons}, nil
}

// ExtractContent implements Source.
func (s *Timetable) ExtractContent(Descriptor, []byte) (string, error) {
	return "", appErrors.Clone(appErrors.ErrParseFailed, "timetable documents have no content")
}
