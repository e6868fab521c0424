package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/internal/parser"
	"github.com/gimvic/schedule-sync/internal/source"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

// SyncService drives one source adapter through the full per-document
// lifecycle: change detection by content hash, parser dispatch, entity
// resolution and date-scoped persistence. Each document commits in its own
// transaction; a single bad document never aborts the run.
type SyncService struct {
	store   Store
	client  *http.Client
	logger  *zap.Logger
	metrics *MetricsService
	now     func() time.Time
}

// NewSyncService constructs the update service.
func NewSyncService(store Store, timeout time.Duration, logger *zap.Logger, metrics *MetricsService) *SyncService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		store:   store,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Run processes every document the source enumerates and reports per-document
// outcomes. An enumeration failure aborts the run: without a document list
// there is nothing to process.
func (s *SyncService) Run(ctx context.Context, src source.Source) (*models.RunResult, error) {
	log := s.logger.With(zap.String("source", src.Name()))

	result := &models.RunResult{Source: src.Name(), StartedAt: s.now().UTC()}

	docs, err := src.List(ctx)
	if err != nil {
		log.Error("document enumeration failed", zap.Error(err))
		return nil, err
	}

	for _, d := range docs {
		outcome := s.handleDocument(ctx, src, d)
		result.Documents = append(result.Documents, outcome)
		s.metrics.ObserveDocument(src.Name(), d.Kind, outcome.Action)

		if outcome.Action == models.ActionCrashed {
			log.Warn("document crashed",
				zap.String("url", d.URL),
				zap.String("kind", string(d.Kind)),
				zap.String("error", outcome.Error))
		}
	}

	result.FinishedAt = s.now().UTC()
	s.metrics.ObserveRun(src.Name(), result)

	log.Info("source run complete",
		zap.Int("created", result.Count(models.ActionCreated)),
		zap.Int("updated", result.Count(models.ActionUpdated)),
		zap.Int("skipped", result.Count(models.ActionSkipped)),
		zap.Int("crashed", result.Count(models.ActionCrashed)))

	return result, nil
}

func (s *SyncService) handleDocument(ctx context.Context, src source.Source, d source.Descriptor) models.DocumentOutcome {
	outcome := models.DocumentOutcome{URL: d.URL, Kind: d.Kind}

	crashed := func(err error) models.DocumentOutcome {
		outcome.Action = models.ActionCrashed
		outcome.Error = err.Error()
		return outcome
	}

	record, err := s.store.FindDocument(ctx, d.Kind, d.URL)
	if err != nil {
		return crashed(err)
	}

	created := s.now().UTC()
	if d.Created != nil {
		created = *d.Created
	}
	modified := created
	if d.Modified != nil {
		modified = *d.Modified
	}

	switch {
	case src.NeedsParsing(d):
		content, hash, err := s.download(ctx, src, d)
		if err != nil {
			return crashed(err)
		}

		if record != nil && record.Parsed && record.Hash != nil && *record.Hash == hash && !d.Reprocess {
			s.logger.Debug("document unchanged", zap.String("url", d.URL), zap.String("hash", hash))
			outcome.Action = models.ActionSkipped
			return outcome
		}

		effective, err := src.EffectiveDate(d)
		if err != nil {
			return crashed(err)
		}

		parsed, parseErr := parseDocument(src, d, content, effective)

		action := models.ActionUpdated
		if record == nil {
			action = models.ActionCreated
		}

		err = s.store.InTx(ctx, func(tx StoreTx) error {
			if parseErr == nil {
				if err := s.persist(ctx, tx, d.Kind, effective, parsed); err != nil {
					return err
				}
			}

			doc := s.bookkeeping(record, d, src.Title(d), created, modified)
			doc.Effective = effective
			doc.Hash = &hash
			doc.Parsed = parseErr == nil

			if record == nil {
				return tx.InsertDocument(ctx, doc)
			}
			return tx.UpdateDocument(ctx, doc)
		})
		if err != nil {
			return crashed(err)
		}
		if parseErr != nil {
			return crashed(parseErr)
		}
		outcome.Action = action
		return outcome

	case src.NeedsContentExtraction(d):
		content, hash, err := s.download(ctx, src, d)
		if err != nil {
			return crashed(err)
		}

		if record != nil && record.Parsed && record.Hash != nil && *record.Hash == hash {
			outcome.Action = models.ActionSkipped
			return outcome
		}

		html, extractErr := extractContent(src, d, content)

		action := models.ActionUpdated
		if record == nil {
			action = models.ActionCreated
		}

		err = s.store.InTx(ctx, func(tx StoreTx) error {
			doc := s.bookkeeping(record, d, src.Title(d), created, modified)
			doc.Hash = &hash
			if extractErr == nil {
				doc.Content = &html
				doc.Parsed = true
			} else {
				doc.Parsed = false
			}

			if record == nil {
				return tx.InsertDocument(ctx, doc)
			}
			return tx.UpdateDocument(ctx, doc)
		})
		if err != nil {
			return crashed(err)
		}
		if extractErr != nil {
			return crashed(extractErr)
		}
		outcome.Action = action
		return outcome

	default:
		// Untracked kinds are only recorded on first sight.
		if record != nil {
			outcome.Action = models.ActionSkipped
			return outcome
		}

		err = s.store.InTx(ctx, func(tx StoreTx) error {
			doc := s.bookkeeping(nil, d, src.Title(d), created, modified)
			return tx.InsertDocument(ctx, doc)
		})
		if err != nil {
			return crashed(err)
		}
		outcome.Action = models.ActionCreated
		return outcome
	}
}

// bookkeeping builds the document record to store, carrying over identity
// fields from an existing record.
func (s *SyncService) bookkeeping(record *models.Document, d source.Descriptor, title string, created, modified time.Time) *models.Document {
	doc := &models.Document{
		Kind:      d.Kind,
		URL:       d.URL,
		CreatedAt: created,
		UpdatedAt: modified,
	}
	if record != nil {
		doc.ID = record.ID
		doc.CreatedAt = record.CreatedAt
		doc.Content = record.Content
	}
	if title != "" {
		doc.Title = &title
	}
	return doc
}

// parseDocument invokes the adapter's parser with panic isolation, so an
// unexpected table layout can never take down the whole run.
func parseDocument(src source.Source, d source.Descriptor, content []byte, effective *time.Time) (result *source.ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = appErrors.Clone(appErrors.ErrParseFailed, fmt.Sprintf("parser panic: %v", r))
		}
	}()
	return src.Parse(d, content, effective)
}

func extractContent(src source.Source, d source.Descriptor, content []byte) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = appErrors.Clone(appErrors.ErrParseFailed, fmt.Sprintf("content extraction panic: %v", r))
		}
	}()
	return src.ExtractContent(d, content)
}

func (s *SyncService) download(ctx context.Context, src source.Source, d source.Descriptor) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.FetchURL(d.URL), nil)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrDownloadFailed.Code, appErrors.ErrDownloadFailed.Status, "building download request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrDownloadFailed.Code, appErrors.ErrDownloadFailed.Status, "downloading document")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", appErrors.Clone(appErrors.ErrDownloadFailed, "download returned status "+resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrDownloadFailed.Code, appErrors.ErrDownloadFailed.Status, "reading document body")
	}
	s.metrics.ObserveDownload(src.Name(), d.Kind, len(content))

	sum := sha256.Sum256(content)
	return content, hex.EncodeToString(sum[:]), nil
}

// persist maps name-level parser rows to entity references and applies the
// date-scoped full replace for the document's kind.
func (s *SyncService) persist(ctx context.Context, tx StoreTx, kind models.DocumentKind, effective *time.Time, parsed *source.ParseResult) error {
	switch kind {
	case models.KindSubstitutions:
		rows, err := s.resolveSubstitutions(ctx, tx, parsed.Substitutions)
		if err != nil {
			return err
		}
		return tx.ReplaceSubstitutions(ctx, *effective, rows)

	case models.KindLunchSchedule:
		rows, err := s.resolveLunchSlots(ctx, tx, *effective, parsed.LunchSlots)
		if err != nil {
			return err
		}
		return tx.ReplaceLunchSchedules(ctx, *effective, rows)

	case models.KindSnackMenu:
		return tx.ReplaceSnackMenus(ctx, snackMenuRows(parsed.SnackMenus))

	case models.KindLunchMenu:
		return tx.ReplaceLunchMenus(ctx, lunchMenuRows(parsed.LunchMenus))

	case models.KindTimetable:
		rows, err := s.resolveLessons(ctx, tx, parsed.Lessons)
		if err != nil {
			return err
		}
		return tx.ReplaceLessons(ctx, rows)

	default:
		return appErrors.Clone(appErrors.ErrParseFailed, "no persistence for document kind "+string(kind))
	}
}

func (s *SyncService) resolveSubstitutions(ctx context.Context, tx StoreTx, subs []parser.Substitution) ([]models.Substitution, error) {
	rows := make([]models.Substitution, 0, len(subs))
	for _, sub := range subs {
		originalTeacher, err := tx.ResolveEntity(ctx, models.EntityTeacher, sub.OriginalTeacher)
		if err != nil {
			return nil, err
		}
		originalClassroom, err := tx.ResolveEntity(ctx, models.EntityClassroom, sub.OriginalClassroom)
		if err != nil {
			return nil, err
		}
		class, err := tx.ResolveEntity(ctx, models.EntityClass, sub.Class)
		if err != nil {
			return nil, err
		}
		teacher, err := tx.ResolveEntity(ctx, models.EntityTeacher, sub.NewTeacher)
		if err != nil {
			return nil, err
		}
		classroom, err := tx.ResolveEntity(ctx, models.EntityClassroom, sub.NewClassroom)
		if err != nil {
			return nil, err
		}

		rows = append(rows, models.Substitution{
			Date:                sub.Date,
			Day:                 sub.Day,
			TimeSlot:            sub.TimeSlot,
			Subject:             nullable(sub.Subject),
			Notes:               nullable(sub.Notes),
			OriginalTeacherID:   originalTeacher,
			OriginalClassroomID: originalClassroom,
			ClassID:             class,
			TeacherID:           teacher,
			ClassroomID:         classroom,
		})
	}
	return rows, nil
}

func (s *SyncService) resolveLunchSlots(ctx context.Context, tx StoreTx, effective time.Time, slots []parser.LunchSlot) ([]models.LunchSchedule, error) {
	rows := make([]models.LunchSchedule, 0, len(slots))
	for _, slot := range slots {
		class, err := tx.ResolveEntity(ctx, models.EntityClass, slot.Class)
		if err != nil {
			return nil, err
		}
		if class == nil {
			continue
		}

		rows = append(rows, models.LunchSchedule{
			ClassID:  *class,
			Date:     effective,
			Time:     nullable(slot.Time),
			Location: nullable(slot.Location),
			Notes:    nullable(slot.Notes),
		})
	}
	return rows, nil
}

func (s *SyncService) resolveLessons(ctx context.Context, tx StoreTx, lessons []parser.Lesson) ([]models.Lesson, error) {
	rows := make([]models.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		class, err := tx.ResolveEntity(ctx, models.EntityClass, lesson.Class)
		if err != nil {
			return nil, err
		}
		teacher, err := tx.ResolveEntity(ctx, models.EntityTeacher, lesson.Teacher)
		if err != nil {
			return nil, err
		}
		classroom, err := tx.ResolveEntity(ctx, models.EntityClassroom, lesson.Classroom)
		if err != nil {
			return nil, err
		}

		rows = append(rows, models.Lesson{
			Day:         lesson.Day,
			TimeSlot:    lesson.TimeSlot,
			Subject:     nullable(lesson.Subject),
			ClassID:     class,
			TeacherID:   teacher,
			ClassroomID: classroom,
		})
	}
	return rows, nil
}

func snackMenuRows(days []parser.MenuDay) []models.SnackMenu {
	rows := make([]models.SnackMenu, 0, len(days))
	for _, day := range days {
		rows = append(rows, models.SnackMenu{
			Date:           day.Date,
			Normal:         nullable(day.Normal),
			Poultry:        nullable(day.Poultry),
			Vegetarian:     nullable(day.Vegetarian),
			FruitVegetable: nullable(day.FruitVegetable),
		})
	}
	return rows
}

func lunchMenuRows(days []parser.MenuDay) []models.LunchMenu {
	rows := make([]models.LunchMenu, 0, len(days))
	for _, day := range days {
		rows = append(rows, models.LunchMenu{
			Date:       day.Date,
			Normal:     nullable(day.Normal),
			Vegetarian: nullable(day.Vegetarian),
		})
	}
	return rows
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
