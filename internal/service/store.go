package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/internal/repository"
)

// Store is the persistence surface the update service drives. Every write
// happens inside InTx, one transaction per document.
type Store interface {
	FindDocument(ctx context.Context, kind models.DocumentKind, url string) (*models.Document, error)
	InTx(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx is one open document transaction.
type StoreTx interface {
	InsertDocument(ctx context.Context, doc *models.Document) error
	UpdateDocument(ctx context.Context, doc *models.Document) error

	ResolveEntity(ctx context.Context, kind models.EntityKind, name string) (*int64, error)

	ReplaceSubstitutions(ctx context.Context, date time.Time, subs []models.Substitution) error
	ReplaceLunchSchedules(ctx context.Context, date time.Time, slots []models.LunchSchedule) error
	ReplaceSnackMenus(ctx context.Context, menus []models.SnackMenu) error
	ReplaceLunchMenus(ctx context.Context, menus []models.LunchMenu) error
	ReplaceLessons(ctx context.Context, lessons []models.Lesson) error
}

// SQLStore implements Store over the sqlx repositories.
type SQLStore struct {
	db             *sqlx.DB
	documents      *repository.DocumentRepository
	entities       *repository.EntityRepository
	substitutions  *repository.SubstitutionRepository
	lunchSchedules *repository.LunchScheduleRepository
	menus          *repository.MenuRepository
	lessons        *repository.LessonRepository
}

// NewSQLStore constructs the production store.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		db:             db,
		documents:      repository.NewDocumentRepository(db),
		entities:       repository.NewEntityRepository(db),
		substitutions:  repository.NewSubstitutionRepository(db),
		lunchSchedules: repository.NewLunchScheduleRepository(db),
		menus:          repository.NewMenuRepository(db),
		lessons:        repository.NewLessonRepository(db),
	}
}

// FindDocument implements Store.
func (s *SQLStore) FindDocument(ctx context.Context, kind models.DocumentKind, url string) (*models.Document, error) {
	return s.documents.FindByKindURL(ctx, kind, url)
}

// InTx implements Store.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx StoreTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin document transaction: %w", err)
	}
	if err := fn(&sqlStoreTx{store: s, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit document transaction: %w", err)
	}
	return nil
}

type sqlStoreTx struct {
	store *SQLStore
	tx    *sqlx.Tx
}

func (t *sqlStoreTx) InsertDocument(ctx context.Context, doc *models.Document) error {
	return t.store.documents.Insert(ctx, t.tx, doc)
}

func (t *sqlStoreTx) UpdateDocument(ctx context.Context, doc *models.Document) error {
	return t.store.documents.Update(ctx, t.tx, doc)
}

func (t *sqlStoreTx) ResolveEntity(ctx context.Context, kind models.EntityKind, name string) (*int64, error) {
	return t.store.entities.GetOrCreate(ctx, t.tx, kind, name)
}

func (t *sqlStoreTx) ReplaceSubstitutions(ctx context.Context, date time.Time, subs []models.Substitution) error {
	return t.store.substitutions.ReplaceForDate(ctx, t.tx, date, subs)
}

func (t *sqlStoreTx) ReplaceLunchSchedules(ctx context.Context, date time.Time, slots []models.LunchSchedule) error {
	return t.store.lunchSchedules.ReplaceForDate(ctx, t.tx, date, slots)
}

func (t *sqlStoreTx) ReplaceSnackMenus(ctx context.Context, menus []models.SnackMenu) error {
	return t.store.menus.ReplaceSnackForDates(ctx, t.tx, menus)
}

func (t *sqlStoreTx) ReplaceLunchMenus(ctx context.Context, menus []models.LunchMenu) error {
	return t.store.menus.ReplaceLunchForDates(ctx, t.tx, menus)
}

func (t *sqlStoreTx) ReplaceLessons(ctx context.Context, lessons []models.Lesson) error {
	return t.store.lessons.ReplaceAll(ctx, t.tx, lessons)
}
