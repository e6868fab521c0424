package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gimvic/schedule-sync/internal/models"
)

// EntityRepository resolves class, teacher and classroom names to row IDs.
// Names are unique per table, so a concurrent insert of the same name resolves
// to the same row.
type EntityRepository struct {
	db *sqlx.DB
}

// NewEntityRepository constructs an EntityRepository.
func NewEntityRepository(db *sqlx.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// GetOrCreate returns the ID for a named entity, inserting the row if it does
// not exist yet. The upsert keeps the statement race-free under concurrent
// transactions. An empty name never reaches storage and resolves to nil.
func (r *EntityRepository) GetOrCreate(ctx context.Context, ext sqlx.ExtContext, kind models.EntityKind, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, kind)
	var id int64
	if err := sqlx.GetContext(ctx, ext, &id, query, name); err != nil {
		return nil, fmt.Errorf("get or create %s %q: %w", kind, name, err)
	}
	return &id, nil
}

// ListNames returns all known names of a kind sorted alphabetically.
func (r *EntityRepository) ListNames(ctx context.Context, kind models.EntityKind) ([]string, error) {
	query := fmt.Sprintf("SELECT name FROM %s ORDER BY name", kind)
	var names []string
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return names, nil
}
