package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gimvic/schedule-sync/internal/models"
)

// DocumentRepository manages the per-(kind,url) bookkeeping records.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs a DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = "id, kind, url, title, created_at, updated_at, effective, hash, parsed, content"

// FindByKindURL fetches the stored record for a (kind, url) pair. It returns
// nil when the document has never been seen.
func (r *DocumentRepository) FindByKindURL(ctx context.Context, kind models.DocumentKind, url string) (*models.Document, error) {
	query := fmt.Sprintf("SELECT %s FROM documents WHERE kind = $1 AND url = $2", documentColumns)
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, kind, url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &doc, nil
}

// List returns all stored documents of a kind, newest first.
func (r *DocumentRepository) List(ctx context.Context, kind models.DocumentKind) ([]models.Document, error) {
	query := fmt.Sprintf("SELECT %s FROM documents WHERE kind = $1 ORDER BY updated_at DESC", documentColumns)
	var docs []models.Document
	if err := r.db.SelectContext(ctx, &docs, query, kind); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Insert stores a new document record inside the given transaction scope.
func (r *DocumentRepository) Insert(ctx context.Context, ext sqlx.ExtContext, doc *models.Document) error {
	const query = `INSERT INTO documents (kind, url, title, created_at, updated_at, effective, hash, parsed, content)
		VALUES (:kind, :url, :title, :created_at, :updated_at, :effective, :hash, :parsed, :content)
		RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, ext, query, doc)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&doc.ID); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}
	return rows.Err()
}

// Update rewrites an existing document record inside the given transaction scope.
func (r *DocumentRepository) Update(ctx context.Context, ext sqlx.ExtContext, doc *models.Document) error {
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	const query = `UPDATE documents
		SET title = :title, updated_at = :updated_at, effective = :effective,
		    hash = :hash, parsed = :parsed, content = :content
		WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, doc); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// Touch refreshes only the modified timestamp, used when a document was seen
// but its content did not change.
func (r *DocumentRepository) Touch(ctx context.Context, id int64, modified time.Time) error {
	const query = `UPDATE documents SET updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, modified.UTC()); err != nil {
		return fmt.Errorf("touch document: %w", err)
	}
	return nil
}
