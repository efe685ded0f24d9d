package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/model"
)

const documentColumns = `id, filename, originalname, observation, content_type, size, uploaded_at`

// ListDocuments returns document metadata, newest first.
func ListDocuments(ctx context.Context, db *sqlx.DB) ([]model.Document, error) {
	docs := []model.Document{}
	err := db.SelectContext(ctx, &docs,
		`SELECT `+documentColumns+` FROM documents ORDER BY uploaded_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// GetDocument returns the metadata of a document by its stored filename.
func GetDocument(ctx context.Context, db *sqlx.DB, filename string) (*model.Document, error) {
	var d model.Document
	err := db.GetContext(ctx, &d,
		db.Rebind(`SELECT `+documentColumns+` FROM documents WHERE filename = ?`), filename,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return &d, nil
}

// CreateDocument records the metadata of an uploaded file.
func CreateDocument(ctx context.Context, db *sqlx.DB, d model.Document) (*model.Document, error) {
	_, err := insertID(ctx, db,
		`INSERT INTO documents (filename, originalname, observation, content_type, size) VALUES (?, ?, ?, ?, ?)`,
		d.Filename, d.OriginalName, d.Observation, d.ContentType, d.Size,
	)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return GetDocument(ctx, db, d.Filename)
}

// DeleteDocument removes a document's metadata and then its payload through
// removeFile. The metadata delete is rolled back if removeFile fails, so a
// failed payload removal leaves the document listed. Only a failed commit
// after a successful removal can leave metadata without a payload.
func DeleteDocument(ctx context.Context, db *sqlx.DB, filename string, removeFile func() error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM documents WHERE filename = ?`), filename)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := removeFile(); err != nil {
		return fmt.Errorf("removing document file: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document delete: %w", err)
	}
	return nil
}

// DocumentFilenames returns the set of stored filenames that have metadata.
func DocumentFilenames(ctx context.Context, db *sqlx.DB) (map[string]bool, error) {
	var names []string
	if err := db.SelectContext(ctx, &names, `SELECT filename FROM documents`); err != nil {
		return nil, fmt.Errorf("listing document filenames: %w", err)
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

// CountDocuments returns the number of stored documents.
func CountDocuments(ctx context.Context, db *sqlx.DB) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM documents`); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
