// Package sqlitedoc stores the category mapping in a SQLite database.
// The mapping is still persisted as one unit: Store rewrites both tables
// inside a single transaction.
package sqlitedoc

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"clearspend/internal/categories"

	_ "modernc.org/sqlite"
)

type Document struct {
	db *sql.DB
}

func New(dbPath string) (*Document, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Document{db: db}, nil
}

func (d *Document) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *Document) Load(ctx context.Context) ([]categories.Entry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var (
		entries []categories.Entry
		ids     []int64
	)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		ids = append(ids, id)
		entries = append(entries, categories.Entry{Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	for i, id := range ids {
		kws, err := d.loadKeywords(ctx, id)
		if err != nil {
			return nil, err
		}
		entries[i].Keywords = kws
	}
	return entries, nil
}

func (d *Document) loadKeywords(ctx context.Context, categoryID int64) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT keyword FROM keywords WHERE category_id = ? ORDER BY position`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("select keywords: %w", err)
	}
	defer rows.Close()

	var kws []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		kws = append(kws, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keywords: %w", err)
	}
	return kws, nil
}

// Store rewrites the whole mapping. The store treats the document as the
// unit of persistence, so a partial update is never left behind.
func (d *Document) Store(ctx context.Context, entries []categories.Entry) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rewrite: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM keywords`); err != nil {
		return fmt.Errorf("clear keywords: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	for pos, e := range entries {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, position) VALUES (?, ?)`, e.Name, pos)
		if err != nil {
			return fmt.Errorf("insert category %q: %w", e.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("category id for %q: %w", e.Name, err)
		}
		for kpos, kw := range e.Keywords {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO keywords (category_id, keyword, position) VALUES (?, ?, ?)`,
				id, kw, kpos); err != nil {
				return fmt.Errorf("insert keyword %q: %w", kw, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rewrite: %w", err)
	}

	slog.InfoContext(ctx, "Category document rewritten", "categories", len(entries))
	return nil
}
