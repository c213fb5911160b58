// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps converted articles in SQLite with a full-text index
// over titles and both text versions.
//
// Full-text search needs the sqlite_fts5 build tag on go-sqlite3.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/wikiclean/pkg/types"
)

const (
	// DefaultDBPath is used when no database path is configured.
	DefaultDBPath = "data/index/articles.db"

	defaultMaxResults = 20
)

// ErrNotFound is returned when no article has the requested page id.
var ErrNotFound = errors.New("article not found")

// Store manages the article database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.DBPath and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS articles (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		page_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		official_text TEXT,
		clone_text TEXT,
		indexed_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating articles table: %w", err)
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE articles_fts USING fts5(
			title, official_text, clone_text,
			content=articles, content_rowid=rowid, tokenize='unicode61'
		)`,
		`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
			INSERT INTO articles_fts(rowid, title, official_text, clone_text)
			VALUES (new.rowid, new.title, new.official_text, new.clone_text);
		END`,
		`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
			INSERT INTO articles_fts(articles_fts, rowid, title, official_text, clone_text)
			VALUES ('delete', old.rowid, old.title, old.official_text, old.clone_text);
		END`,
		`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
			INSERT INTO articles_fts(articles_fts, rowid, title, official_text, clone_text)
			VALUES ('delete', old.rowid, old.title, old.official_text, old.clone_text);
			INSERT INTO articles_fts(rowid, title, official_text, clone_text)
			VALUES (new.rowid, new.title, new.official_text, new.clone_text);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
}

// Total returns the number of articles processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped
}

// Ingest upserts articles by page id in one transaction. Articles with
// neither text are skipped.
func (s *Store) Ingest(ctx context.Context, articles []types.Article, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := tx.PrepareContext(ctx, `SELECT count(*) FROM articles WHERE page_id = ?`)
	if err != nil {
		return summary, fmt.Errorf("preparing lookup: %w", err)
	}
	defer exists.Close()

	upsert, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (page_id, title, official_text, clone_text, indexed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET
			title=excluded.title, official_text=excluded.official_text,
			clone_text=excluded.clone_text, indexed_at=excluded.indexed_at`)
	if err != nil {
		return summary, fmt.Errorf("preparing upsert: %w", err)
	}
	defer upsert.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, a := range articles {
		if a.Official == nil && a.Clone == nil {
			fmt.Fprintf(w, "skipped %s (no text)\n", a.PageID)
			summary.Skipped++
			continue
		}

		var n int
		if err := exists.QueryRowContext(ctx, a.PageID).Scan(&n); err != nil {
			return summary, fmt.Errorf("looking up %s: %w", a.PageID, err)
		}
		if _, err := upsert.ExecContext(ctx, a.PageID, a.Title, nullable(a.Official), nullable(a.Clone), now); err != nil {
			return summary, fmt.Errorf("upserting %s: %w", a.PageID, err)
		}
		if n > 0 {
			summary.Updated++
		} else {
			summary.Indexed++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}
	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped)
	return summary, nil
}

// Get returns the article with the given page id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, pageID string) (types.Article, error) {
	a := types.Article{PageID: pageID}
	var official, clone sql.NullString
	err :=s.db.QueryRowContext(ctx,
		`SELECT title, official_text, clone_text FROM articles WHERE page_id = ?`, pageID,
	).Scan(&a.Title, &official, &clone)
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("page %s: %w", pageID, ErrNotFound)
	}
	if err != nil {
		return a, fmt.Errorf("querying page %s: %w", pageID, err)
	}
	a.Official = fromNullable(official)
	a.Clone = fromNullable(clone)
	return a, nil
}

// Count returns the number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
