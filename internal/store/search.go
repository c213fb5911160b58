// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// SearchResult is one full-text match.
type SearchResult struct {
	PageID  string  `json:"page_id" yaml:"page_id"`
	Title   string  `json:"title" yaml:"title"`
	Snippet string  `json:"snippet" yaml:"snippet"`
	Rank    float64 `json:"rank" yaml:"rank"`
}

// Search runs a full-text query over titles and both text versions, best
// matches first. Every word of query must appear. limit <= 0 uses the
// configured maximum.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	match := matchExpr(query)
	if match == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.page_id, a.title,
			snippet(articles_fts, -1, '[', ']', '...', 12),
			articles_fts.rank
		 FROM articles_fts
		 JOIN articles a ON a.rowid = articles_fts.rowid
		 WHERE articles_fts MATCH ?
		 ORDER BY articles_fts.rank
		 LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.PageID, &r.Title, &r.Snippet, &r.Rank); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// matchExpr quotes each word of query as an FTS5 string so punctuation in
// user input is never read as query syntax. Words with no letters or digits
// are dropped.
func matchExpr(query string) string {
	var words []string
	for _, w := range strings.Fields(query) {
		if strings.IndexFunc(w, isWordRune) < 0 {
			continue
		}
		words = append(words, `"`+strings.ReplaceAll(w, `"`, `""`)+`"`)
	}
	return strings.Join(words, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
