// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wikiclean/pkg/types"
)

// All returns every stored article ordered by page id.
func (s *Store) All(ctx context.Context) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page_id, title, official_text, clone_text FROM articles ORDER BY page_id`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		var (
			a               types.Article
			official, clone sql.NullString
		)
		if err := rows.Scan(&a.PageID, &a.Title, &official, &clone); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.Official = fromNullable(official)
		a.Clone = fromNullable(clone)
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ExportYAML writes every stored article to path as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	articles, err := s.All(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(articles)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
