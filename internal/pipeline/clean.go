// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"

	"github.com/pdiddy/wikiclean/internal/batch"
	"github.com/pdiddy/wikiclean/internal/plaintext"
	"github.com/pdiddy/wikiclean/pkg/types"
)

// Clean re-runs the residue scrubber over already converted columns,
// ParsedColumns when columns is empty. Nulls stay null; it returns the
// number of non-null cells cleaned.
func Clean(in, out string, columns []string, w io.Writer) (int, error) {
	if len(columns) == 0 {
		columns = ParsedColumns
	}

	fmt.Fprintf(w, "Reading input file: %s\n", in)
	tbl, err := batch.ReadTable(in)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	repl := make([]batch.Replacement, 0, len(columns))
	for _, col := range columns {
		texts, err := tbl.Strings(col)
		if err != nil {
			return 0, err
		}
		for i, s := range texts {
			if s == nil {
				continue
			}
			v := plaintext.Scrub(*s)
			texts[i] = &v
			cleaned++
		}
		repl = append(repl, batch.Replacement{From: col, Values: texts})
	}

	fmt.Fprintf(w, "Writing output file: %s\n", out)
	if err := batch.WriteTable(out, tbl, repl); err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "Cleaned %d cells across %d column(s)\n", cleaned, len(columns))
	return cleaned, nil
}

// LoadArticles reads page id, title and the two text columns of a table.
// All four columns must be present. Rows with a null page id are dropped
// and counted in skipped.
func LoadArticles(path, officialCol, cloneCol string) (articles []types.Article, skipped int, err error) {
	tbl, err := batch.ReadTable(path)
	if err != nil {
		return nil, 0, err
	}
	for _, c := range []string{ColPageID, ColPageTitle, officialCol, cloneCol} {
		if !tbl.Has(c) {
			return nil, 0, fmt.Errorf("%s: %w", c, batch.ErrColumnNotFound)
		}
	}
	return TableArticles(tbl, officialCol, cloneCol)
}

// TableArticles builds articles from a table already in memory. Unlike
// LoadArticles, the title column and either text column may be absent.
func TableArticles(tbl *batch.Table, officialCol, cloneCol string) (articles []types.Article, skipped int, err error) {
	ids, err := tbl.Labels(ColPageID)
	if err != nil {
		return nil, 0, err
	}
	titles, err := optionalStrings(tbl, ColPageTitle)
	if err != nil {
		return nil, 0, err
	}
	official, err := optionalStrings(tbl, officialCol)
	if err != nil {
		return nil, 0, err
	}
	clone, err := optionalStrings(tbl, cloneCol)
	if err != nil {
		return nil, 0, err
	}

	for i, id := range ids {
		if id == nil {
			skipped++
			continue
		}
		a := types.Article{PageID: *id}
		if titles != nil && titles[i] != nil {
			a.Title = *titles[i]
		}
		if official != nil {
			a.Official = official[i]
		}
		if clone != nil {
			a.Clone = clone[i]
		}
		articles = append(articles, a)
	}
	return articles, skipped, nil
}

func optionalStrings(tbl *batch.Table, col string) ([]*string, error) {
	if col == "" || !tbl.Has(col) {
		return nil, nil
	}
	return tbl.Strings(col)
}
