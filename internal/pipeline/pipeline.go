// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the plain-text converter over the text columns of an
// article table and writes the transformed table back out.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/wikiclean/internal/batch"
	"github.com/pdiddy/wikiclean/internal/plaintext"
	"github.com/pdiddy/wikiclean/pkg/types"
)

// Column names of the comparison table.
const (
	ColPageID            = "page_id"
	ColPageTitle         = "page_title"
	ColOfficialText      = "official_text"
	ColOfficialTimestamp = "official_timestamp"
	ColClonePageTitle    = "clone_page_title"
	ColCloneText         = "clone_text"
	ColCloneTimestamp    = "clone_timestamp"

	// ParagraphsSuffix marks a converted text column in comparison output.
	ParagraphsSuffix = "_paragraphs"
	// ParsedSuffix marks the converted column in single-column output.
	ParsedSuffix = "_parsed"
)

// ComparisonColumns must all be present in a comparison table.
var ComparisonColumns = []string{
	ColPageID, ColPageTitle, ColOfficialText, ColOfficialTimestamp,
	ColClonePageTitle, ColCloneText, ColCloneTimestamp,
}

// ParsedColumns are the converted text columns of a parsed comparison table.
var ParsedColumns = []string{ColOfficialText + ParagraphsSuffix, ColCloneText + ParagraphsSuffix}

// Converter turns one article's markup into plain text.
type Converter interface {
	Convert(ctx context.Context, raw string) (plaintext.Result, error)
}

// Summary counts how the cells of a run were handled.
type Summary struct {
	Completed         int
	SkippedComplexity int
	TimedOut          int
	Null              int
}

// Total returns the number of cells seen.
func (s Summary) Total() int {
	return s.Completed + s.SkippedComplexity + s.TimedOut + s.Null
}

// Add returns the element-wise sum of s and o.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		Completed:         s.Completed + o.Completed,
		SkippedComplexity: s.SkippedComplexity + o.SkippedComplexity,
		TimedOut:          s.TimedOut + o.TimedOut,
		Null:              s.Null + o.Null,
	}
}

// Runner converts table columns with a bounded worker pool, printing
// progress to its writer.
type Runner struct {
	conv    Converter
	workers int
	w       io.Writer
}

// NewRunner returns a Runner. workers <= 0 uses one worker per CPU.
func NewRunner(conv Converter, workers int, w io.Writer) *Runner {
	return &Runner{conv: conv, workers: workers, w: w}
}

// ParseComparison converts the official and clone text columns of the table
// at in and writes it to out with those columns renamed to *_paragraphs.
func (r *Runner) ParseComparison(ctx context.Context, in, out string) (Summary, error) {
	fmt.Fprintf(r.w, "Reading input file: %s\n", in)
	tbl, err := batch.ReadTable(in)
	if err != nil {
		return Summary{}, err
	}
	for _, c := range ComparisonColumns {
		if !tbl.Has(c) {
			return Summary{}, fmt.Errorf("%s: %w", c, batch.ErrColumnNotFound)
		}
	}

	ids, err := tbl.Labels(ColPageID)
	if err != nil {
		return Summary{}, err
	}
	titles, err := tbl.Strings(ColPageTitle)
	if err != nil {
		return Summary{}, err
	}
	rows := rowLabels{ids: ids, titles: titles}

	var total Summary
	var repl []batch.Replacement
	for _, col := range []string{ColOfficialText, ColCloneText} {
		texts, err := tbl.Strings(col)
		if err != nil {
			return Summary{}, err
		}
		fmt.Fprintf(r.w, "Processing %s: %d rows\n", col, len(texts))
		parsed, sum, err := r.convertColumn(ctx, col, texts, rows)
		if err != nil {
			return Summary{}, err
		}
		total = total.Add(sum)
		repl = append(repl, batch.Replacement{From: col, To: col + ParagraphsSuffix, Values: parsed})
	}

	fmt.Fprintf(r.w, "Writing output file: %s\n", out)
	if err := batch.WriteTable(out, tbl, repl); err != nil {
		return Summary{}, err
	}
	printSummary(r.w, total)
	return total, nil
}

// ParseSingle converts one text column, auto-detected when textColumn is
// empty, and writes it back as <column>_parsed.
func (r *Runner) ParseSingle(ctx context.Context, in, out, textColumn string) (Summary, error) {
	fmt.Fprintf(r.w, "Reading input file: %s\n", in)
	tbl, err := batch.ReadTable(in)
	if err != nil {
		return Summary{}, err
	}

	cols := tbl.Columns()
	switch {
	case textColumn == "":
		c, ok := batch.DetectTextColumn(cols)
		if !ok {
			return Summary{}, fmt.Errorf("could not auto-detect text column; set one explicitly: %w", batch.ErrColumnNotFound)
		}
		textColumn = c
	case !tbl.Has(textColumn):
		return Summary{}, fmt.Errorf("text column %s: %w", textColumn, batch.ErrColumnNotFound)
	}
	fmt.Fprintf(r.w, "Using text column: %s\n", textColumn)

	texts, err := tbl.Strings(textColumn)
	if err != nil {
		return Summary{}, err
	}

	var rows rowLabels
	if c, ok := batch.DetectIDColumn(cols); ok {
		if rows.ids, err = tbl.Labels(c); err != nil {
			log.Warn().Err(err).Str("column", c).Msg("ignoring page id column")
		}
	}
	if c, ok := batch.DetectTitleColumn(cols); ok {
		if rows.titles, err = tbl.Strings(c); err != nil {
			log.Warn().Err(err).Str("column", c).Msg("ignoring title column")
		}
	}

	parsed, sum, err := r.convertColumn(ctx, textColumn, texts, rows)
	if err != nil {
		return Summary{}, err
	}

	fmt.Fprintf(r.w, "Writing output file: %s\n", out)
	repl := []batch.Replacement{{From: textColumn, To: textColumn + ParsedSuffix, Values: parsed}}
	if err := batch.WriteTable(out, tbl, repl); err != nil {
		return Summary{}, err
	}
	printSummary(r.w, sum)
	return sum, nil
}

func (r *Runner) convertColumn(ctx context.Context, col string, texts []*string, rows rowLabels) ([]*string, Summary, error) {
	statuses := make([]plaintext.Status, len(texts))
	parsed, err := batch.Process(ctx, texts, r.workers, func(ctx context.Context, i int, s string) (string, error) {
		id, title := rows.id(i), rows.title(i)
		log.Debug().Int("row", i+1).Str("column", col).Str("page_id", id).Str("title", title).Msg("processing")

		res, err := r.conv.Convert(ctx, s)
		if err != nil {
			return "", fmt.Errorf("row %d (page_id=%s): %w", i+1, id, err)
		}
		statuses[i] = res.Status

		log.Debug().Int("row", i+1).Str("column", col).Str("page_id", id).Str("status", string(res.Status)).Msg("done")
		return res.Text, nil
	})
	if err != nil {
		return nil, Summary{}, fmt.Errorf("converting %s: %w", col, err)
	}

	var sum Summary
	for i, st := range statuses {
		if texts[i] == nil {
			sum.Null++
			continue
		}
		switch st {
		case plaintext.StatusCompleted:
			sum.Completed++
		case plaintext.StatusSkippedComplexity:
			sum.SkippedComplexity++
		case plaintext.StatusTimedOut:
			sum.TimedOut++
		}
	}
	return parsed, sum, nil
}

// rowLabels names rows in progress output. Missing columns fall back to the
// row number and a placeholder title.
type rowLabels struct {
	ids    []*string
	titles []*string
}

func (l rowLabels) id(i int) string {
	if l.ids == nil {
		return fmt.Sprintf("row_%d", i)
	}
	if l.ids[i] == nil {
		return "unknown"
	}
	return *l.ids[i]
}

func (l rowLabels) title(i int) string {
	if l.titles == nil || l.titles[i] == nil {
		return types.UntitledTitle
	}
	return *l.titles[i]
}

func printSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\nParse summary: %d completed, %d skipped (complex), %d timed out, %d null (total: %d)\n",
		s.Completed, s.SkippedComplexity, s.TimedOut, s.Null, s.Total())
}
