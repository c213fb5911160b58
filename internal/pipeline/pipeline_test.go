// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wikiclean/internal/batch"
	"github.com/pdiddy/wikiclean/internal/plaintext"
	"github.com/pdiddy/wikiclean/internal/wikitext"
	"github.com/pdiddy/wikiclean/pkg/types"
)

type comparisonRow struct {
	PageID            *string `parquet:"page_id,optional"`
	PageTitle         *string `parquet:"page_title,optional"`
	OfficialText      *string `parquet:"official_text,optional"`
	OfficialTimestamp *string `parquet:"official_timestamp,optional"`
	ClonePageTitle    *string `parquet:"clone_page_title,optional"`
	CloneText         *string `parquet:"clone_text,optional"`
	CloneTimestamp    *string `parquet:"clone_timestamp,optional"`
}

type singleRow struct {
	PageID  int64   `parquet:"pageid"`
	Title   *string `parquet:"title,optional"`
	Content *string `parquet:"content,optional"`
}

func ptr(s string) *string { return &s }

func writeRows[T any](t *testing.T, name string, rows []T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, parquet.WriteFile(path, rows))
	return path
}

// upperConverter upper-cases text, or reports a fixed status for marked input.
type upperConverter struct{}

func (upperConverter) Convert(_ context.Context, raw string) (plaintext.Result, error) {
	switch raw {
	case "complex":
		return plaintext.Result{Text: plaintext.ComplexitySentinel, Status: plaintext.StatusSkippedComplexity}, nil
	case "slow":
		return plaintext.Result{Text: plaintext.TimeoutSentinel(time.Second), Status: plaintext.StatusTimedOut}, nil
	case "fail":
		return plaintext.Result{}, context.Canceled
	}
	return plaintext.Result{Text: strings.ToUpper(raw), Status: plaintext.StatusCompleted}, nil
}

func comparisonFixture() []comparisonRow {
	return []comparisonRow{
		{PageID: ptr("1"), PageTitle: ptr("A"), OfficialText: ptr("one"), OfficialTimestamp: ptr("t1"),
			ClonePageTitle: ptr("A"), CloneText: ptr("uno"), CloneTimestamp: ptr("t2")},
		{PageID: ptr("2"), PageTitle: nil, OfficialText: ptr("complex"), OfficialTimestamp: nil,
			ClonePageTitle: nil, CloneText: nil, CloneTimestamp: nil},
		{PageID: nil, PageTitle: ptr("C"), OfficialText: nil, OfficialTimestamp: ptr("t3"),
			ClonePageTitle: ptr("C"), CloneText: ptr("slow"), CloneTimestamp: ptr("t4")},
	}
}

func TestSummary_Total(t *testing.T) {
	s := Summary{Completed: 1, SkippedComplexity: 2, TimedOut: 3, Null: 4}
	assert.Equal(t, 10, s.Total())
	assert.Equal(t, 20, s.Add(s).Total())
}

func TestParseComparison(t *testing.T) {
	in := writeRows(t, "in.parquet", comparisonFixture())
	out := filepath.Join(t.TempDir(), "out.parquet")

	var buf bytes.Buffer
	sum, err := NewRunner(upperConverter{}, 2, &buf).ParseComparison(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, Summary{Completed: 2, SkippedComplexity: 1, TimedOut: 1, Null: 2}, sum)
	assert.Contains(t, buf.String(), "Parse summary: 2 completed, 1 skipped (complex), 1 timed out, 2 null (total: 6)")

	tbl, err := batch.ReadTable(out)
	require.NoError(t, err)
	assert.False(t, tbl.Has(ColOfficialText))
	assert.False(t, tbl.Has(ColCloneText))
	assert.True(t, tbl.Has(ColOfficialTimestamp))

	official, err := tbl.Strings("official_text_paragraphs")
	require.NoError(t, err)
	assert.Equal(t, "ONE", *official[0])
	assert.Equal(t, plaintext.ComplexitySentinel, *official[1])
	assert.Nil(t, official[2])

	clone, err := tbl.Strings("clone_text_paragraphs")
	require.NoError(t, err)
	assert.Equal(t, "UNO", *clone[0])
	assert.Nil(t, clone[1])
	assert.Equal(t, plaintext.TimeoutSentinel(time.Second), *clone[2])

	stamps, err := tbl.Strings(ColCloneTimestamp)
	require.NoError(t, err)
	assert.Equal(t, "t4", *stamps[2])
}

func TestParseComparison_MissingColumn(t *testing.T) {
	in := writeRows(t, "in.parquet", []singleRow{{PageID: 1, Content: ptr("x")}})
	out := filepath.Join(t.TempDir(), "out.parquet")

	_, err := NewRunner(upperConverter{}, 1, &bytes.Buffer{}).ParseComparison(context.Background(), in, out)
	assert.True(t, errors.Is(err, batch.ErrColumnNotFound))
}

func TestParseComparison_ConverterError(t *testing.T) {
	rows := comparisonFixture()
	rows[0].OfficialText = ptr("fail")
	in := writeRows(t, "in.parquet", rows)
	out := filepath.Join(t.TempDir(), "out.parquet")

	_, err := NewRunner(upperConverter{}, 1, &bytes.Buffer{}).ParseComparison(context.Background(), in, out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSingle_Detects(t *testing.T) {
	in := writeRows(t, "in.parquet", []singleRow{
		{PageID: 7, Title: ptr("T"), Content: ptr("'''Жирный''' текст.")},
		{PageID: 8, Title: nil, Content: nil},
	})
	out := filepath.Join(t.TempDir(), "out.parquet")

	conv := plaintext.NewConverter(wikitext.New(), types.ParseConfig{})
	sum, err := NewRunner(conv, 0, &bytes.Buffer{}).ParseSingle(context.Background(), in, out, "")
	require.NoError(t, err)
	assert.Equal(t, Summary{Completed: 1, Null: 1}, sum)

	tbl, err := batch.ReadTable(out)
	require.NoError(t, err)
	parsed, err := tbl.Strings("content_parsed")
	require.NoError(t, err)
	assert.Equal(t, "Жирный текст.", *parsed[0])
	assert.Nil(t, parsed[1])
}

func TestParseSingle_ExplicitColumn(t *testing.T) {
	in := writeRows(t, "in.parquet", []singleRow{{PageID: 1, Title: ptr("x"), Content: ptr("x")}})
	out := filepath.Join(t.TempDir(), "out.parquet")
	r := NewRunner(upperConverter{}, 1, &bytes.Buffer{})

	_, err := r.ParseSingle(context.Background(), in, out, "body")
	assert.ErrorIs(t, err, batch.ErrColumnNotFound)

	_, err = r.ParseSingle(context.Background(), in, out, "title")
	require.NoError(t, err)
	tbl, err := batch.ReadTable(out)
	require.NoError(t, err)
	assert.True(t, tbl.Has("title_parsed"))
	assert.True(t, tbl.Has("content"))
}

func TestRowLabels(t *testing.T) {
	var none rowLabels
	assert.Equal(t, "row_3", none.id(3))
	assert.Equal(t, types.UntitledTitle, none.title(3))

	l := rowLabels{ids: []*string{nil, ptr("9")}, titles: []*string{nil, ptr("T")}}
	assert.Equal(t, "unknown", l.id(0))
	assert.Equal(t, "9", l.id(1))
	assert.Equal(t, types.UntitledTitle, l.title(0))
	assert.Equal(t, "T", l.title(1))
}

type parsedRow struct {
	PageID   *string `parquet:"page_id,optional"`
	Title    *string `parquet:"page_title,optional"`
	Official *string `parquet:"official_text_paragraphs,optional"`
	Clone    *string `parquet:"clone_text_paragraphs,optional"`
}

func TestClean(t *testing.T) {
	in := writeRows(t, "parsed.parquet", []parsedRow{
		{PageID: ptr("1"), Official: ptr("Текст {{шаблон|x}} здесь }"), Clone: ptr("A\n\n\n\nB")},
		{PageID: ptr("2"), Official: nil, Clone: ptr("ok")},
	})
	out := filepath.Join(t.TempDir(), "clean.parquet")

	n, err := Clean(in, out, nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	tbl, err := batch.ReadTable(out)
	require.NoError(t, err)
	official, err := tbl.Strings("official_text_paragraphs")
	require.NoError(t, err)
	assert.Equal(t, "Текст  здесь ", *official[0])
	assert.Nil(t, official[1])

	clone, err := tbl.Strings("clone_text_paragraphs")
	require.NoError(t, err)
	assert.Equal(t, "A\n\nB", *clone[0])
}

func TestLoadArticles(t *testing.T) {
	in := writeRows(t, "parsed.parquet", []parsedRow{
		{PageID: ptr("1"), Title: ptr("Москва"), Official: ptr("a"), Clone: nil},
		{PageID: nil, Title: ptr("orphan"), Official: ptr("b")},
		{PageID: ptr("3"), Title: nil, Official: nil, Clone: ptr("c")},
	})

	articles, skipped, err := LoadArticles(in, ParsedColumns[0], ParsedColumns[1])
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, articles, 2)

	assert.Equal(t, "1", articles[0].PageID)
	assert.Equal(t, "Москва", articles[0].Title)
	assert.Equal(t, "a", *articles[0].Official)
	assert.Nil(t, articles[0].Clone)

	assert.Equal(t, "3", articles[1].PageID)
	assert.Equal(t, types.UntitledTitle, articles[1].DisplayTitle())
	assert.Equal(t, "c", *articles[1].Clone)
}

func TestLoadArticles_RequiresParsedColumns(t *testing.T) {
	raw := writeRows(t, "raw.parquet", comparisonFixture())

	_, _, err := LoadArticles(raw, ParsedColumns[0], ParsedColumns[1])
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrColumnNotFound)
	assert.Contains(t, err.Error(), ParsedColumns[0])

	type officialOnly struct {
		PageID   *string `parquet:"page_id,optional"`
		Title    *string `parquet:"page_title,optional"`
		Official *string `parquet:"official_text_paragraphs,optional"`
	}
	partial := writeRows(t, "partial.parquet", []officialOnly{{PageID: ptr("1"), Official: ptr("a")}})
	_, _, err = LoadArticles(partial, ParsedColumns[0], ParsedColumns[1])
	assert.ErrorIs(t, err, batch.ErrColumnNotFound)
	assert.Contains(t, err.Error(), ParsedColumns[1])
}

func TestTableArticles_OptionalColumns(t *testing.T) {
	raw := writeRows(t, "raw.parquet", comparisonFixture())
	tbl, err := batch.ReadTable(raw)
	require.NoError(t, err)

	articles, skipped, err := TableArticles(tbl, ParsedColumns[0], ParsedColumns[1])
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, articles, 2)
	assert.Nil(t, articles[0].Official)
	assert.Nil(t, articles[0].Clone)
}
