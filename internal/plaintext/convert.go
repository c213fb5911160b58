// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plaintext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/wikiclean/internal/deadline"
	"github.com/pdiddy/wikiclean/internal/wikitext"
	"github.com/pdiddy/wikiclean/pkg/types"
)

// ComplexitySentinel replaces the text of an article rejected before parsing.
const ComplexitySentinel = "[Article skipped: contains complex nested structures that cause parsing issues]"

// TimeoutSentinel returns the text that replaces an article whose parse
// overran timeout.
func TimeoutSentinel(timeout time.Duration) string {
	return fmt.Sprintf("[Article skipped: parsing timeout after %d seconds]", int(timeout/time.Second))
}

// Parser turns raw markup into nodes. It must accept any input.
type Parser interface {
	Parse(text string) []wikitext.Node
}

// Status records how an article left the pipeline.
type Status string

const (
	StatusCompleted         Status = "completed"
	StatusSkippedComplexity Status = "skipped_complexity"
	StatusTimedOut          Status = "timed_out"
)

// Result is the plain text of one article and how it was produced.
type Result struct {
	Text   string
	Status Status
}

// Converter runs the full markup-to-plaintext pipeline for one article at a
// time. It holds no per-article state and is safe for concurrent use.
type Converter struct {
	parser Parser
	cfg    types.ParseConfig
}

// NewConverter returns a Converter that parses with p.
func NewConverter(p Parser, cfg types.ParseConfig) *Converter {
	return &Converter{parser: p, cfg: cfg}
}

// Convert returns the paragraph text of raw. Pathological or slow input
// yields a sentinel text, never an error; the only error is ctx ending
// while a bounded parse is in flight.
func (c *Converter) Convert(ctx context.Context, raw string) (Result, error) {
	if cx := MeasureComplexity(raw); cx.TooComplex() {
		log.Warn().
			Int("table_rows", cx.TableRows).
			Int("templates", cx.Templates).
			Int("images", cx.Images).
			Msg("skipping article: too complex")
		return Result{Text: ComplexitySentinel, Status: StatusSkippedComplexity}, nil
	}

	text, err := deadline.Run(ctx, c.cfg.Timeout, func() string {
		return c.plaintext(raw)
	})
	switch {
	case errors.Is(err, deadline.ErrDeadlineExceeded):
		log.Warn().Dur("timeout", c.cfg.Timeout).Msg("article parsing timed out")
		return Result{Text: TimeoutSentinel(c.cfg.Timeout), Status: StatusTimedOut}, nil
	case err != nil:
		return Result{}, err
	}
	return Result{Text: text, Status: StatusCompleted}, nil
}

// plaintext is the unguarded pipeline: parse, extract, expand, scrub,
// split and prune.
func (c *Converter) plaintext(raw string) string {
	nodes := c.parser.Parse(raw)
	text := Extract(nodes, raw, c.cfg.SkipLists)
	text = ExpandTemplates(text)
	text = Scrub(text)
	return strings.Join(PruneSections(SplitParagraphs(text)), paragraphSep)
}
