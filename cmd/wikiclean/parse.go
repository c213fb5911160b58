// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/wikiclean/internal/pipeline"
	"github.com/pdiddy/wikiclean/internal/plaintext"
	"github.com/pdiddy/wikiclean/internal/wikitext"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Convert the official and clone texts of a comparison table",
	Long: `Parse reads a comparison table with the columns page_id, page_title,
official_text, official_timestamp, clone_page_title, clone_text and
clone_timestamp, converts both text columns to plain text, and writes the
table back with those columns renamed to official_text_paragraphs and
clone_text_paragraphs. Null texts stay null.

Articles that are too complex to parse, or that exceed the timeout, are
replaced by a bracketed notice instead of failing the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newRunner(cmd)
		in, _ := cmd.Flags().GetString("input")
		out, _ := cmd.Flags().GetString("output")
		_, err := r.ParseComparison(cmd.Context(), in, out)
		return err
	},
}

var parseSingleCmd = &cobra.Command{
	Use:   "parse-single",
	Short: "Convert one text column of an arbitrary table",
	Long: `Parse-single converts a single text column and writes it back as
<column>_parsed. Without --text-column the column is detected: text,
content, official_text, clone_text, then any column whose name contains
"text". page_id/pageid and page_title/title label progress output when
present.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newRunner(cmd)
		in, _ := cmd.Flags().GetString("input")
		out, _ := cmd.Flags().GetString("output")
		col, _ := cmd.Flags().GetString("text-column")
		_, err := r.ParseSingle(cmd.Context(), in, out, col)
		return err
	},
}

func newRunner(cmd *cobra.Command) *pipeline.Runner {
	cfg := parseConfig(cmd)
	log.Debug().
		Bool("skip_lists", cfg.SkipLists).
		Dur("timeout", cfg.Timeout).
		Int("workers", cfg.Workers).
		Msg("parse settings")
	conv := plaintext.NewConverter(wikitext.New(), cfg)
	return pipeline.NewRunner(conv, cfg.Workers, os.Stdout)
}

func init() {
	addParseFlags(parseCmd)
	addParseFlags(parseSingleCmd)
	parseSingleCmd.Flags().String("text-column", "", "column holding markup (auto-detected when empty)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(parseSingleCmd)
}
