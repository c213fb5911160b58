// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/wikiclean/internal/pipeline"
	"github.com/pdiddy/wikiclean/internal/store"
)

// --- index ---

var indexCmd = &cobra.Command{
	Use:   "index <parsed.parquet>",
	Short: "Load converted articles into the article database",
	Long: `Index reads a parsed table and upserts every article with a page id
into a SQLite database with FTS5 full-text indexing over titles and both
text versions. Re-indexing a page replaces its stored texts. Use
--export to also write the whole database to a YAML file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		articles, skipped, err := pipeline.LoadArticles(args[0], pipeline.ParsedColumns[0], pipeline.ParsedColumns[1])
		if err != nil {
			return err
		}
		if skipped > 0 {
			log.Warn().Int("rows", skipped).Msg("skipping rows without a page id")
		}

		s, err := store.NewStore(storeConfig(cmd))
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.Ingest(cmd.Context(), articles, os.Stdout); err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("export"); path != "" {
			if err := s.ExportYAML(cmd.Context(), path); err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", path)
		}
		return nil
	},
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over indexed articles",
	Long: `Search queries the article database. Every word of the query must
appear in the title or one of the texts; results are ranked by relevance
and show a snippet with the matched words in brackets.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := storeConfig(cmd)
		s, err := store.NewStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.Search(cmd.Context(), strings.Join(args, " "), cfg.MaxResults)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatSearchOutput(results, jsonOutput)
	},
}

func formatSearchOutput(results []store.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-10s  %-30s  %s\n", "Rank", "Page ID", "Title", "Snippet")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, r := range results {
		title := []rune(r.Title)
		if len(title) > 30 {
			title = append(title[:27], []rune("...")...)
		}
		snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
		fmt.Fprintf(os.Stdout, "%-4d  %-10s  %-30s  %s\n", i+1, r.PageID, string(title), snippet)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func init() {
	addStoreFlags(indexCmd)
	indexCmd.Flags().String("export", "", "also write the database to this YAML file")

	addStoreFlags(searchCmd)
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
}
