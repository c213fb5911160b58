// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/wikiclean/internal/export"
	"github.com/pdiddy/wikiclean/internal/pipeline"
)

var exportCmd = &cobra.Command{
	Use:   "export <parsed.parquet> [official_dir] [clone_dir]",
	Short: "Write converted articles as individual text files",
	Long: `Export writes <page_id>_official.txt and <page_id>_clone.txt for every
row of a parsed table, each starting with a page id and title header.
With one directory both versions go there; with none they go to
data/parsed_export. Existing files are left untouched and rows without a
page id are skipped. A manifest.yaml listing the written files is placed
in the official directory.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := exportConfig(args[1:])
		fmt.Fprintf(os.Stdout, "Input (parsed):         %s\n", args[0])
		fmt.Fprintf(os.Stdout, "Output dir (official):  %s\n", cfg.OfficialDir)
		fmt.Fprintf(os.Stdout, "Output dir (clone):     %s\n\n", cloneDirOrShared(cfg.OfficialDir, cfg.CloneDir))

		articles, skipped, err := pipeline.LoadArticles(args[0], pipeline.ParsedColumns[0], pipeline.ParsedColumns[1])
		if err != nil {
			return err
		}
		if skipped > 0 {
			log.Warn().Int("rows", skipped).Msg("skipping rows without a page id")
		}

		res, err := export.ExportArticles(articles, cfg, os.Stdout)
		if err != nil {
			return err
		}
		if res.Failed > 0 {
			return fmt.Errorf("%d file(s) failed to export", res.Failed)
		}
		return nil
	},
}

func cloneDirOrShared(official, clone string) string {
	if clone == "" {
		return official
	}
	return clone
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
