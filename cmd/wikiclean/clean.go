// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wikiclean/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Re-scrub template and image residue from converted columns",
	Long: `Clean runs the residue scrubber again over columns that already hold
converted text, by default official_text_paragraphs and
clone_text_paragraphs. Columns keep their names; nulls stay null.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("input")
		out, _ := cmd.Flags().GetString("output")
		cols, _ := cmd.Flags().GetStringSlice("columns")
		_, err := pipeline.Clean(in, out, cols, os.Stdout)
		return err
	},
}

func init() {
	cleanCmd.Flags().StringP("input", "i", "", "input parquet file")
	cleanCmd.Flags().StringP("output", "o", "", "output parquet file")
	cleanCmd.Flags().StringSlice("columns", pipeline.ParsedColumns, "columns to clean")
	_ = cleanCmd.MarkFlagRequired("input")
	_ = cleanCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(cleanCmd)
}
