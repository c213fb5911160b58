// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wikiclean/internal/batch"
	"github.com/pdiddy/wikiclean/internal/export"
	"github.com/pdiddy/wikiclean/internal/pipeline"
	"github.com/pdiddy/wikiclean/internal/store"
	"github.com/pdiddy/wikiclean/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show [table.parquet] <page_id>",
	Short: "Print one article with its text lengths and a preview",
	Long: `Show finds one article by page id and prints its title, the lengths
of its official and clone texts, and the start of the official text.

With a parquet file, raw official_text/clone_text columns are used when
present, otherwise the converted *_paragraphs columns. With --from-db and
only a page id, the article is read from the article database instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		fromDB, _ := cmd.Flags().GetBool("from-db")

		if err := checkShowArgs(fromDB, args); err != nil {
			return err
		}

		var (
			a   types.Article
			err error
		)
		if fromDB {
			a, err = showFromStore(cmd, args[0])
		} else {
			a, err = showFromTable(args[0], args[1])
		}
		if err != nil {
			return err
		}
		export.WritePreview(os.Stdout, a, limit)
		return nil
	},
}

// checkShowArgs accepts a page id alone with --from-db, or a parquet file
// and a page id without it.
func checkShowArgs(fromDB bool, args []string) error {
	switch {
	case fromDB && len(args) == 1, !fromDB && len(args) == 2:
		return nil
	case fromDB:
		return fmt.Errorf("--from-db takes a page id only, not a parquet file")
	default:
		return fmt.Errorf("need a parquet file and page id, or --from-db and a page id")
	}
}

func showFromStore(cmd *cobra.Command, pageID string) (types.Article, error) {
	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return types.Article{}, err
	}
	defer s.Close()
	return s.Get(cmd.Context(), pageID)
}

func showFromTable(path, pageID string) (types.Article, error) {
	tbl, err := batch.ReadTable(path)
	if err != nil {
		return types.Article{}, err
	}
	official, clone := pipeline.ColOfficialText, pipeline.ColCloneText
	if !tbl.Has(official) {
		official, clone = pipeline.ParsedColumns[0], pipeline.ParsedColumns[1]
	}

	articles, _, err := pipeline.TableArticles(tbl, official, clone)
	if err != nil {
		return types.Article{}, err
	}
	for _, a := range articles {
		if a.PageID == pageID {
			return a, nil
		}
	}
	return types.Article{}, fmt.Errorf("page ID %s not found", pageID)
}

func init() {
	showCmd.Flags().Int("limit", export.DefaultPreviewLimit, "characters of official text to print (0 prints all)")
	showCmd.Flags().Bool("from-db", false, "read the article from the article database")
	addStoreFlags(showCmd)

	rootCmd.AddCommand(showCmd)
}
