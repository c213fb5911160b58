// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wikiclean/internal/export"
	"github.com/pdiddy/wikiclean/internal/store"
	"github.com/pdiddy/wikiclean/pkg/types"
)

// Config keys. Each can also be set through a WIKICLEAN_ environment
// variable, e.g. WIKICLEAN_PARSE_TIMEOUT.
const (
	keySkipLists   = "parse.skip_lists"
	keyTimeout     = "parse.timeout"
	keyWorkers     = "parse.workers"
	keyOfficialDir = "export.official_dir"
	keyCloneDir    = "export.clone_dir"
	keyDBPath      = "store.db_path"
	keyMaxResults  = "store.max_results"
)

const (
	defaultTimeoutSeconds = 30
	defaultWorkers        = 1
	defaultMaxResults     = 20
)

// stringSetting resolves a setting: an explicit flag wins over the config
// file and environment, which win over the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	v, _ := cmd.Flags().GetString(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	v, _ := cmd.Flags().GetInt(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return v
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	v, _ := cmd.Flags().GetBool(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return v
}

func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "input parquet file")
	cmd.Flags().StringP("output", "o", "", "output parquet file")
	cmd.Flags().Bool("skip-lists", false, "drop bullet, numbered and definition lists")
	cmd.Flags().Int("timeout", defaultTimeoutSeconds, "per-article parse timeout in seconds (0 disables)")
	cmd.Flags().Int("workers", defaultWorkers, "articles converted concurrently (0 uses every CPU)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
}

func parseConfig(cmd *cobra.Command) types.ParseConfig {
	return types.ParseConfig{
		SkipLists: boolSetting(cmd, "skip-lists", keySkipLists),
		Timeout:   time.Duration(intSetting(cmd, "timeout", keyTimeout)) * time.Second,
		Workers:   intSetting(cmd, "workers", keyWorkers),
	}
}

// exportConfig reads the output directories from positional args, falling
// back to configuration and then the export defaults.
func exportConfig(args []string) types.ExportConfig {
	cfg := types.ExportConfig{
		OfficialDir: viper.GetString(keyOfficialDir),
		CloneDir:    viper.GetString(keyCloneDir),
	}
	if len(args) > 0 {
		cfg.OfficialDir = args[0]
		cfg.CloneDir = ""
	}
	if len(args) > 1 {
		cfg.CloneDir = args[1]
	}
	if cfg.OfficialDir == "" {
		cfg.OfficialDir = export.DefaultDir
	}
	return cfg
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", store.DefaultDBPath, "article database path")
	cmd.Flags().Int("max-results", defaultMaxResults, "maximum number of search results")
}

func storeConfig(cmd *cobra.Command) types.StoreConfig {
	return types.StoreConfig{
		DBPath:     stringSetting(cmd, "db", keyDBPath),
		MaxResults: intSetting(cmd, "max-results", keyMaxResults),
	}
}
