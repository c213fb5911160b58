// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ParseConfig holds settings for the markup-to-plaintext stage.
type ParseConfig struct {
	// SkipLists drops bullet, numbered and definition lists from the output.
	SkipLists bool `json:"skip_lists" yaml:"skip_lists"`

	// Timeout bounds how long one article may take to parse (default 30s).
	// Zero disables the bound and parses synchronously.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Workers is the number of articles converted at once (default 1).
	Workers int `json:"workers" yaml:"workers"`
}

// ExportConfig holds settings for exporting parsed articles as text files.
type ExportConfig struct {
	// OfficialDir receives <page_id>_official.txt files.
	OfficialDir string `json:"official_dir" yaml:"official_dir"`

	// CloneDir receives <page_id>_clone.txt files (default OfficialDir).
	CloneDir string `json:"clone_dir" yaml:"clone_dir"`
}

// StoreConfig holds settings for the article store.
type StoreConfig struct {
	// DBPath is the SQLite database file (e.g. "data/index/articles.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
