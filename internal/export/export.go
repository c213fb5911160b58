// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes converted articles out as one text file per version
// of each page, with a YAML manifest of what was written.
package export

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wikiclean/pkg/types"
)

const (
	// DefaultDir is where files go when no directory is configured.
	DefaultDir = "data/parsed_export"

	// ManifestName is the manifest file written into the official directory.
	ManifestName = "manifest.yaml"

	headerRuleWidth = 60
)

// Version identifies which text of an article a file holds.
type Version string

const (
	VersionOfficial Version = "official"
	VersionClone    Version = "clone"
)

// Result holds the outcome of an export run.
type Result struct {
	Written int
	Skipped int
	Failed  int
	Files   []ManifestEntry
}

// Total returns the number of files considered.
func (r Result) Total() int {
	return r.Written + r.Skipped + r.Failed
}

// ManifestEntry records one file written by an export run.
type ManifestEntry struct {
	PageID  string  `json:"page_id" yaml:"page_id"`
	Title   string  `json:"title" yaml:"title"`
	Version Version `json:"version" yaml:"version"`
	Path    string  `json:"path" yaml:"path"`
	Bytes   int     `json:"bytes" yaml:"bytes"`
}

// Manifest is the document stored at ManifestName.
type Manifest struct {
	ExportedAt  string          `json:"exported_at" yaml:"exported_at"`
	OfficialDir string          `json:"official_dir" yaml:"official_dir"`
	CloneDir    string          `json:"clone_dir" yaml:"clone_dir"`
	Files       []ManifestEntry `json:"files" yaml:"files"`
}

// Header returns the preamble written before an article's text.
func Header(a types.Article) string {
	return fmt.Sprintf("Page ID: %s\nTitle: %s\n%s\n\n", a.PageID, a.DisplayTitle(), strings.Repeat("=", headerRuleWidth))
}

// FileName returns the file name for one version of an article.
func FileName(pageID string, v Version) string {
	return fmt.Sprintf("%s_%s.txt", pageID, v)
}

// ErrUnsafePageID is returned for a page id that cannot be used as part of
// a file name inside the export directory.
var ErrUnsafePageID = errors.New("page id is not a safe file name")

// checkPageID rejects ids that are empty or could name a path outside the
// export directory.
func checkPageID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/\\\x00") {
		return fmt.Errorf("%q: %w", id, ErrUnsafePageID)
	}
	return nil
}

// resolveDirs applies the defaults: an empty official directory becomes
// DefaultDir and an empty clone directory shares the official one.
func resolveDirs(cfg types.ExportConfig) types.ExportConfig {
	if cfg.OfficialDir == "" {
		cfg.OfficialDir = DefaultDir
	}
	if cfg.CloneDir == "" {
		cfg.CloneDir = cfg.OfficialDir
	}
	return cfg
}

// ExportArticles writes each article's non-null texts to their directories.
// Existing files are left untouched and counted as skipped. Per-file status
// goes to w; a failed write is counted and the run continues.
func ExportArticles(articles []types.Article, cfg types.ExportConfig, w io.Writer) (Result, error) {
	cfg = resolveDirs(cfg)
	for _, dir := range []string{cfg.OfficialDir, cfg.CloneDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	var result Result
	for _, a := range articles {
		if err := checkPageID(a.PageID); err != nil {
			fmt.Fprintf(w, "failed:  %v\n", err)
			result.Failed++
			continue
		}
		header := Header(a)
		for _, f := range []struct {
			dir  string
			v    Version
			text *string
		}{
			{cfg.OfficialDir, VersionOfficial, a.Official},
			{cfg.CloneDir, VersionClone, a.Clone},
		} {
			if f.text == nil {
				continue
			}
			path := filepath.Join(f.dir, FileName(a.PageID, f.v))
			switch n, err := writeNew(path, header+*f.text); {
			case errors.Is(err, fs.ErrExist):
				fmt.Fprintf(w, "skipped: %s (already exists)\n", path)
				result.Skipped++
			case err != nil:
				fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
				result.Failed++
			default:
				fmt.Fprintf(w, "exported: %s - %s\n", a.PageID, a.DisplayTitle())
				result.Written++
				result.Files = append(result.Files, ManifestEntry{
					PageID:  a.PageID,
					Title:   a.DisplayTitle(),
					Version: f.v,
					Path:    path,
					Bytes:   n,
				})
			}
		}
	}

	if err := writeManifest(cfg, result.Files); err != nil {
		return result, err
	}
	fmt.Fprintf(w, "\nExport summary: %d written, %d skipped, %d failed (total: %d)\n",
		result.Written, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// writeNew creates path exclusively, so an existing file is never replaced.
func writeNew(path, content string) (int, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func writeManifest(cfg types.ExportConfig, files []ManifestEntry) error {
	m := Manifest{
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		OfficialDir: cfg.OfficialDir,
		CloneDir:    cfg.CloneDir,
		Files:       files,
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	path := filepath.Join(cfg.OfficialDir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest from dir.
func ReadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return m, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}
