// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the article records and configuration shared by
// the wikiclean commands.
package types

// UntitledTitle stands in for a missing page title in reports and exports.
const UntitledTitle = "untitled"

// Article holds one compared page: the official text and its clone.
// Either text may be absent.
type Article struct {
	// PageID identifies the page in the source dump (e.g. "12345").
	PageID string `json:"page_id" yaml:"page_id"`

	// Title is the page title; empty when the source row had none.
	Title string `json:"title" yaml:"title"`

	// Official is the text of the official version.
	Official *string `json:"official,omitempty" yaml:"official,omitempty"`

	// Clone is the text of the clone version.
	Clone *string `json:"clone,omitempty" yaml:"clone,omitempty"`
}

// DisplayTitle returns Title, or UntitledTitle when it is empty.
func (a Article) DisplayTitle() string {
	if a.Title == "" {
		return UntitledTitle
	}
	return a.Title
}
