// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/wikiclean/pkg/types"
)

// DefaultPreviewLimit is the number of characters of each text shown by
// WritePreview.
const DefaultPreviewLimit = 5000

// WritePreview prints an article's id, title, text lengths in characters and
// the first limit characters of the official text. limit <= 0 prints the
// whole text.
func WritePreview(w io.Writer, a types.Article, limit int) {
	rule := strings.Repeat("=", headerRuleWidth)

	fmt.Fprintf(w, "Page ID: %s\n", a.PageID)
	fmt.Fprintf(w, "Title: %s\n", a.DisplayTitle())
	fmt.Fprintf(w, "\nOfficial text length: %s\n", textLength(a.Official))
	fmt.Fprintf(w, "Clone text length: %s\n", textLength(a.Clone))
	fmt.Fprintf(w, "\n%s\nOFFICIAL TEXT:\n%s\n", rule, rule)

	if a.Official == nil {
		fmt.Fprintln(w, "(none)")
		return
	}
	text := *a.Official
	n := utf8.RuneCountInString(text)
	fmt.Fprintln(w, truncate(text, limit))
	if limit > 0 && n > limit {
		fmt.Fprintf(w, "\n... (truncated, total %d characters)\n", n)
	}
}

func textLength(s *string) string {
	if s == nil {
		return "none"
	}
	return fmt.Sprint(utf8.RuneCountInString(*s))
}

// truncate returns the first limit runes of s.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == limit {
			return s[:pos]
		}
		i++
	}
	return s
}
