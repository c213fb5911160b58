// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import "strings"

var (
	textColumnCandidates  = []string{"text", "content", "official_text", "clone_text"}
	idColumnCandidates    = []string{"page_id", "pageid"}
	titleColumnCandidates = []string{"page_title", "title"}
)

// DetectTextColumn picks the column holding markup: the first known name
// present, else the first column whose name contains "text".
func DetectTextColumn(columns []string) (string, bool) {
	if c, ok := firstPresent(columns, textColumnCandidates); ok {
		return c, true
	}
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c), "text") {
			return c, true
		}
	}
	return "", false
}

// DetectIDColumn picks the page identifier column, if any.
func DetectIDColumn(columns []string) (string, bool) {
	return firstPresent(columns, idColumnCandidates)
}

// DetectTitleColumn picks the page title column, if any.
func DetectTitleColumn(columns []string) (string, bool) {
	return firstPresent(columns, titleColumnCandidates)
}

func firstPresent(columns, candidates []string) (string, bool) {
	for _, want := range candidates {
		for _, c := range columns {
			if c == want {
				return c, true
			}
		}
	}
	return "", false
}
