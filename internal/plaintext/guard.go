// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plaintext

import "strings"

const (
	tableRowMarker = "|-"
	templateMarker = "{{"
	maxTableRows   = 50
	maxTemplates   = 200
	maxMediaEmbeds = 50
)

var mediaEmbedMarkers = []string{"[[Файл:", "[[File:"}

// Complexity counts the markers that make a document expensive to parse.
type Complexity struct {
	TableRows int
	Templates int
	Images    int
}

// MeasureComplexity counts markers by plain substring search.
func MeasureComplexity(text string) Complexity {
	c := Complexity{
		TableRows: strings.Count(text, tableRowMarker),
		Templates: strings.Count(text, templateMarker),
	}
	for _, m := range mediaEmbedMarkers {
		c.Images += strings.Count(text, m)
	}
	return c
}

// TooComplex reports whether a document combines a large table with heavy
// template or image use.
func (c Complexity) TooComplex() bool {
	return c.TableRows > maxTableRows && (c.Templates > maxTemplates || c.Images > maxMediaEmbeds)
}
