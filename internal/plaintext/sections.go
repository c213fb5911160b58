// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plaintext

import "strings"

// structuralHeadings are section titles that carry no body of their own.
var structuralHeadings = map[string]bool{
	"Население":  true,
	"Примечания": true,
	"Литература": true,
	"Ссылки":     true,
	"Категория":  true,
	"См. также":  true,
	"Источники":  true,
}

const categoryPrefix = "Категория:"

func isStructuralHeading(p string) bool {
	return structuralHeadings[p] || strings.HasPrefix(p, categoryPrefix)
}

// PruneSections drops structural headings that are not followed by a
// paragraph of content. Other paragraphs pass through unchanged.
func PruneSections(paragraphs []string) []string {
	out := make([]string, 0, len(paragraphs))
	for i, p := range paragraphs {
		if !isStructuralHeading(p) {
			out = append(out, p)
			continue
		}
		if i+1 < len(paragraphs) && !isStructuralHeading(paragraphs[i+1]) {
			out = append(out, p)
		}
	}
	return out
}
