// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plaintext

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	// {{СС3|18.1.1918}}: day.month.year date.
	dateTemplateRe = regexp.MustCompile(`\{\{СС3\|(\d+)\.(\d+)\.(\d+)\}\}`)
	// {{год|1918}}: bare year.
	yearTemplateRe = regexp.MustCompile(`\{\{год\|(\d{3,4})\}\}`)
	// {{num|1234}}: bare number.
	numTemplateRe = regexp.MustCompile(`\{\{num\|(\d+)\}\}`)
	// {{Name|Value}} with no nested braces or further pipes.
	simpleTemplateRe = regexp.MustCompile(`\{\{[^|{}]+\|([^|{}]+)\}\}`)
)

// genitiveMonths are Russian month names in the genitive case, as used in dates.
var genitiveMonths = [12]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// ExpandTemplates rewrites the date and number templates that survive
// extraction, then collapses any remaining {{Name|Value}} to Value. Each
// rule runs once, so nested templates are not resolved transitively.
func ExpandTemplates(text string) string {
	text = dateTemplateRe.ReplaceAllStringFunc(text, expandDate)
	text = yearTemplateRe.ReplaceAllString(text, "${1}")
	text = numTemplateRe.ReplaceAllString(text, "${1}")
	return simpleTemplateRe.ReplaceAllString(text, "${1}")
}

// expandDate renders "day monthName year". An unknown month keeps the
// numeric form, with the month reprinted from its parsed value.
func expandDate(match string) string {
	g := dateTemplateRe.FindStringSubmatch(match)
	day, year := g[1], g[3]
	month, err := strconv.ParseUint(g[2], 10, 32)
	if err != nil {
		month = 0
	}
	if month >= 1 && month <= 12 {
		return fmt.Sprintf("%s %s %s", day, genitiveMonths[month-1], year)
	}
	return fmt.Sprintf("%s.%d.%s", day, month, year)
}
