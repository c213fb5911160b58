// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTemplates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date", "Основан {{СС3|18.1.1918}} года", "Основан 18 января 1918 года"},
		{"december", "{{СС3|31.12.1999}}", "31 декабря 1999"},
		{"unknown month", "{{СС3|1.13.1918}}", "1.13.1918"},
		{"padded unknown month", "{{СС3|1.013.1918}}", "1.13.1918"},
		{"zero month", "{{СС3|5.00.2000}}", "5.0.2000"},
		{"year", "в {{год|1918}}", "в 1918"},
		{"long year falls to catch-all", "{{год|12345}}", "12345"},
		{"num", "{{num|42}} км", "42 км"},
		{"catch-all", "{{lang-en|Moscow}}", "Moscow"},
		{"nested resolves innermost only", "{{a|{{b|c}}}}", "{{a|c}}"},
		{"two pipes untouched", "{{a|b|c}}", "{{a|b|c}}"},
		{"no templates", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTemplates(tt.in))
		})
	}
}

// The catch-all rule only looks at brace pairs, so a piped link inside braces
// loses its target and keeps the closing brackets.
func TestExpandTemplates_PipedLinkInsideBraces(t *testing.T) {
	assert.Equal(t, "[[Москва|столица]]", ExpandTemplates("[[Москва|столица]]"))
	assert.Equal(t, "столица]]", ExpandTemplates("{{[[Москва|столица]]}}"))
}
