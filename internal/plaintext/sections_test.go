// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPruneSections(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"trailing heading dropped", []string{"Intro", "Примечания"}, []string{"Intro"}},
		{"heading with body kept", []string{"Примечания", "Body"}, []string{"Примечания", "Body"}},
		{"consecutive headings", []string{"Примечания", "Литература", "Body"}, []string{"Литература", "Body"}},
		{"category line", []string{"Категория:Города"}, []string{}},
		{"ordinary heading kept", []string{"История"}, []string{"История"}},
		{"empty", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PruneSections(tt.in))
		})
	}
}
