// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/storekeep/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Rice", "rice"},
		{"  Brown   Rice ", "brown-rice"},
		{"Café Molido", "cafe-molido"},
		{"CAFE--molido!!", "cafe-molido"},
		{"Nước mắm 500ml", "nuoc-mam-500ml"},
		{"Olive Oil (Extra Virgin)", "olive-oil-extra-virgin"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

func TestFrom_Length(t *testing.T) {
	got := slug.From(strings.Repeat("ab ", 200))
	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}
