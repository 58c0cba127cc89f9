// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lesedi/thuto/pkg/slug"
)

/*
TestFrom verifies the slug transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Grade 10 Mathematics A", "grade-10-mathematics-a"},
		{"accents", "Français Première", "francais-premiere"},
		{"punctuation", "Life Orientation (Term 2)", "life-orientation-term-2"},
		{"multi_space", "Natural   Sciences", "natural-sciences"},
		{"leading_trailing", "  -History-  ", "history"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
