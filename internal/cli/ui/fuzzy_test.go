package ui

import (
	"reflect"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"builtin_shadows", "builtin_shadow", 1},
		{"end_of_statement", "end_of_statements", 1},
		{"dsip", "disp", 2},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			result := LevenshteinDistance(tt.s1, tt.s2)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d; want %d", tt.s1, tt.s2, result, tt.expected)
			}
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"builtin_shadow", "end_of_statements"}

	tests := []struct {
		name     string
		target   string
		opts     *FuzzyMatchOptions
		expected []string
	}{
		{"exact match", "builtin_shadow", nil, []string{"builtin_shadow"}},
		{"plural", "builtin_shadows", nil, []string{"builtin_shadow"}},
		{"missing letter", "end_of_statement", nil, []string{"end_of_statements"}},
		{"case insensitive", "BUILTIN_SHADOW", nil, []string{"builtin_shadow"}},
		{
			name:     "case sensitive",
			target:   "BUILTIN_SHADOW",
			opts:     &FuzzyMatchOptions{CaseSensitive: true},
			expected: []string{},
		},
		{"no match too far", "copyright_notice", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindSimilar(tt.target, candidates, tt.opts)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("FindSimilar(%q) = %v; want %v", tt.target, result, tt.expected)
			}
		})
	}
}

func TestFindSimilarOrdersByDistance(t *testing.T) {
	candidates := []string{"disp", "display", "dips", "sum"}

	result := FindSimilar("disp", candidates, &FuzzyMatchOptions{MaxDistance: 3, MaxSuggestions: 2})
	expected := []string{"disp", "dips"}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("FindSimilar = %v; want %v", result, expected)
	}
}

func TestFindSimilarEmptyCandidates(t *testing.T) {
	if result := FindSimilar("x", nil, nil); len(result) != 0 {
		t.Errorf("Expected no suggestions, got %v", result)
	}
}
