package textutil

import (
	"math"
	"testing"
)

func TestSimilarityRatioEmpty(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"both empty", "", ""},
		{"a empty", "", "hello world"},
		{"b empty", "hello world", ""},
		{"punctuation only", "!!", "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimilarityRatio(tt.a, tt.b); got != 0 {
				t.Errorf("SimilarityRatio(%q, %q) = %v, want 0", tt.a, tt.b, got)
			}
		})
	}
}

func TestSimilarityRatioIgnoresCaseAndPunctuation(t *testing.T) {
	got := SimilarityRatio("machine learning basics", "Machine Learning Basics!!")
	if got != 1.0 {
		t.Errorf("SimilarityRatio() = %v, want 1.0", got)
	}
}

func TestSimilarityRatioDifferent(t *testing.T) {
	got := SimilarityRatio("machine learning basics", "neural networks")
	if got > 0.5 {
		t.Errorf("SimilarityRatio(different) = %v, want <= 0.5", got)
	}
}

func TestSimilarityRatioSingleEdit(t *testing.T) {
	// One substitution across twenty runes.
	got := SimilarityRatio("abcdefghijklmnopqrst", "abcdefghijklmnopqrsx")
	if math.Abs(got-0.95) > 1e-9 {
		t.Errorf("SimilarityRatio() = %v, want 0.95", got)
	}
}

func TestSimilarityRatioSymmetric(t *testing.T) {
	a := "Q: what is a hash table?"
	b := "Q: what is a hash tab1e"
	if SimilarityRatio(a, b) != SimilarityRatio(b, a) {
		t.Error("SimilarityRatio should be symmetric")
	}
}

func TestComparisonForm(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello, World!", "hello world"},
		{"  spaced\tout\n", "spaced out"},
		{"Q: what?", "q what"},
		{"a + b = c", "a b c"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ComparisonForm(tt.input); got != tt.want {
				t.Errorf("ComparisonForm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
