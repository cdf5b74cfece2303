package ocr

import "testing"

func TestAcceptedText(t *testing.T) {
	lines := []Line{
		{Text: " Binary Search Trees ", Confidence: 0.93},
		{Text: "~~~", Confidence: 0.2},
		{Text: "O(log n) lookup", Confidence: 0.61},
		{Text: "boundary", Confidence: 0.6},
		{Text: "   ", Confidence: 0.99},
	}
	got := AcceptedText(lines, 0.6)
	if got != "Binary Search Trees O(log n) lookup" {
		t.Fatalf("unexpected text %q", got)
	}
	if AcceptedText(nil, 0.6) != "" {
		t.Fatal("expected empty text for no lines")
	}
}

func TestLongEnough(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"abc", false},
		{"  abc  ", false},
		{"abcd", true},
		{"ключ", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := longEnough(tt.text, 3); got != tt.want {
			t.Errorf("longEnough(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
