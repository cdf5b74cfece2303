package textutil

import (
	"reflect"
	"testing"
)

func TestStatTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"lowercases", "COMPANY Logo", []string{"company", "logo"}},
		{"strips edges", "Q: (hash) table?", []string{"q", "hash", "table"}},
		{"keeps inner punctuation", "big-o o(n)", []string{"big-o", "o(n"}},
		{"drops punctuation-only", "intro -- !!", []string{"intro"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatTokens(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StatTokens(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestUniqueTokens(t *testing.T) {
	got := UniqueTokens("Logo logo LOGO! intro")
	if len(got) != 2 {
		t.Fatalf("expected 2 unique tokens, got %d (%v)", len(got), got)
	}
	if _, ok := got["logo"]; !ok {
		t.Fatal("expected logo token")
	}
}

func TestIsSingleGlyph(t *testing.T) {
	for _, tok := range []string{"a", "я", "7", "&"} {
		if !IsSingleGlyph(tok) {
			t.Errorf("IsSingleGlyph(%q) = false, want true", tok)
		}
	}
	for _, tok := range []string{"", "ab", "a."} {
		if IsSingleGlyph(tok) {
			t.Errorf("IsSingleGlyph(%q) = true, want false", tok)
		}
	}
}

func TestIsDigitToken(t *testing.T) {
	if !IsDigitToken("2024") {
		t.Error("expected 2024 to be a digit token")
	}
	if IsDigitToken("v2") || IsDigitToken("") {
		t.Error("expected v2 and empty to be non-digit tokens")
	}
}

func TestTokenKey(t *testing.T) {
	if got := TokenKey("COMPANY,"); got != "company" {
		t.Errorf("TokenKey() = %q, want company", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Interview Recording.mp4", "interview_recording_mp4"},
		{"  ", "unknown"},
		{"--__--", "unknown"},
		{"run-01", "run-01"},
		{"Q&A  (final).MOV", "q_a_final_mov"},
		{"Entretien élève", "entretien_l_ve"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeToken(tt.input); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
