package llm

import (
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Score int `json:"score"`
	}
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{name: "plain", content: `{"score":4}`, want: 4},
		{name: "fenced", content: "```json\n{\"score\":5}\n```", want: 5},
		{name: "bare fence", content: "```\n{\"score\":6}\n```", want: 6},
		{name: "prose around object", content: "Here you go: {\"score\":7} hope it helps", want: 7},
		{name: "empty", content: "   ", wantErr: true},
		{name: "no json", content: "no idea", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeJSON(tt.content, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON returned error: %v", err)
			}
			if got.Score != tt.want {
				t.Fatalf("score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := strings.Repeat("a ", 200)
	got := snippet(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != 163 {
		t.Fatalf("unexpected snippet %q", got)
	}
	if snippet(" \n\t") != "<empty>" {
		t.Fatal("expected <empty> placeholder")
	}
}
