package evidence

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewBundleEmptySectionsSerializeAsArrays(t *testing.T) {
	bundle := NewBundle("/tmp/talk.mp4", "en", nil, nil)
	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`"status":"completed"`,
		`"transcription":[]`,
		`"visual_context":[]`,
		`"detected_language":"en"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("bundle json missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, "ai_evaluation") {
		t.Errorf("expected ai_evaluation to be omitted: %s", out)
	}
	if !bundle.Degraded() {
		t.Error("expected empty bundle to report degraded")
	}
}

func TestBundleEvaluationAndFrameIndex(t *testing.T) {
	bundle := NewBundle("talk.mp4", "fr",
		[]TranscriptSegment{{Start: 0, End: 1.5, Text: "bonjour"}},
		[]CleanSlide{{TimestampSec: 2, Text: "Plan", FrameIndex: FrameRef(50)}},
	)
	bundle.Evaluation = map[string]any{"interview_score": 7}
	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"frame_index":50`) {
		t.Errorf("expected frame_index in output: %s", out)
	}
	if !strings.Contains(out, `"ai_evaluation":{"interview_score":7}`) {
		t.Errorf("expected evaluation in output: %s", out)
	}
	if bundle.Degraded() {
		t.Error("expected populated bundle not to report degraded")
	}
}
