package ffprobe

import (
	"math"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "mjpeg", "r_frame_rate": "90000/1", "disposition": {"attached_pic": 1}},
    {"index": 1, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001", "avg_frame_rate": "30/1"},
    {"index": 2, "codec_type": "audio", "codec_name": "aac", "channels": 2, "tags": {"language": "eng"}}
  ],
  "format": {"duration": "1834.5", "size": "104857600", "format_name": "mov,mp4"}
}`

func TestDecodeAndFrameRate(t *testing.T) {
	result, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.VideoStreamCount() != 2 {
		t.Fatalf("expected 2 video streams, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	video, ok := result.PrimaryVideo()
	if !ok || video.Index != 1 {
		t.Fatalf("expected primary video index 1, got %+v", video)
	}
	if got := result.FrameRate(); math.Abs(got-29.97002997) > 1e-6 {
		t.Fatalf("unexpected frame rate %v", got)
	}
	if result.DurationSeconds() != 1834.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 104857600 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestFrameRateFallsBackToAverage(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video", RFrameRate: "0/0", AvgFrameRate: "25/1"}}}
	if got := result.FrameRate(); got != 25 {
		t.Fatalf("expected 25 fps, got %v", got)
	}
	if got := (Result{}).FrameRate(); got != 0 {
		t.Fatalf("expected 0 fps without video, got %v", got)
	}
}

func TestParseRate(t *testing.T) {
	tests := map[string]float64{
		"30/1":  30,
		"24":    24,
		"0/0":   0,
		"bad":   0,
		"":      0,
		"-30/1": 0,
	}
	for input, want := range tests {
		if got := ParseRate(input); got != want {
			t.Errorf("ParseRate(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
