package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.SetGray(x, h/2, color.Gray{Y: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestUpscaleKeepsAspectRatio(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 320, 180))
	got := Upscale(src, 1280)
	if got.Bounds().Dx() != 1280 || got.Bounds().Dy() != 720 {
		t.Fatalf("unexpected bounds %v", got.Bounds())
	}
}

func TestUpscaleLeavesWideImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	if got := Upscale(src, 1280); got.Bounds() != src.Bounds() {
		t.Fatalf("expected unchanged bounds, got %v", got.Bounds())
	}
	if got := Upscale(src, 0); got.Bounds() != src.Bounds() {
		t.Fatalf("expected unchanged bounds for zero width, got %v", got.Bounds())
	}
}

func TestPrepareFrame(t *testing.T) {
	small := encodeTestPNG(t, 100, 50)
	out, err := PrepareFrame(small, 400)
	if err != nil {
		t.Fatalf("PrepareFrame: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 200 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}

	wide := encodeTestPNG(t, 800, 10)
	same, err := PrepareFrame(wide, 400)
	if err != nil {
		t.Fatalf("PrepareFrame: %v", err)
	}
	if !bytes.Equal(same, wide) {
		t.Fatal("expected wide frame to pass through unchanged")
	}

	if _, err := PrepareFrame([]byte("not a png"), 400); err == nil {
		t.Fatal("expected decode error")
	}
}
