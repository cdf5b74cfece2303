package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Upscale returns img scaled up to width with Catmull-Rom resampling when it
// is narrower than width. Wider images and non-positive widths return img.
func Upscale(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx() <= 0 || bounds.Dx() >= width {
		return img
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height <= 0 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// PrepareFrame decodes a PNG frame, upscales it, and re-encodes it as PNG.
// Frames already at least width pixels wide are returned unchanged.
func PrepareFrame(data []byte, width int) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if width <= 0 || img.Bounds().Dx() >= width {
		return data, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Upscale(img, width)); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
