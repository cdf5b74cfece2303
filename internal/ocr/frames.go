package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// DefaultBatchSize bounds the number of frames selected per ffmpeg run.
const DefaultBatchSize = 64

// FrameSource writes the requested frames to dir and returns the PNG path
// for every frame it could extract, keyed by frame index.
type FrameSource interface {
	Extract(ctx context.Context, videoPath string, frames []int, dir string) (map[int]string, error)
}

// FrameExtractor pulls frames by decoder index with ffmpeg's select filter.
type FrameExtractor struct {
	ffmpegBinary string
	batchSize    int
	run          func(ctx context.Context, name string, args ...string) error
}

// NewFrameExtractor constructs a FrameExtractor. A non-positive batch size
// uses DefaultBatchSize.
func NewFrameExtractor(ffmpegBinary string, batchSize int) *FrameExtractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &FrameExtractor{ffmpegBinary: ffmpegBinary, batchSize: batchSize, run: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (f *FrameExtractor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	f.run = runner
}

// Extract selects frames in ascending index order. ffmpeg emits selected
// frames in decode order, so the i-th image of a batch belongs to the i-th
// requested index; indices past the end of the stream produce no image and
// are absent from the result. Batch failures are joined into the returned
// error while frames from other batches are still returned.
func (f *FrameExtractor) Extract(ctx context.Context, videoPath string, frames []int, dir string) (map[int]string, error) {
	wanted := uniqueSorted(frames)
	paths := make(map[int]string, len(wanted))
	var errs []error
	for start := 0; start < len(wanted); start += f.batchSize {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		end := min(start+f.batchSize, len(wanted))
		batch := wanted[start:end]
		batchDir := filepath.Join(dir, fmt.Sprintf("batch_%04d", start/f.batchSize))
		if err := os.MkdirAll(batchDir, 0o755); err != nil {
			return paths, fmt.Errorf("frame batch dir: %w", err)
		}
		if err := f.run(ctx, f.ffmpegBinary, buildSelectArgs(videoPath, batch, batchDir)...); err != nil {
			errs = append(errs, fmt.Errorf("extract frames %d-%d: %w", batch[0], batch[len(batch)-1], err))
			continue
		}
		images, err := filepath.Glob(filepath.Join(batchDir, "frame_*.png"))
		if err != nil {
			errs = append(errs, fmt.Errorf("list extracted frames: %w", err))
			continue
		}
		slices.Sort(images)
		for i, path := range images {
			if i >= len(batch) {
				break
			}
			paths[batch[i]] = path
		}
	}
	return paths, errors.Join(errs...)
}

func buildSelectArgs(videoPath string, frames []int, dir string) []string {
	terms := make([]string, 0, len(frames))
	for _, idx := range frames {
		terms = append(terms, "eq(n,"+strconv.Itoa(idx)+")")
	}
	return []string{
		"-hide_banner",
		"-nostats",
		"-loglevel", "error",
		"-i", videoPath,
		"-map", "0:v:0",
		"-an", "-sn", "-dn",
		"-vf", "select='" + strings.Join(terms, "+") + "'",
		"-fps_mode", "passthrough",
		"-f", "image2",
		filepath.Join(dir, "frame_%06d.png"),
	}
}

func uniqueSorted(frames []int) []int {
	out := make([]int, 0, len(frames))
	for _, idx := range frames {
		if idx >= 0 {
			out = append(out, idx)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
