package slides

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SceneScore is one frame reported by ffmpeg's metadata=print filter.
// Frame is the decoder frame number, the same n the frame extractor selects.
type SceneScore struct {
	Frame   int
	PTSTime float64
	Score   float64
}

// ParseSceneScores reads metadata=print output. Each frame starts with a
// "frame:N pts:P pts_time:T" line followed by key=value lines; only
// lavfi.scene_score is used. Frames without a score are reported with 0 and
// frames without a usable number or timestamp are skipped.
func ParseSceneScores(r io.Reader) ([]SceneScore, error) {
	var (
		scores  []SceneScore
		current *SceneScore
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "frame:") {
			if current != nil {
				scores = append(scores, *current)
			}
			frame, pts, ok := frameHeader(line)
			if !ok {
				current = nil
				continue
			}
			current = &SceneScore{Frame: frame, PTSTime: pts}
			continue
		}
		if current == nil {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found || key != "lavfi.scene_score" {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("parse scene score %q: %w", value, err)
		}
		current.Score = score
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read scene scores: %w", err)
	}
	if current != nil {
		scores = append(scores, *current)
	}
	return scores, nil
}

// frameHeader reads the frame number and pts_time of a header line.
func frameHeader(line string) (int, float64, bool) {
	frame, pts := -1, -1.0
	for _, field := range strings.Fields(line) {
		if value, found := strings.CutPrefix(field, "frame:"); found {
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return 0, 0, false
			}
			frame = n
			continue
		}
		if value, found := strings.CutPrefix(field, "pts_time:"); found {
			t, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return 0, 0, false
			}
			pts = t
		}
	}
	if frame < 0 || pts < 0 {
		return 0, 0, false
	}
	return frame, pts, true
}
