package slides

import (
	"math"

	"interviewlens/internal/evidence"
)

// Options configures candidate selection.
type Options struct {
	// MinSceneDuration is the minimum number of seconds between candidates.
	MinSceneDuration float64
	// MinAreaRatio is the scene score a frame must exceed to be a candidate.
	MinAreaRatio float64
}

// DefaultOptions returns the stock detector thresholds.
func DefaultOptions() Options {
	return Options{MinSceneDuration: 2.0, MinAreaRatio: 0.15}
}

// SelectCandidates turns per-frame scene scores into slide candidates. The
// first frame of the video is always a candidate with change ratio 1.0.
// Later frames qualify when their score exceeds MinAreaRatio and at least
// MinSceneDuration seconds passed since the last candidate. Frame indices
// are the decoder numbers ffmpeg reported, so they stay correct on variable
// frame rate video, and they are strictly increasing.
func SelectCandidates(scores []SceneScore, opts Options) []evidence.SlideCandidate {
	first := evidence.SlideCandidate{FrameIndex: 0, TimestampSec: 0, ChangeRatio: 1.0}
	if len(scores) > 0 && scores[0].Frame == 0 {
		first.TimestampSec = math.Max(scores[0].PTSTime, 0)
	}
	candidates := []evidence.SlideCandidate{first}
	last := first
	for _, s := range scores {
		if s.Frame <= last.FrameIndex || s.Score <= opts.MinAreaRatio {
			continue
		}
		if s.PTSTime-last.TimestampSec < opts.MinSceneDuration {
			continue
		}
		next := evidence.SlideCandidate{
			FrameIndex:   s.Frame,
			TimestampSec: s.PTSTime,
			ChangeRatio:  math.Min(s.Score, 1.0),
		}
		candidates = append(candidates, next)
		last = next
	}
	return candidates
}
