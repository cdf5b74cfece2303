package normalize

import (
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"interviewlens/internal/evidence"
	"interviewlens/internal/logging"
	"interviewlens/internal/textutil"
)

// Engine applies watermark stripping and near-duplicate collapse to a
// session of recognized text samples. An Engine holds no per-session state
// and is safe for concurrent use.
type Engine struct {
	opts      Options
	whitelist map[string]struct{}
	logger    *slog.Logger
}

// New constructs an Engine. Zero-valued options fall back to DefaultOptions.
func New(opts Options, logger *slog.Logger) *Engine {
	opts = opts.withDefaults()
	whitelist := make(map[string]struct{}, len(opts.SingleCharWhitelist))
	for _, word := range opts.SingleCharWhitelist {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			whitelist[word] = struct{}{}
		}
	}
	return &Engine{
		opts:      opts,
		whitelist: whitelist,
		logger:    logging.NewComponentLogger(logger, "normalize"),
	}
}

// Options returns the effective engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Stats summarizes one normalization run.
type Stats struct {
	Input      int
	NoiseWords []string
	Rejected   int
	Collapsed  int
	Output     int
}

// Normalize converts raw samples into a clean slide timeline. Samples are
// pre-cleaned, watermark tokens are counted once over the whole pre-cleaned
// session, then a single walk strips noise, rejects short text and collapses
// each sample against the last accepted one. The result preserves input
// order minus rejected and collapsed samples. An empty input yields an
// empty, non-nil timeline.
func (e *Engine) Normalize(raw []evidence.RawSlideText) []evidence.CleanSlide {
	out, stats := e.normalize(raw)
	e.logger.Info("slide timeline normalized",
		logging.String(logging.FieldEventType, "normalize_complete"),
		logging.Int("raw_samples", stats.Input),
		logging.Int("clean_slides", stats.Output),
		logging.Int("rejected", stats.Rejected),
		logging.Int("collapsed", stats.Collapsed),
		logging.Any("noise_tokens", stats.NoiseWords),
	)
	return out
}

func (e *Engine) normalize(raw []evidence.RawSlideText) ([]evidence.CleanSlide, Stats) {
	stats := Stats{Input: len(raw)}

	texts := make([]string, len(raw))
	for i, r := range raw {
		texts[i] = e.PreClean(r.Text)
	}
	noise := e.NoiseTokens(texts)
	for token := range noise {
		stats.NoiseWords = append(stats.NoiseWords, token)
	}
	slices.Sort(stats.NoiseWords)

	out := make([]evidence.CleanSlide, 0, len(raw))
	var last string
	for i, r := range raw {
		text := StripTokens(texts[i], noise)
		if utf8.RuneCountInString(strings.TrimSpace(text)) < e.opts.MinSlideLength {
			stats.Rejected++
			continue
		}
		if len(out) > 0 && e.IsDuplicate(last, text) {
			stats.Collapsed++
			continue
		}
		out = append(out, evidence.CleanSlide{
			TimestampSec: r.TimestampSec,
			Text:         text,
			FrameIndex:   evidence.FrameRef(r.FrameIndex),
		})
		last = text
	}
	stats.Output = len(out)
	return out, stats
}

// PreClean drops single-glyph tokens that are neither digits nor whitelisted
// words, then collapses whitespace.
func (e *Engine) PreClean(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, field := range fields {
		if textutil.IsSingleGlyph(field) && !textutil.IsDigitToken(field) {
			if _, ok := e.whitelist[strings.ToLower(field)]; !ok {
				continue
			}
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

// NoiseTokens returns the tokens whose document frequency k across texts
// satisfies k > ratio*n. Sessions smaller than MinNoiseSamples yield no noise.
func (e *Engine) NoiseTokens(texts []string) map[string]struct{} {
	noise := make(map[string]struct{})
	n := len(texts)
	if n == 0 || n < e.opts.MinNoiseSamples {
		return noise
	}
	counts := make(map[string]int)
	for _, text := range texts {
		for token := range textutil.UniqueTokens(text) {
			counts[token]++
		}
	}
	limit := e.opts.NoiseTokenRatio * float64(n)
	for token, k := range counts {
		if float64(k) > limit {
			noise[token] = struct{}{}
		}
	}
	return noise
}

// IsDuplicate reports whether candidate repeats previous closely enough to be
// collapsed into it.
func (e *Engine) IsDuplicate(previous, candidate string) bool {
	return textutil.SimilarityRatio(previous, candidate) > e.opts.SimilarityThreshold
}

// StripTokens removes tokens whose comparison key is in noise, preserving
// the casing and order of the remaining tokens.
func StripTokens(text string, noise map[string]struct{}) string {
	fields := strings.Fields(text)
	if len(noise) == 0 {
		return strings.Join(fields, " ")
	}
	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		if key := textutil.TokenKey(field); key != "" {
			if _, ok := noise[key]; ok {
				continue
			}
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}
