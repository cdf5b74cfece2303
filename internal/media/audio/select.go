package audio

import (
	"fmt"
	"strconv"
	"strings"

	"interviewlens/internal/language"
	"interviewlens/internal/media/ffprobe"
)

// Selection describes the audio stream chosen for speech extraction.
type Selection struct {
	Primary ffprobe.Stream
	// PrimaryIndex is the container-wide stream index, -1 when none exists.
	PrimaryIndex int
	// Position is the index among audio streams only, as used by "-map 0:a:N".
	Position int
	// Language is the ISO 639-1 code from stream tags, empty when untagged.
	Language string
}

// Found reports whether an audio stream was selected.
func (s Selection) Found() bool {
	return s.PrimaryIndex >= 0
}

// MapSpecifier returns the ffmpeg stream specifier for the selection.
func (s Selection) MapSpecifier() string {
	if !s.Found() {
		return "0:a:0"
	}
	return fmt.Sprintf("0:a:%d", s.Position)
}

// Label returns a human-readable summary of the selected stream.
func (s Selection) Label() string {
	if !s.Found() {
		return ""
	}
	return formatStreamSummary(s.Primary)
}

// Select returns the best speech source among the audio streams. The
// preferred language is optional; an empty value skips language matching.
func Select(streams []ffprobe.Stream, preferred string) Selection {
	candidates := buildCandidates(streams)
	if len(candidates) == 0 {
		return Selection{PrimaryIndex: -1, Position: -1}
	}
	preferred = strings.TrimSpace(preferred)
	if preferred != "" {
		preferred = language.ToISO2(preferred)
	}

	best := candidates[0]
	bestScore := score(best, preferred)
	for _, cand := range candidates[1:] {
		if s := score(cand, preferred); s > bestScore {
			best = cand
			bestScore = s
		}
	}
	return Selection{
		Primary:      best.stream,
		PrimaryIndex: best.stream.Index,
		Position:     best.order,
		Language:     best.language,
	}
}

type candidate struct {
	stream         ffprobe.Stream
	order          int
	language       string
	title          string
	channels       int
	defaultFlagged bool
	secondary      bool
}

func score(cand candidate, preferred string) float64 {
	s := 0.0
	if preferred != "" && cand.language == preferred {
		s += 500
	}
	if !cand.secondary {
		s += 300
	}
	if cand.defaultFlagged {
		s += 50
	}
	if cand.channels > 0 {
		s += 10
	}
	// Earlier streams win ties.
	s -= float64(cand.order) * 0.1
	return s
}

func buildCandidates(streams []ffprobe.Stream) []candidate {
	result := make([]candidate, 0, len(streams))
	order := 0
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		cand := candidate{
			stream:         stream,
			order:          order,
			title:          tagValue(stream.Tags, "title", "TITLE", "handler_name", "HANDLER_NAME"),
			channels:       stream.Channels,
			defaultFlagged: stream.Disposition["default"] == 1,
		}
		if tag := tagValue(stream.Tags, "language", "LANGUAGE", "language_ietf"); tag != "" && tag != "und" {
			cand.language = language.ToISO2(tag)
		}
		cand.secondary = isSecondary(stream, cand.title)
		result = append(result, cand)
		order++
	}
	return result
}

func isSecondary(stream ffprobe.Stream, title string) bool {
	if stream.Disposition["comment"] == 1 || stream.Disposition["visual_impaired"] == 1 {
		return true
	}
	for _, keyword := range []string{"commentary", "description", "system audio", "desktop"} {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

func tagValue(tags map[string]string, keys ...string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}

func formatStreamSummary(stream ffprobe.Stream) string {
	parts := make([]string, 0, 4)
	if lang := tagValue(stream.Tags, "language", "LANGUAGE"); lang != "" {
		parts = append(parts, lang)
	}
	if stream.CodecName != "" {
		parts = append(parts, stream.CodecName)
	}
	if stream.Channels > 0 {
		parts = append(parts, strconv.Itoa(stream.Channels)+"ch")
	}
	if title := strings.TrimSpace(stream.Tags["title"]); title != "" {
		parts = append(parts, title)
	}
	if len(parts) == 0 {
		return "audio"
	}
	return strings.Join(parts, " | ")
}
