package evidence

// StatusCompleted is the only status a returned bundle carries. Degraded
// phases are visible through empty sections, not through the status.
const StatusCompleted = "completed"

// TranscriptSegment is one utterance window from the transcription engine.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the transcription engine's output for one session.
type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
	// Language is the detected ISO 639-1 code, empty when unknown.
	Language string `json:"language"`
}

// SlideCandidate is a detected visual change point.
type SlideCandidate struct {
	FrameIndex   int     `json:"frame_index"`
	TimestampSec float64 `json:"timestamp_sec"`
	ChangeRatio  float64 `json:"change_ratio"`
}

// RawSlideText is unfiltered recognized text from one candidate frame.
type RawSlideText struct {
	TimestampSec float64 `json:"timestamp"`
	FrameIndex   int     `json:"frame_index"`
	Text         string  `json:"ocr_text"`
}

// CleanSlide is a deduplicated, noise-filtered slide entry.
type CleanSlide struct {
	TimestampSec float64 `json:"timestamp"`
	Text         string  `json:"text"`
	FrameIndex   *int    `json:"frame_index,omitempty"`
}

// Meta describes the run that produced a bundle.
type Meta struct {
	VideoPath        string `json:"video_path"`
	Status           string `json:"status"`
	DetectedLanguage string `json:"detected_language"`
}

// Bundle is the consolidated output of one pipeline run.
type Bundle struct {
	Meta          Meta                `json:"meta"`
	Transcription []TranscriptSegment `json:"transcription"`
	VisualContext []CleanSlide        `json:"visual_context"`
	Evaluation    map[string]any      `json:"ai_evaluation,omitempty"`
}

// NewBundle builds a completed bundle with non-nil sections so empty phases
// serialize as [] rather than null.
func NewBundle(videoPath, language string, transcript []TranscriptSegment, slides []CleanSlide) Bundle {
	if transcript == nil {
		transcript = []TranscriptSegment{}
	}
	if slides == nil {
		slides = []CleanSlide{}
	}
	return Bundle{
		Meta: Meta{
			VideoPath:        videoPath,
			Status:           StatusCompleted,
			DetectedLanguage: language,
		},
		Transcription: transcript,
		VisualContext: slides,
	}
}

// Degraded reports whether either evidence channel came back empty.
func (b Bundle) Degraded() bool {
	return len(b.Transcription) == 0 || len(b.VisualContext) == 0
}

// FrameRef returns a pointer to a copy of idx for use in CleanSlide.
func FrameRef(idx int) *int {
	return &idx
}
