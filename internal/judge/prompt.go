package judge

import (
	"fmt"
	"strings"

	"interviewlens/internal/evidence"
)

const systemPrompt = `You are a technical interview judge. You evaluate a candidate's performance from the slides shown during a recorded interview and the transcript of what was said.

Instructions:
1. Use the slides to identify the interview questions or topics.
2. Match the candidate's spoken answers to those questions using timestamps and context.
3. Evaluate the technical accuracy of each answer.
4. Ignore small talk, silence, and slides that are only titles or intros without a question.

Respond with a single JSON object and nothing else:
{
  "interview_score": <integer 1-10>,
  "summary": "<general feedback about the candidate>",
  "qa_pairs": [
    {
      "question_topic": "<topic inferred from the slide>",
      "slide_text_snippet": "<key text from the slide>",
      "candidate_answer_summary": "<summary of what the candidate said>",
      "verdict": "<Correct | Partial | Wrong | Unknown>",
      "explanation": "<why this verdict>"
    }
  ]
}`

// BuildPrompt renders the evidence the model reads. Slides come first since
// they carry the questions.
func BuildPrompt(transcript []evidence.TranscriptSegment, slides []evidence.CleanSlide) string {
	var b strings.Builder
	b.WriteString("VISUAL CONTEXT (slides detected on screen):\n")
	if len(slides) == 0 {
		b.WriteString("(none)\n")
	}
	for _, s := range slides {
		b.WriteString(slideLine(s))
		b.WriteString("\nCONTENT: ")
		b.WriteString(s.Text)
		b.WriteString("\n\n")
	}

	b.WriteString("\nAUDIO TRANSCRIPT (candidate's answers):\n")
	if len(transcript) == 0 {
		b.WriteString("(none)\n")
	}
	for _, seg := range transcript {
		fmt.Fprintf(&b, "[%.1fs - %.1fs]: %s\n", seg.Start, seg.End, seg.Text)
	}
	return b.String()
}

func slideLine(s evidence.CleanSlide) string {
	if s.FrameIndex == nil {
		return fmt.Sprintf("Slide at %.1fs:", s.TimestampSec)
	}
	return fmt.Sprintf("Slide at %.1fs (Frame %d):", s.TimestampSec, *s.FrameIndex)
}
