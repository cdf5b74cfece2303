package judge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"interviewlens/internal/evidence"
	"interviewlens/internal/logging"
	"interviewlens/internal/services/llm"
)

// NoDataMessage is reported when neither transcript nor slides are available.
const NoDataMessage = "No data to evaluate"

// Completer sends a JSON-only prompt pair to a model.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// QAPair is the model's verdict on one identified question.
type QAPair struct {
	QuestionTopic          string `json:"question_topic"`
	SlideTextSnippet       string `json:"slide_text_snippet"`
	CandidateAnswerSummary string `json:"candidate_answer_summary"`
	Verdict                string `json:"verdict"`
	Explanation            string `json:"explanation"`
}

// Evaluation is the structured response requested from the model.
type Evaluation struct {
	InterviewScore int      `json:"interview_score"`
	Summary        string   `json:"summary"`
	QAPairs        []QAPair `json:"qa_pairs"`
}

// Judge evaluates bundles through a Completer.
type Judge struct {
	client Completer
	logger *slog.Logger
}

// New constructs a judge. A nil logger discards output.
func New(client Completer, logger *slog.Logger) *Judge {
	return &Judge{
		client: client,
		logger: logging.NewComponentLogger(logger, "judge"),
	}
}

// Evaluate scores the interview. The returned map is the model's JSON object
// on success, or {"error": message} when there was nothing to evaluate or the
// request failed.
func (j *Judge) Evaluate(ctx context.Context, transcript []evidence.TranscriptSegment, slides []evidence.CleanSlide) map[string]any {
	logger := logging.WithContext(ctx, j.logger)
	if len(transcript) == 0 && len(slides) == 0 {
		logger.Info("judge skipped", logging.String(logging.FieldEventType, "judge_no_data"))
		return map[string]any{"error": NoDataMessage}
	}
	if j.client == nil {
		return errorResult(errors.New("judge client not configured"))
	}

	start := time.Now()
	raw, err := j.client.CompleteJSON(ctx, systemPrompt, BuildPrompt(transcript, slides))
	if err != nil {
		logging.WarnWithContext(logger, "judge request failed", "judge_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check judge.api_key, judge.model and network access"),
			logging.String(logging.FieldImpact, "bundle carries an evaluation error instead of a score"),
		)
		return errorResult(err)
	}

	result, eval, err := decode(raw)
	if err != nil {
		logging.WarnWithContext(logger, "judge response unreadable", "judge_decode_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "bundle carries an evaluation error instead of a score"),
		)
		return errorResult(err)
	}
	logger.Info("interview evaluated",
		logging.String(logging.FieldEventType, "judge_complete"),
		logging.Int("interview_score", eval.InterviewScore),
		logging.Int("qa_pairs", len(eval.QAPairs)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result
}

// decode parses the payload both as a free-form object, which is what the
// bundle carries, and as an Evaluation for logging.
func decode(raw string) (map[string]any, Evaluation, error) {
	var result map[string]any
	if err := llm.DecodeJSON(raw, &result); err != nil {
		return nil, Evaluation{}, err
	}
	var eval Evaluation
	// A mistyped field only zeroes that field.
	if encoded, err := json.Marshal(result); err == nil {
		_ = json.Unmarshal(encoded, &eval)
	}
	return result, eval, nil
}

func errorResult(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}
