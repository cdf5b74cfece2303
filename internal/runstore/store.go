package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"interviewlens/internal/config"
	"interviewlens/internal/evidence"
	"interviewlens/internal/pipeline"
)

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Record is one saved run. Bundle and Phases are populated by Get only.
type Record struct {
	ID                 int64
	RunID              string
	VideoPath          string
	Status             string
	DetectedLanguage   string
	StartedAt          time.Time
	FinishedAt         time.Time
	TranscriptSegments int
	Slides             int
	InterviewScore     *float64
	EvaluationError    string
	SavedAt            time.Time
	Phases             []pipeline.PhaseReport
	Bundle             *evidence.Bundle
}

// Duration is the wall-clock time the run took.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Open initializes or connects to the run history database at cfg.RunStorePath.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.RunStorePath())
}

// OpenPath opens the database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save records a completed run. Saving the same run id twice replaces the
// earlier record.
func (s *Store) Save(ctx context.Context, report pipeline.Report) (*Record, error) {
	if strings.TrimSpace(report.RunID) == "" {
		return nil, errors.New("save run: run id required")
	}
	bundleJSON, err := json.Marshal(report.Bundle)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	phasesJSON, err := json.Marshal(report.Phases)
	if err != nil {
		return nil, fmt.Errorf("marshal phases: %w", err)
	}
	score, evalErr := evaluationSummary(report.Bundle.Evaluation)

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            run_id, video_path, status, detected_language, started_at, finished_at,
            transcript_segments, slides, interview_score, evaluation_error,
            phases_json, bundle_json, saved_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id) DO UPDATE SET
            video_path = excluded.video_path,
            status = excluded.status,
            detected_language = excluded.detected_language,
            started_at = excluded.started_at,
            finished_at = excluded.finished_at,
            transcript_segments = excluded.transcript_segments,
            slides = excluded.slides,
            interview_score = excluded.interview_score,
            evaluation_error = excluded.evaluation_error,
            phases_json = excluded.phases_json,
            bundle_json = excluded.bundle_json,
            saved_at = excluded.saved_at`,
		report.RunID,
		report.Bundle.Meta.VideoPath,
		report.Bundle.Meta.Status,
		nullableString(report.Bundle.Meta.DetectedLanguage),
		formatTime(report.StartedAt),
		formatTime(report.FinishedAt),
		len(report.Bundle.Transcription),
		len(report.Bundle.VisualContext),
		nullableFloat(score),
		nullableString(evalErr),
		string(phasesJSON),
		string(bundleJSON),
		formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.Get(ctx, report.RunID)
}

const summaryColumns = `id, run_id, video_path, status, detected_language, started_at, finished_at,
    transcript_segments, slides, interview_score, evaluation_error, saved_at`

// List returns the most recent runs first. A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT ` + summaryColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Get fetches a run by id, accepting a unique prefix of the id. It returns
// nil when no run matches.
func (s *Store) Get(ctx context.Context, runID string) (*Record, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, errors.New("get run: run id required")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+summaryColumns+`, phases_json, bundle_json FROM runs
         WHERE run_id = ? OR run_id LIKE ? ESCAPE '\' ORDER BY run_id = ? DESC LIMIT 2`,
		runID, escapeLike(runID)+"%", runID)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Record
	for rows.Next() {
		var phasesJSON, bundleJSON sql.NullString
		record, err := scanSummary(rows, &phasesJSON, &bundleJSON)
		if err != nil {
			return nil, err
		}
		if phasesJSON.Valid && phasesJSON.String != "" {
			if err := json.Unmarshal([]byte(phasesJSON.String), &record.Phases); err != nil {
				return nil, fmt.Errorf("decode phases for %s: %w", record.RunID, err)
			}
		}
		var bundle evidence.Bundle
		if err := json.Unmarshal([]byte(bundleJSON.String), &bundle); err != nil {
			return nil, fmt.Errorf("decode bundle for %s: %w", record.RunID, err)
		}
		record.Bundle = &bundle
		matches = append(matches, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	switch {
	case len(matches) == 0:
		return nil, nil
	case len(matches) > 1 && matches[0].RunID != runID:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", runID)
	default:
		return &matches[0], nil
	}
}

// Remove deletes a run by exact id.
func (s *Store) Remove(ctx context.Context, runID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of saved runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// CheckHealth pings the database and runs an integrity check.
func (s *Store) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping run store: %w", err)
	}
	var result string
	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if !strings.EqualFold(result, "ok") {
		return fmt.Errorf("integrity check: %s", result)
	}
	return nil
}

func scanSummary(scanner interface{ Scan(dest ...any) error }, extra ...any) (Record, error) {
	var (
		record                      Record
		language, evalErr           sql.NullString
		started, finished, savedRaw string
		score                       sql.NullFloat64
	)
	dest := []any{
		&record.ID, &record.RunID, &record.VideoPath, &record.Status, &language,
		&started, &finished, &record.TranscriptSegments, &record.Slides,
		&score, &evalErr, &savedRaw,
	}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return Record{}, fmt.Errorf("scan run: %w", err)
	}
	record.DetectedLanguage = language.String
	record.EvaluationError = evalErr.String
	if score.Valid {
		value := score.Float64
		record.InterviewScore = &value
	}
	record.StartedAt, _ = parseTimeString(started)
	record.FinishedAt, _ = parseTimeString(finished)
	record.SavedAt, _ = parseTimeString(savedRaw)
	return record, nil
}

// evaluationSummary extracts the score or error from a judge evaluation.
func evaluationSummary(evaluation map[string]any) (*float64, string) {
	if evaluation == nil {
		return nil, ""
	}
	if msg, ok := evaluation["error"].(string); ok {
		return nil, msg
	}
	switch v := evaluation["interview_score"].(type) {
	case float64:
		return &v, ""
	case int:
		f := float64(v)
		return &f, ""
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f, ""
		}
	}
	return nil, ""
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
