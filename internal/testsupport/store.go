package testsupport

import (
	"context"
	"testing"
	"time"

	"interviewlens/internal/config"
	"interviewlens/internal/evidence"
	"interviewlens/internal/pipeline"
	"interviewlens/internal/runstore"
)

// MustOpenStore opens a runstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewReport builds a completed run report with one transcript segment and
// one slide, started at the given time.
func NewReport(runID, videoPath string, started time.Time) pipeline.Report {
	bundle := evidence.NewBundle(videoPath, "en",
		[]evidence.TranscriptSegment{{Start: 0, End: 1.5, Text: "hello"}},
		[]evidence.CleanSlide{{TimestampSec: 0, Text: "Q: what is a hash table?", FrameIndex: evidence.FrameRef(0)}},
	)
	return pipeline.Report{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Phases: []pipeline.PhaseReport{
			{Name: pipeline.PhaseTranscription, Outcome: "data", Count: 1},
		},
		Bundle: bundle,
	}
}

// MustSave saves report and fails the test on error.
func MustSave(t testing.TB, store *runstore.Store, report pipeline.Report) *runstore.Record {
	t.Helper()

	record, err := store.Save(context.Background(), report)
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return record
}
