package runstore_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"interviewlens/internal/runstore"
	"interviewlens/internal/testsupport"
)

func TestSaveAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	report := testsupport.NewReport("7f3c9a10-0000-4000-8000-000000000001", "/videos/interview.mp4", started)
	report.Bundle.Evaluation = map[string]any{"interview_score": 8.0, "summary": "good"}

	saved := testsupport.MustSave(t, store, report)
	if saved.ID == 0 {
		t.Fatal("expected row id to be assigned")
	}

	record, err := store.Get(ctx, report.RunID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record == nil {
		t.Fatal("expected record")
	}
	if record.VideoPath != "/videos/interview.mp4" || record.Status != "completed" || record.DetectedLanguage != "en" {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.TranscriptSegments != 1 || record.Slides != 1 {
		t.Fatalf("unexpected counts %+v", record)
	}
	if record.InterviewScore == nil || *record.InterviewScore != 8 {
		t.Fatalf("unexpected score %v", record.InterviewScore)
	}
	if !record.StartedAt.Equal(started) || record.Duration() != 90*time.Second {
		t.Fatalf("unexpected timing %v %v", record.StartedAt, record.Duration())
	}
	if record.Bundle == nil || len(record.Bundle.VisualContext) != 1 || record.Bundle.Evaluation["summary"] != "good" {
		t.Fatalf("bundle not round-tripped: %+v", record.Bundle)
	}
	if len(record.Phases) != 1 || record.Phases[0].Name != "transcription" {
		t.Fatalf("phases not round-tripped: %+v", record.Phases)
	}
}

func TestGetByPrefixAndMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	now := time.Now()

	testsupport.MustSave(t, store, testsupport.NewReport("abc12345-one", "/v/a.mp4", now))
	testsupport.MustSave(t, store, testsupport.NewReport("abc99999-two", "/v/b.mp4", now))

	record, err := store.Get(ctx, "abc12")
	if err != nil {
		t.Fatalf("Get prefix: %v", err)
	}
	if record == nil || record.RunID != "abc12345-one" {
		t.Fatalf("unexpected prefix match %+v", record)
	}
	if _, err := store.Get(ctx, "abc"); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
	missing, err := store.Get(ctx, "zzz")
	if err != nil || missing != nil {
		t.Fatalf("expected nil record for missing run, got %+v, %v", missing, err)
	}
}

func TestSaveReplacesSameRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	report := testsupport.NewReport("run-1", "/v/a.mp4", time.Now())
	testsupport.MustSave(t, store, report)
	report.Bundle.Evaluation = map[string]any{"error": "No data to evaluate"}
	testsupport.MustSave(t, store, report)

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one run, got %d", count)
	}
	record, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.EvaluationError != "No data to evaluate" || record.InterviewScore != nil {
		t.Fatalf("unexpected evaluation summary %+v", record)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		testsupport.MustSave(t, store, testsupport.NewReport(id, "/v/x.mp4", base.Add(time.Duration(i)*time.Hour)))
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].RunID != "run-c" || all[2].RunID != "run-a" {
		t.Fatalf("unexpected order %+v", all)
	}
	if all[0].Bundle != nil {
		t.Fatal("List should not load bundles")
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(limited))
	}
}

func TestRemoveAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustSave(t, store, testsupport.NewReport("run-x", "/v/x.mp4", time.Now()))
	removed, err := store.Remove(ctx, "run-x")
	if err != nil || !removed {
		t.Fatalf("Remove: %v %v", removed, err)
	}
	removed, err = store.Remove(ctx, "run-x")
	if err != nil || removed {
		t.Fatalf("second Remove: %v %v", removed, err)
	}
	if err := store.CheckHealth(ctx); err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if store.Path() != cfg.RunStorePath() {
		t.Fatalf("unexpected path %q", store.Path())
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := runstore.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := runstore.OpenPath(path); !errors.Is(err, runstore.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestSaveRequiresRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if _, err := store.Save(context.Background(), testsupport.NewReport("", "/v/x.mp4", time.Now())); err == nil {
		t.Fatal("expected error for empty run id")
	}
}
