package trace

import (
	"errors"
	"os"
	"testing"
	"time"
)

func testSummary(runID string) *Summary {
	start := time.Now().Add(-time.Minute).Truncate(time.Second)
	return &Summary{
		RunID:      runID,
		Problem:    "corner",
		Library:    "/usr/local/lib/libworhp.so",
		Status:     1,
		StatusText: "success (1)",
		Succeeded:  true,
		Objective:  12.5,
		Feasible:   true,
		Fevals:     42,
		StartTime:  start,
		EndTime:    start.Add(30 * time.Second),
	}
}

func TestSummary_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	summary := testSummary("run-roundtrip")

	if err := SaveSummary(tmpDir, summary); err != nil {
		t.Fatalf("Failed to save summary: %v", err)
	}

	loaded, err := LoadSummary(tmpDir, summary.RunID)
	if err != nil {
		t.Fatalf("Failed to load summary: %v", err)
	}
	if loaded.RunID != summary.RunID {
		t.Errorf("Expected run ID %s, got %s", summary.RunID, loaded.RunID)
	}
	if loaded.Problem != summary.Problem {
		t.Errorf("Expected problem %s, got %s", summary.Problem, loaded.Problem)
	}
	if loaded.Status != summary.Status {
		t.Errorf("Expected status %d, got %d", summary.Status, loaded.Status)
	}
	if loaded.Objective != summary.Objective {
		t.Errorf("Expected objective %f, got %f", summary.Objective, loaded.Objective)
	}
	if loaded.Fevals != summary.Fevals {
		t.Errorf("Expected fevals %d, got %d", summary.Fevals, loaded.Fevals)
	}
	if !loaded.Feasible || !loaded.Succeeded {
		t.Errorf("Expected feasible successful run, got %+v", loaded)
	}
	if !loaded.StartTime.Equal(summary.StartTime) {
		t.Errorf("Expected start time %v, got %v", summary.StartTime, loaded.StartTime)
	}
}

func TestSummary_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Summary)
		field  string
	}{
		{"valid", func(s *Summary) {}, ""},
		{"missing run ID", func(s *Summary) { s.RunID = "" }, "RunID"},
		{"missing problem", func(s *Summary) { s.Problem = "" }, "Problem"},
		{"missing library", func(s *Summary) { s.Library = "" }, "Library"},
		{"zero start time", func(s *Summary) { s.StartTime = time.Time{} }, "StartTime"},
		{"end before start", func(s *Summary) { s.EndTime = s.StartTime.Add(-time.Second) }, "EndTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := testSummary("run-validate")
			tt.mutate(summary)
			err := summary.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Expected valid summary, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}
}

func TestSaveSummary_RejectsInvalid(t *testing.T) {
	summary := testSummary("")
	if err := SaveSummary(t.TempDir(), summary); err == nil {
		t.Fatal("Expected error for summary without a run ID")
	}
}

func TestLoadSummary_Missing(t *testing.T) {
	_, err := LoadSummary(t.TempDir(), "no-such-run")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	tmpDir := t.TempDir()

	// A base directory that was never written to lists cleanly.
	runs, err := ListRuns(tmpDir)
	if err != nil {
		t.Fatalf("Failed to list empty directory: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("Expected no runs, got %d", len(runs))
	}

	for _, id := range []string{"run-a", "run-b"} {
		if err := SaveSummary(tmpDir, testSummary(id)); err != nil {
			t.Fatalf("Failed to save summary %s: %v", id, err)
		}
	}

	// A run directory holding only a log must not break the listing.
	writer, err := NewWriter(tmpDir, "run-log-only")
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	runs, err = ListRuns(tmpDir)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	seen := map[string]bool{}
	for _, run := range runs {
		seen[run.RunID] = true
	}
	if !seen["run-a"] || !seen["run-b"] {
		t.Errorf("Expected run-a and run-b, got %v", seen)
	}
}

func TestDeleteRun(t *testing.T) {
	tmpDir := t.TempDir()
	summary := testSummary("run-delete")

	if err := SaveSummary(tmpDir, summary); err != nil {
		t.Fatalf("Failed to save summary: %v", err)
	}
	if err := DeleteRun(tmpDir, summary.RunID); err != nil {
		t.Fatalf("Failed to delete run: %v", err)
	}
	if _, err := os.Stat(RunDir(tmpDir, summary.RunID)); !os.IsNotExist(err) {
		t.Fatalf("Expected run directory to be removed, stat returned %v", err)
	}
	if err := DeleteRun(tmpDir, summary.RunID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for second delete, got %v", err)
	}
}
