package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Summary captures the outcome of one solve run. It is written once, after
// the run finished, as summary.json in the run directory.
type Summary struct {
	// RunID is the unique identifier of this run
	RunID string `json:"runId"`

	// Problem is the name of the solved problem
	Problem string `json:"problem"`

	// Library is the path of the solver library that ran the solve
	Library string `json:"library"`

	// Status is the solver's numeric terminal status
	Status int `json:"status"`

	// StatusText is the human-readable classification of Status
	StatusText string `json:"statusText"`

	// Succeeded reports whether the terminal status is a success code
	Succeeded bool `json:"succeeded"`

	// Objective is the champion objective value after the run
	Objective float64 `json:"objective"`

	// Feasible reports whether the champion satisfies all constraints
	Feasible bool `json:"feasible"`

	// Fevals is the total number of fitness evaluations spent
	Fevals uint64 `json:"fevals"`

	// StartTime and EndTime bracket the solve
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Validate checks that the summary carries the required fields.
func (s *Summary) Validate() error {
	if s.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if s.Problem == "" {
		return &ValidationError{Field: "Problem", Reason: "cannot be empty"}
	}
	if s.Library == "" {
		return &ValidationError{Field: "Library", Reason: "cannot be empty"}
	}
	if s.StartTime.IsZero() {
		return &ValidationError{Field: "StartTime", Reason: "cannot be zero"}
	}
	if s.EndTime.Before(s.StartTime) {
		return &ValidationError{Field: "EndTime", Reason: "cannot precede StartTime"}
	}
	return nil
}

// ValidationError represents an invalid summary field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "run not found: " + e.RunID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

func summaryPath(baseDir, runID string) string {
	return filepath.Join(RunDir(baseDir, runID), "summary.json")
}

// SaveSummary validates and atomically writes the summary into its run
// directory, using a temp file and rename so a crash never leaves a
// half-written document.
func SaveSummary(baseDir string, s *Summary) error {
	if s == nil {
		return fmt.Errorf("summary cannot be nil")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	runDir := RunDir(baseDir, s.RunID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	finalPath := summaryPath(baseDir, s.RunID)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp summary file: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename summary file: %w", err)
	}

	slog.Debug("Summary saved", "runID", s.RunID, "path", finalPath)
	return nil
}

// LoadSummary reads the summary of the given run.
func LoadSummary(baseDir, runID string) (*Summary, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}

	path := summaryPath(baseDir, runID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{RunID: runID}
		}
		return nil, fmt.Errorf("failed to read summary file: %w", err)
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to deserialize summary: %w", err)
	}
	return &s, nil
}

// ListRuns returns the summaries of all recorded runs. Run directories
// without a summary are skipped, as are summaries that fail to parse.
func ListRuns(baseDir string) ([]Summary, error) {
	runsDir := filepath.Join(baseDir, "runs")
	if _, err := os.Stat(runsDir); os.IsNotExist(err) {
		return []Summary{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat runs directory: %w", err)
	}

	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var summaries []Summary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		s, err := LoadSummary(baseDir, entry.Name())
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				slog.Warn("Failed to load summary for listing", "runID", entry.Name(), "error", err)
			}
			continue
		}
		summaries = append(summaries, *s)
	}

	slog.Debug("Listed runs", "count", len(summaries))
	return summaries, nil
}

// DeleteRun removes a run directory with all its artifacts.
func DeleteRun(baseDir, runID string) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	runDir := RunDir(baseDir, runID)
	if _, err := os.Stat(runDir); os.IsNotExist(err) {
		return &NotFoundError{RunID: runID}
	} else if err != nil {
		return fmt.Errorf("failed to stat run directory: %w", err)
	}

	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("failed to remove run directory: %w", err)
	}

	slog.Debug("Run deleted", "runID", runID, "path", runDir)
	return nil
}
