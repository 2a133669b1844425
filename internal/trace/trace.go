// Package trace persists solver runs: a JSONL progress log per run plus a
// summary document, stored under <baseDir>/runs/<runID>/. Run directories
// are self-contained and safe to copy or delete as a unit.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one solver progress sample, serialized as a JSON line in
// log.jsonl.
type Entry struct {
	// Fevals is the problem's evaluation count when the sample was taken
	Fevals uint64 `json:"fevals"`

	// Objective is the objective value at the sampled evaluation
	Objective float64 `json:"objective"`

	// Violated is the number of violated constraint rows
	Violated int `json:"violated"`

	// ViolationNorm is the L2 norm of the constraint violations
	ViolationNorm float64 `json:"violationNorm"`

	// Feasible reports whether the sampled point satisfied all constraints
	Feasible bool `json:"feasible"`

	// Timestamp records when this entry was written
	Timestamp time.Time `json:"timestamp"`
}

// NewRunID returns a fresh unique run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// RunDir returns the directory that holds all artifacts of a run.
func RunDir(baseDir, runID string) string {
	return filepath.Join(baseDir, "runs", runID)
}

// Writer writes progress entries to a run's JSONL log. It uses buffered
// I/O and is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string
}

// NewWriter creates the run directory and the log file at
// <baseDir>/runs/<runID>/log.jsonl, truncating any previous log.
func NewWriter(baseDir, runID string) (*Writer, error) {
	runDir := RunDir(baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	path := filepath.Join(runDir, "log.jsonl")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Writer{
		file:   file,
		writer: bufio.NewWriterSize(file, 64*1024),
		path:   path,
	}, nil
}

// Write appends an entry to the log. The entry is buffered and reaches the
// file on Flush() or Close().
func (w *Writer) Write(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// Flush writes buffered data through to disk.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush log writer: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	return nil
}

// Close flushes buffered data and closes the log file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the log file.
func (w *Writer) Path() string {
	return w.path
}

// Reader reads progress entries back from a run's log.
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
}

// NewReader opens the log of the given run.
func NewReader(baseDir, runID string) (*Reader, error) {
	path := filepath.Join(RunDir(baseDir, runID), "log.jsonl")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{RunID: runID}
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Reader{file: file, scanner: scanner}, nil
}

// Read returns the next entry, or io.EOF after the last one.
func (r *Reader) Read() (*Entry, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan log line: %w", err)
		}
		return nil, io.EOF
	}

	var entry Entry
	if err := json.Unmarshal(r.scanner.Bytes(), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal log entry: %w", err)
	}
	return &entry, nil
}

// ReadAll reads every remaining entry.
func (r *Reader) ReadAll() ([]Entry, error) {
	var entries []Entry
	for {
		entry, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Close closes the reader.
func (r *Reader) Close() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
