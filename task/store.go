package task

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/windtask/windtask/internal/ids"
)

const (
	// SnapshotFile is the name of the per-task snapshot file.
	SnapshotFile = "task.json"

	// EventsFile is the name of the per-task append-only event log.
	EventsFile = "events.jsonl"

	// ContentFile is the name of the per-task long-form content file.
	ContentFile = "content.md"

	maxJSONLineBytes = 1024 * 1024
)

// Store provides access to the tasks rooted at a single base directory.
//
// A store-level mutex serializes each mutation's read-compare-append-write
// sequence, so per-task mutations within one process cannot interleave. There
// is no cross-process or cross-host locking: two separate processes mutating
// the same task can both pass the concurrency gate and append colliding seqs.
// Run a single store process per task namespace.
type Store struct {
	baseDir             string
	maxLogMessageLength int
	maxContentBytes     int

	mu  sync.Mutex
	now func() time.Time
}

// Options configures a store.
type Options struct {
	// BaseDir is the directory holding one subdirectory per task.
	BaseDir string

	// MaxLogMessageLength caps appended log messages.
	// Defaults to DefaultMaxLogMessageLength.
	MaxLogMessageLength int

	// MaxContentBytes caps long-form content bodies.
	// Defaults to DefaultMaxContentBytes.
	MaxContentBytes int
}

// Open opens the store rooted at opts.BaseDir, creating the directory if it
// doesn't exist.
func Open(opts Options) (*Store, error) {
	if opts.BaseDir == "" {
		return nil, fmt.Errorf("base dir is required")
	}
	if err := os.MkdirAll(opts.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir: %w", err)
	}

	maxLogMessageLength := opts.MaxLogMessageLength
	if maxLogMessageLength <= 0 {
		maxLogMessageLength = DefaultMaxLogMessageLength
	}
	maxContentBytes := opts.MaxContentBytes
	if maxContentBytes <= 0 {
		maxContentBytes = DefaultMaxContentBytes
	}

	return &Store{
		baseDir:             opts.BaseDir,
		maxLogMessageLength: maxLogMessageLength,
		maxContentBytes:     maxContentBytes,
		now:                 time.Now,
	}, nil
}

// BaseDir returns the directory the store is rooted at.
func (s *Store) BaseDir() string {
	return s.baseDir
}

func (s *Store) taskDir(id string) string {
	return filepath.Join(s.baseDir, id)
}

func (s *Store) snapshotPath(id string) string {
	return filepath.Join(s.taskDir(id), SnapshotFile)
}

func (s *Store) eventsPath(id string) string {
	return filepath.Join(s.taskDir(id), EventsFile)
}

func (s *Store) contentPath(id string) string {
	return filepath.Join(s.taskDir(id), ContentFile)
}

// readSnapshot loads the current snapshot for a task.
func (s *Store) readSnapshot(id string) (*Task, error) {
	data, err := os.ReadFile(s.snapshotPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", id, err)
	}

	var snapshot Task
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", id, err)
	}
	return &snapshot, nil
}

// writeSnapshot overwrites the task's snapshot file with the full current
// state. The write goes to a temp file first and is renamed into place, so a
// crash mid-write cannot leave a torn snapshot.
func (s *Store) writeSnapshot(t *Task) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", t.ID, err)
	}

	path := s.snapshotPath(t.ID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp snapshot: %w", err)
	}
	return nil
}

// appendEvent writes one line-delimited record to the task's log. Prior
// records are never rewritten; the log only grows.
func (s *Store) appendEvent(id string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	f, err := os.OpenFile(s.eventsPath(id), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open event log %s: %w", id, err)
	}

	_, writeErr := f.Write(append(data, '\n'))
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return fmt.Errorf("append event %s: %w", id, err)
	}
	return nil
}

// PageOptions selects a slice of a task's event log.
type PageOptions struct {
	// AfterSeq filters to events with seq > AfterSeq (exclusive).
	// Zero returns the log from the beginning.
	AfterSeq int `json:"after_seq,omitempty"`

	// Limit keeps only the most recent Limit events after filtering.
	// Zero means no limit.
	Limit int `json:"limit,omitempty"`
}

// ReadLog returns events from the task's log in seq order. It fails with
// ErrTaskNotFound if the log is absent.
func (s *Store) ReadLog(id string, opts PageOptions) ([]Event, error) {
	resolved, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.eventsPath(resolved))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("open event log %s: %w", id, err)
	}
	defer f.Close()

	events, err := readEvents(f)
	if err != nil {
		return nil, fmt.Errorf("read event log %s: %w", id, err)
	}

	if opts.AfterSeq > 0 {
		filtered := events[:0]
		for _, event := range events {
			if event.Seq > opts.AfterSeq {
				filtered = append(filtered, event)
			}
		}
		events = filtered
	}
	if opts.Limit > 0 && len(events) > opts.Limit {
		events = events[len(events)-opts.Limit:]
	}

	return events, nil
}

func readEvents(reader io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log: %w", err)
	}

	return events, nil
}

// taskIDs lists the task IDs present under the base directory.
func (s *Store) taskIDs() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read base dir: %w", err)
	}

	taskIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		taskIDs = append(taskIDs, entry.Name())
	}
	return taskIDs, nil
}

// Resolve expands a task ID or unique ID prefix to a full task ID. Exact
// matches win; otherwise a single case-insensitive prefix match is accepted.
func (s *Store) Resolve(idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrTaskNotFound)
	}
	if _, err := os.Stat(s.taskDir(idOrPrefix)); err == nil {
		return idOrPrefix, nil
	}

	taskIDs, err := s.taskIDs()
	if err != nil {
		return "", err
	}
	matchID, matched, ambiguous := ids.MatchPrefix(taskIDs, idOrPrefix)
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousIDPrefix, idOrPrefix)
	}
	if !matched {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, idOrPrefix)
	}
	return matchID, nil
}
