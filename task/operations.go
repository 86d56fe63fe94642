package task

import (
	"fmt"
	"os"
	"time"

	"github.com/windtask/windtask/internal/ids"
)

// MutationOptions carries the caller identity and concurrency token required
// by every mutation.
type MutationOptions struct {
	// ExpectedLastSeq is the caller's belief about the task's current
	// last_event_seq. A mismatch fails the mutation with ErrConflict.
	ExpectedLastSeq int `json:"expected_last_seq"`

	// Actor identifies who performed the mutation, e.g. "agent:llm" or
	// "human:amy".
	Actor string `json:"actor"`
}

// Create creates a new task in TODO with the given title and optional
// summary, assigning a fresh ID and recording a created event with seq 1.
func (s *Store) Create(title, summary, actor string) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	id := ids.New(now)
	if err := os.MkdirAll(s.taskDir(id), 0o755); err != nil {
		return nil, fmt.Errorf("create task dir: %w", err)
	}

	event := newEvent(1, now, actor, CreatedPayload{Title: title, Summary: summary})
	created := &Task{ID: id}
	if err := apply(created, event); err != nil {
		return nil, err
	}

	if err := s.appendEvent(id, event); err != nil {
		return nil, err
	}
	if err := s.writeSnapshot(created); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns the current snapshot for a task ID or unique ID prefix.
func (s *Store) Get(id string) (*Task, error) {
	resolved, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	return s.readSnapshot(resolved)
}

// mutate runs one read-compare-append-write sequence under the store mutex.
//
// The archived check runs before the expected-seq comparison, matching the
// control path for every mutation except unarchive. buildPayload returns the
// single event payload to record, or nil to signal a no-op that returns the
// unchanged task without appending anything.
func (s *Store) mutate(id string, opts MutationOptions, checkArchived bool, buildPayload func(t *Task, now time.Time) (EventPayload, error)) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.readSnapshot(id)
	if err != nil {
		return nil, err
	}
	if checkArchived && snapshot.Archived() {
		return nil, fmt.Errorf("%w: %s", ErrArchived, id)
	}
	if snapshot.LastEventSeq != opts.ExpectedLastSeq {
		return nil, fmt.Errorf("%w: expected %d, current %d", ErrConflict, opts.ExpectedLastSeq, snapshot.LastEventSeq)
	}

	now := s.now().UTC()
	payload, err := buildPayload(snapshot, now)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return snapshot, nil
	}

	event := newEvent(snapshot.LastEventSeq+1, now, opts.Actor, payload)
	if err := apply(snapshot, event); err != nil {
		return nil, err
	}

	// Log first: it is the source of truth. A failure after the append
	// leaves the snapshot stale, which is recoverable by replay.
	if err := s.appendEvent(id, event); err != nil {
		return nil, err
	}
	if err := s.writeSnapshot(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Retitle changes the task's title.
func (s *Store) Retitle(id, title string, opts MutationOptions) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	return s.mutate(id, opts, true, func(t *Task, now time.Time) (EventPayload, error) {
		return RetitledPayload{Title: title}, nil
	})
}

// SetState transitions the task to the given state. A transition to the
// current state is a no-op: it produces no event and returns the task
// unchanged.
func (s *Store) SetState(id, stateInput string, opts MutationOptions) (*Task, error) {
	return s.mutate(id, opts, true, func(t *Task, now time.Time) (EventPayload, error) {
		to, err := normalizeStateInput(stateInput)
		if err != nil {
			return nil, err
		}
		if t.State == to {
			return nil, nil
		}
		return StateChangedPayload{From: t.State, To: to}, nil
	})
}

// SetSummary sets or replaces the task's summary.
func (s *Store) SetSummary(id, summary string, opts MutationOptions) (*Task, error) {
	return s.mutate(id, opts, true, func(t *Task, now time.Time) (EventPayload, error) {
		return SummarySetPayload{Summary: summary}, nil
	})
}

// AppendLog appends a bounded free-form message to the task's history.
func (s *Store) AppendLog(id, message string, opts MutationOptions) (*Task, error) {
	if len(message) > s.maxLogMessageLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLong, len(message), s.maxLogMessageLength)
	}
	return s.mutate(id, opts, true, func(t *Task, now time.Time) (EventPayload, error) {
		return LogAppendedPayload{Message: message}, nil
	})
}

// SetContent replaces the task's long-form content body. Oversized bodies are
// rejected before anything touches disk. The recorded event carries the byte
// length and format only; the body lives in the content file.
func (s *Store) SetContent(id, body, formatInput string, opts MutationOptions) (*Task, error) {
	if len(body) > s.maxContentBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrContentTooLarge, len(body), s.maxContentBytes)
	}
	format, err := normalizeFormatInput(formatInput)
	if err != nil {
		return nil, err
	}
	return s.mutate(id, opts, true, func(t *Task, now time.Time) (EventPayload, error) {
		if err := os.WriteFile(s.contentPath(t.ID), []byte(body), 0o644); err != nil {
			return nil, fmt.Errorf("write content %s: %w", t.ID, err)
		}
		return ContentSetPayload{Bytes: len(body), Format: format}, nil
	})
}

// ReadContent returns the task's long-form content. A task that has never had
// content set yields an empty body with the default format rather than an
// error.
func (s *Store) ReadContent(id string) (string, ContentFormat, error) {
	resolved, err := s.Resolve(id)
	if err != nil {
		return "", "", err
	}
	snapshot, err := s.readSnapshot(resolved)
	if err != nil {
		return "", "", err
	}

	body, err := os.ReadFile(s.contentPath(resolved))
	if os.IsNotExist(err) {
		return "", FormatMarkdown, nil
	}
	if err != nil {
		return "", "", fmt.Errorf("read content %s: %w", id, err)
	}

	format := snapshot.ContentFormat
	if format == "" {
		format = FormatMarkdown
	}
	return string(body), format, nil
}

// Archive freezes the task with an optional reason. While frozen, every
// mutation except Unarchive fails with ErrArchived.
func (s *Store) Archive(id, reason string, opts MutationOptions) (*Task, error) {
	return s.mutate(id, opts, true, func(t *Task, now time.Time) (EventPayload, error) {
		return ArchivedPayload{Reason: reason}, nil
	})
}

// Unarchive clears the task's freeze. Unarchiving a task that isn't archived
// is a no-op at the state level, but the expected-seq check still applies —
// unlike SetState's same-state no-op, which is asymmetric by design.
func (s *Store) Unarchive(id string, opts MutationOptions) (*Task, error) {
	return s.mutate(id, opts, false, func(t *Task, now time.Time) (EventPayload, error) {
		if !t.Archived() {
			return nil, nil
		}
		return UnarchivedPayload{}, nil
	})
}
