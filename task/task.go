// Package task implements a durable, append-only task tracker backed by the
// local filesystem.
//
// Each task owns one directory under the store's base directory, named by the
// task id. The directory holds a snapshot file (the task's current state), an
// append-only event log (one JSON record per line), and an optional long-form
// content file. The log is the source of truth; the snapshot is a cached fold
// of the log and is rewritten wholesale on every accepted mutation.
//
// Mutations use optimistic concurrency: every call carries the caller's
// expected last event sequence number, and stale writes are rejected with
// ErrConflict. Conflicted callers must re-read and resubmit; the store never
// retries on their behalf.
package task

import "time"

// Task is the materialized current state of a single tracked unit of work.
type Task struct {
	// ID is a unique, time-sortable identifier assigned at creation.
	ID string `json:"id"`

	// Title is a short description of the task.
	Title string `json:"title"`

	// State is the current lifecycle state (TODO, ACTIVE, DONE).
	State State `json:"state"`

	// Summary is optional short free text.
	Summary string `json:"summary,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt advances on every accepted mutation.
	UpdatedAt time.Time `json:"updated_at"`

	// ArchivedAt is set while the task is frozen (nil otherwise).
	ArchivedAt *time.Time `json:"archived_at,omitempty"`

	// ContentUpdatedAt is when the long-form content was last set.
	ContentUpdatedAt *time.Time `json:"content_updated_at,omitempty"`

	// ContentFormat is the format of the long-form content.
	ContentFormat ContentFormat `json:"content_format,omitempty"`

	// LastEventSeq equals the seq of the most recent event in the task's
	// log. It doubles as the optimistic concurrency token.
	LastEventSeq int `json:"last_event_seq"`

	// Version is the snapshot schema version.
	Version int `json:"version"`
}

// Archived reports whether the task is frozen.
func (t *Task) Archived() bool {
	return t.ArchivedAt != nil
}
