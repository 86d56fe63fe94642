package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTaskNotFound is returned when a task with the given ID doesn't
	// exist on disk.
	ErrTaskNotFound = errors.New("task not found")

	// ErrConflict is returned when a mutation's expected last seq does not
	// match the task's current last seq. The caller must re-read the task
	// and resubmit; the store never retries on its own.
	ErrConflict = errors.New("expected seq does not match current seq")

	// ErrArchived is returned when a mutation other than unarchive targets
	// a frozen task.
	ErrArchived = errors.New("task is archived")

	// ErrInvalidState is returned when an unknown state name is provided.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidFormat is returned when an unknown content format is provided.
	ErrInvalidFormat = errors.New("invalid content format")

	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrMessageTooLong is returned when a log message exceeds the
	// configured maximum length.
	ErrMessageTooLong = errors.New("log message exceeds maximum length")

	// ErrContentTooLarge is returned when a content body exceeds the
	// configured maximum size.
	ErrContentTooLarge = errors.New("content exceeds maximum size")

	// ErrAmbiguousIDPrefix is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousIDPrefix = errors.New("ambiguous task ID prefix")

	// ErrUnknownEventType is returned when a log record carries an
	// unrecognized event kind.
	ErrUnknownEventType = errors.New("unknown event type")
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// IsValidation reports whether err is one of the input-validation errors, as
// opposed to a not-found, conflict, or archived signal.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrMessageTooLong) ||
		errors.Is(err, ErrContentTooLarge)
}
