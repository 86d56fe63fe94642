package task

import (
	"fmt"

	internalstrings "github.com/windtask/windtask/internal/strings"
)

// State represents the lifecycle state of a task.
type State string

const (
	// StateTodo indicates the task has not been started.
	StateTodo State = "TODO"

	// StateActive indicates the task is being worked on.
	StateActive State = "ACTIVE"

	// StateDone indicates the task is finished. Done is not terminal; a
	// task may be reopened by setting it back to TODO or ACTIVE.
	StateDone State = "DONE"
)

// ValidStates returns all valid state values.
func ValidStates() []State {
	return []State{StateTodo, StateActive, StateDone}
}

// IsValid returns true if the state is a known valid value.
func (s State) IsValid() bool {
	for _, valid := range ValidStates() {
		if s == valid {
			return true
		}
	}
	return false
}

// normalizeStateInput uppercases the input and maps legacy aliases onto
// current state names.
func normalizeStateInput(input string) (State, error) {
	upper := State(internalstrings.NormalizeUpperTrimSpace(string(input)))
	switch upper {
	case "IN_DEV":
		return StateActive, nil
	case "FINISHED":
		return StateDone, nil
	}
	if !upper.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, input)
	}
	return upper, nil
}

// ContentFormat identifies the format of a task's long-form content.
type ContentFormat string

const (
	// FormatMarkdown is the default content format.
	FormatMarkdown ContentFormat = "markdown"

	// FormatText is plain text content.
	FormatText ContentFormat = "text"
)

// IsValid returns true if the format is a known valid value.
func (f ContentFormat) IsValid() bool {
	return f == FormatMarkdown || f == FormatText
}

func normalizeFormatInput(input string) (ContentFormat, error) {
	if input == "" {
		return FormatMarkdown, nil
	}
	format := ContentFormat(internalstrings.NormalizeLowerTrimSpace(input))
	if !format.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, input)
	}
	return format, nil
}

// CurrentTaskVersion is the snapshot schema version written by this store.
const CurrentTaskVersion = 1

// MaxTitleLength is the maximum allowed length for a task title.
const MaxTitleLength = 500

const (
	// DefaultMaxLogMessageLength caps appended log messages.
	DefaultMaxLogMessageLength = 2000

	// DefaultMaxContentBytes caps long-form content bodies. Oversized
	// bodies are rejected outright, never truncated.
	DefaultMaxContentBytes = 200_000
)
