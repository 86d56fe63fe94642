package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies the kind of fact an event records.
type EventType string

const (
	EventCreated      EventType = "created"
	EventRetitled     EventType = "retitled"
	EventStateChanged EventType = "state_changed"
	EventSummarySet   EventType = "summary_set"
	EventContentSet   EventType = "content_set"
	EventLogAppended  EventType = "log_appended"
	EventArchived     EventType = "archived"
	EventUnarchived   EventType = "unarchived"
)

// Event is one immutable fact in a task's log. Seq is contiguous from 1 and
// strictly increases by one per accepted mutation; events are never edited or
// removed once appended.
type Event struct {
	Seq     int          `json:"seq"`
	Type    EventType    `json:"type"`
	At      time.Time    `json:"at"`
	Actor   string       `json:"actor"`
	Payload EventPayload `json:"payload"`
}

// EventPayload is the kind-specific payload carried by an event. The
// concrete type always corresponds to the event's Type field.
type EventPayload interface {
	eventType() EventType
}

// CreatedPayload records the initial title and summary.
type CreatedPayload struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// RetitledPayload records a title change.
type RetitledPayload struct {
	Title string `json:"title"`
}

// StateChangedPayload records a lifecycle transition.
type StateChangedPayload struct {
	From State `json:"from"`
	To   State `json:"to"`
}

// SummarySetPayload records a summary change.
type SummarySetPayload struct {
	Summary string `json:"summary"`
}

// ContentSetPayload records that long-form content was written. The body
// itself lives in the content file, not the log.
type ContentSetPayload struct {
	Bytes  int           `json:"bytes"`
	Format ContentFormat `json:"format"`
}

// LogAppendedPayload records a free-form log message.
type LogAppendedPayload struct {
	Message string `json:"message"`
}

// ArchivedPayload records a freeze with an optional reason.
type ArchivedPayload struct {
	Reason string `json:"reason,omitempty"`
}

// UnarchivedPayload records that a freeze was cleared.
type UnarchivedPayload struct{}

func (CreatedPayload) eventType() EventType      { return EventCreated }
func (RetitledPayload) eventType() EventType     { return EventRetitled }
func (StateChangedPayload) eventType() EventType { return EventStateChanged }
func (SummarySetPayload) eventType() EventType   { return EventSummarySet }
func (ContentSetPayload) eventType() EventType   { return EventContentSet }
func (LogAppendedPayload) eventType() EventType  { return EventLogAppended }
func (ArchivedPayload) eventType() EventType     { return EventArchived }
func (UnarchivedPayload) eventType() EventType   { return EventUnarchived }

// newEvent builds the single event produced by an accepted mutation.
func newEvent(seq int, at time.Time, actor string, payload EventPayload) Event {
	return Event{
		Seq:     seq,
		Type:    payload.eventType(),
		At:      at,
		Actor:   actor,
		Payload: payload,
	}
}

type eventEnvelope struct {
	Seq     int             `json:"seq"`
	Type    EventType       `json:"type"`
	At      time.Time       `json:"at"`
	Actor   string          `json:"actor"`
	Payload json.RawMessage `json:"payload"`
}

// UnmarshalJSON decodes the envelope, then decodes the payload into the
// concrete type selected by the event kind.
func (e *Event) UnmarshalJSON(data []byte) error {
	var envelope eventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	payload, err := decodePayload(envelope.Type, envelope.Payload)
	if err != nil {
		return err
	}

	e.Seq = envelope.Seq
	e.Type = envelope.Type
	e.At = envelope.At
	e.Actor = envelope.Actor
	e.Payload = payload
	return nil
}

func decodePayload(kind EventType, raw json.RawMessage) (EventPayload, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	unmarshal := func(dest EventPayload) (EventPayload, error) {
		if err := json.Unmarshal(raw, dest); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		return dest, nil
	}

	switch kind {
	case EventCreated:
		payload, err := unmarshal(&CreatedPayload{})
		if err != nil {
			return nil, err
		}
		return *payload.(*CreatedPayload), nil
	case EventRetitled:
		payload, err := unmarshal(&RetitledPayload{})
		if err != nil {
			return nil, err
		}
		return *payload.(*RetitledPayload), nil
	case EventStateChanged:
		payload, err := unmarshal(&StateChangedPayload{})
		if err != nil {
			return nil, err
		}
		return *payload.(*StateChangedPayload), nil
	case EventSummarySet:
		payload, err := unmarshal(&SummarySetPayload{})
		if err != nil {
			return nil, err
		}
		return *payload.(*SummarySetPayload), nil
	case EventContentSet:
		payload, err := unmarshal(&ContentSetPayload{})
		if err != nil {
			return nil, err
		}
		return *payload.(*ContentSetPayload), nil
	case EventLogAppended:
		payload, err := unmarshal(&LogAppendedPayload{})
		if err != nil {
			return nil, err
		}
		return *payload.(*LogAppendedPayload), nil
	case EventArchived:
		payload, err := unmarshal(&ArchivedPayload{})
		if err != nil {
			return nil, err
		}
		return *payload.(*ArchivedPayload), nil
	case EventUnarchived:
		return UnarchivedPayload{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, kind)
	}
}

// apply folds one event into the snapshot. The switch is exhaustive over
// payload types so a new event kind cannot be silently ignored.
func apply(t *Task, event Event) error {
	switch payload := event.Payload.(type) {
	case CreatedPayload:
		t.Title = payload.Title
		t.Summary = payload.Summary
		t.State = StateTodo
		t.CreatedAt = event.At
		t.Version = CurrentTaskVersion
	case RetitledPayload:
		t.Title = payload.Title
	case StateChangedPayload:
		t.State = payload.To
	case SummarySetPayload:
		t.Summary = payload.Summary
	case ContentSetPayload:
		at := event.At
		t.ContentUpdatedAt = &at
		t.ContentFormat = payload.Format
	case LogAppendedPayload:
		// Log messages live only in the event log.
	case ArchivedPayload:
		at := event.At
		t.ArchivedAt = &at
	case UnarchivedPayload:
		t.ArchivedAt = nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, event.Type)
	}

	t.UpdatedAt = event.At
	t.LastEventSeq = event.Seq
	return nil
}

// Replay folds an event log into a fresh snapshot. The first event must be
// the task's created event with seq 1, and seqs must be contiguous. A task's
// snapshot is always reproducible this way because it is a pure fold of its
// log.
func Replay(id string, events []Event) (*Task, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("replay %s: empty event log", id)
	}
	if events[0].Type != EventCreated || events[0].Seq != 1 {
		return nil, fmt.Errorf("replay %s: log does not begin with created seq 1", id)
	}

	rebuilt := &Task{ID: id}
	for i, event := range events {
		if event.Seq != i+1 {
			return nil, fmt.Errorf("replay %s: expected seq %d, got %d", id, i+1, event.Seq)
		}
		if err := apply(rebuilt, event); err != nil {
			return nil, fmt.Errorf("replay %s: %w", id, err)
		}
	}
	return rebuilt, nil
}
