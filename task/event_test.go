package task

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestReplayReproducesSnapshot(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, "replay me")

	if _, err := store.SetState(created.ID, "ACTIVE", opts(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Retitle(created.ID, "replayed", opts(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SetSummary(created.ID, "sums up", opts(3)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SetContent(created.ID, "body", "text", opts(4)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Archive(created.ID, "done for now", opts(5)); err != nil {
		t.Fatal(err)
	}

	snapshot, err := store.Get(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	events, err := store.ReadLog(created.ID, PageOptions{})
	if err != nil {
		t.Fatal(err)
	}

	rebuilt, err := Replay(created.ID, events)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !reflect.DeepEqual(rebuilt, snapshot) {
		t.Errorf("replayed snapshot differs:\n got %+v\nwant %+v", rebuilt, snapshot)
	}
}

func TestReplayRejectsBadLogs(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, "short log")
	if _, err := store.AppendLog(created.ID, "note", opts(1)); err != nil {
		t.Fatal(err)
	}
	events, err := store.ReadLog(created.ID, PageOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Replay(created.ID, nil); err == nil {
		t.Error("empty log should not replay")
	}
	if _, err := Replay(created.ID, events[1:]); err == nil {
		t.Error("log without created event should not replay")
	}

	gap := []Event{events[0], {Seq: 5, Type: EventLogAppended, Payload: LogAppendedPayload{Message: "skip"}}}
	if _, err := Replay(created.ID, gap); err == nil {
		t.Error("log with a seq gap should not replay")
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, "wire format")
	if _, err := store.SetState(created.ID, "ACTIVE", opts(1)); err != nil {
		t.Fatal(err)
	}

	events, err := store.ReadLog(created.ID, PageOptions{})
	if err != nil {
		t.Fatal(err)
	}

	transition := events[1]
	payload, ok := transition.Payload.(StateChangedPayload)
	if !ok {
		t.Fatalf("payload is %T, want StateChangedPayload", transition.Payload)
	}
	if payload.From != StateTodo || payload.To != StateActive {
		t.Errorf("payload = %+v", payload)
	}

	data, err := json.Marshal(transition)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type":"state_changed"`) {
		t.Errorf("encoded event missing kind: %s", data)
	}
}

func TestUnknownEventKind(t *testing.T) {
	var event Event
	err := json.Unmarshal([]byte(`{"seq":1,"type":"exploded","at":"2026-01-01T00:00:00Z","payload":{}}`), &event)
	if !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("got %v, want ErrUnknownEventType", err)
	}
}
