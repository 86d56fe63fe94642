package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/windtask/windtask/task"
)

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	store, err := task.Open(task.Options{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	server, err := NewServer(Options{
		Store:  store,
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)
	return httpServer, NewClient(httpServer.URL)
}

func TestCreateAndGet(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	created, err := client.Create(ctx, "Write spec", "a summary", "human:amy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.State != task.StateTodo || created.LastEventSeq != 1 {
		t.Errorf("created = %+v", created)
	}

	fetched, err := client.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Title != "Write spec" || fetched.Summary != "a summary" {
		t.Errorf("fetched = %+v", fetched)
	}
}

func TestMutationLifecycle(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	created, err := client.Create(ctx, "lifecycle", "", "")
	if err != nil {
		t.Fatal(err)
	}

	active, err := client.SetState(ctx, created.ID, "ACTIVE", task.MutationOptions{ExpectedLastSeq: 1})
	if err != nil {
		t.Fatalf("set state: %v", err)
	}
	if active.State != task.StateActive || active.LastEventSeq != 2 {
		t.Errorf("active = %+v", active)
	}

	if _, err := client.AppendLog(ctx, created.ID, "working", task.MutationOptions{ExpectedLastSeq: 2}); err != nil {
		t.Fatalf("append log: %v", err)
	}

	if _, err := client.SetContent(ctx, created.ID, "# Notes", "markdown", task.MutationOptions{ExpectedLastSeq: 3}); err != nil {
		t.Fatalf("set content: %v", err)
	}
	body, format, err := client.GetContent(ctx, created.ID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if body != "# Notes" || format != task.FormatMarkdown {
		t.Errorf("content = %q %q", body, format)
	}

	timeline, err := client.TimelineView(ctx, created.ID, task.PageOptions{AfterSeq: 2})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline.Events) != 2 {
		t.Errorf("timeline has %d events, want 2", len(timeline.Events))
	}
}

func TestErrorStatuses(t *testing.T) {
	httpServer, client := newTestServer(t)
	ctx := context.Background()

	created, err := client.Create(ctx, "status codes", "", "")
	if err != nil {
		t.Fatal(err)
	}

	post := func(t *testing.T, path string, payload any) *http.Response {
		t.Helper()
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.Post(httpServer.URL+path, "application/json", bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	// Unknown task: 404.
	resp := post(t, "/tasks/get", map[string]any{"id": "01ARZ3NDEKTSV4RRFFQ69G5FAV"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("not found: status %d", resp.StatusCode)
	}

	// Stale seq: 409.
	resp = post(t, "/tasks/retitle", map[string]any{"id": created.ID, "title": "x", "expected_last_seq": 99})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("conflict: status %d", resp.StatusCode)
	}

	// Invalid state: 400.
	resp = post(t, "/tasks/state", map[string]any{"id": created.ID, "state": "BOGUS", "expected_last_seq": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("validation: status %d", resp.StatusCode)
	}

	// Archived: 423.
	if _, err := client.Archive(ctx, created.ID, "", task.MutationOptions{ExpectedLastSeq: 1}); err != nil {
		t.Fatal(err)
	}
	resp = post(t, "/tasks/retitle", map[string]any{"id": created.ID, "title": "x", "expected_last_seq": 2})
	if resp.StatusCode != http.StatusLocked {
		t.Errorf("archived: status %d", resp.StatusCode)
	}

	// Unknown fields are rejected.
	resp = post(t, "/tasks/get", map[string]any{"id": created.ID, "bogus": true})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field: status %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	httpServer, _ := newTestServer(t)

	resp, err := http.Get(httpServer.URL + "/tasks/get")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow = %q", allow)
	}
}

func TestViews(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	first, err := client.Create(ctx, "board me", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Archive(ctx, first.ID, "old", task.MutationOptions{ExpectedLastSeq: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Create(ctx, "index me", "", ""); err != nil {
		t.Fatal(err)
	}

	index, err := client.IndexView(ctx)
	if err != nil {
		t.Fatalf("index view: %v", err)
	}
	if len(index.Items) != 2 {
		t.Errorf("index has %d items", len(index.Items))
	}

	board, err := client.BoardView(ctx)
	if err != nil {
		t.Fatalf("board view: %v", err)
	}
	var archivedColumn *task.BoardColumn
	for i := range board.Columns {
		if board.Columns[i].Name == task.ColumnArchived {
			archivedColumn = &board.Columns[i]
		}
	}
	if archivedColumn == nil || len(archivedColumn.Items) != 1 {
		t.Errorf("archived column = %+v", archivedColumn)
	}
}

func TestClientErrorMessages(t *testing.T) {
	_, client := newTestServer(t)

	_, err := client.Get(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "task not found") {
		t.Errorf("error = %v", err)
	}
}
