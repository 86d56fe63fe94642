package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestListSortsByUpdatedAt(t *testing.T) {
	store := newTestStore(t)
	clock := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first := mustCreate(t, store, "first")
	second := mustCreate(t, store, "second")

	// Touching the first task moves it to the top.
	if _, err := store.AppendLog(first.ID, "bump", opts(1)); err != nil {
		t.Fatal(err)
	}

	tasks, err := store.List(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].ID != first.ID || tasks[1].ID != second.ID {
		t.Errorf("order = %s, %s; want %s first", tasks[0].ID, tasks[1].ID, first.ID)
	}
}

func TestListSkipsMalformedDirs(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, "healthy")

	// A directory without a snapshot is skipped, not fatal.
	if err := os.MkdirAll(filepath.Join(store.BaseDir(), "01BROKEN"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.BaseDir(), "stray-file"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, err := store.List(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Errorf("got %d tasks, want 1", len(tasks))
	}
}

func TestListExcludesArchivedByDefault(t *testing.T) {
	store := newTestStore(t)
	keep := mustCreate(t, store, "keep")
	gone := mustCreate(t, store, "gone")
	if _, err := store.Archive(gone.ID, "", opts(1)); err != nil {
		t.Fatal(err)
	}

	tasks, err := store.List(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Errorf("unarchived listing = %v", tasks)
	}

	all, err := store.List(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("full listing has %d tasks, want 2", len(all))
	}
}

func TestIndexView(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, "indexed")
	archived := mustCreate(t, store, "archived too")
	if _, err := store.Archive(archived.ID, "", opts(1)); err != nil {
		t.Fatal(err)
	}

	view, err := store.IndexView()
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("index has %d items, want 2", len(view.Items))
	}
	if view.GeneratedAt.IsZero() {
		t.Error("generated_at not set")
	}

	byID := map[string]IndexItem{}
	for _, item := range view.Items {
		byID[item.ID] = item
	}
	if item := byID[created.ID]; item.Archived || item.Title != "indexed" {
		t.Errorf("live item = %+v", item)
	}
	if item := byID[archived.ID]; !item.Archived {
		t.Errorf("archived item = %+v", item)
	}
}

func TestBoardViewColumns(t *testing.T) {
	store := newTestStore(t)

	todoTask := mustCreate(t, store, "still todo")
	activeTask := mustCreate(t, store, "in flight")
	doneTask := mustCreate(t, store, "shipped")
	frozen := mustCreate(t, store, "frozen while active")

	if _, err := store.SetState(activeTask.ID, "ACTIVE", opts(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SetState(doneTask.ID, "DONE", opts(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SetState(frozen.ID, "ACTIVE", opts(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Archive(frozen.ID, "paused", opts(2)); err != nil {
		t.Fatal(err)
	}

	view, err := store.BoardView()
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Columns) != 4 {
		t.Fatalf("board has %d columns, want 4", len(view.Columns))
	}

	want := map[string][]string{
		ColumnTodo:     {todoTask.ID},
		ColumnActive:   {activeTask.ID},
		ColumnDone:     {doneTask.ID},
		ColumnArchived: {frozen.ID},
	}
	seen := map[string]int{}
	for _, column := range view.Columns {
		wantIDs := want[column.Name]
		if len(column.Items) != len(wantIDs) {
			t.Errorf("column %s has %d items, want %d", column.Name, len(column.Items), len(wantIDs))
			continue
		}
		for _, item := range column.Items {
			seen[item.ID]++
			if item.ID != wantIDs[0] {
				t.Errorf("column %s contains %s, want %s", column.Name, item.ID, wantIDs[0])
			}
		}
	}

	// An archived task appears exactly once, in ARCHIVED, despite its
	// ACTIVE state.
	if seen[frozen.ID] != 1 {
		t.Errorf("archived task appears %d times", seen[frozen.ID])
	}
}

func TestTimelineView(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, "timeline")
	for i := 1; i <= 3; i++ {
		if _, err := store.AppendLog(created.ID, "note", opts(i)); err != nil {
			t.Fatal(err)
		}
	}

	view, err := store.TimelineView(created.ID[:8], PageOptions{AfterSeq: 1})
	if err != nil {
		t.Fatal(err)
	}
	if view.ID != created.ID {
		t.Errorf("view id = %q, want full id %q", view.ID, created.ID)
	}
	if len(view.Events) != 3 {
		t.Errorf("got %d events, want 3", len(view.Events))
	}
}
