package main

import (
	"strings"
	"testing"
	"time"

	"github.com/windtask/windtask/task"
)

func testBoardView() *task.BoardView {
	now := time.Now()
	archivedAt := now.Add(-time.Hour)
	return &task.BoardView{
		GeneratedAt: now,
		Columns: []task.BoardColumn{
			{Name: task.ColumnTodo, Items: []task.BoardItem{
				{ID: "01AAAAAAAAXXXXXXXXXXXXXXXX", Title: "still todo", State: task.StateTodo, UpdatedAt: now},
			}},
			{Name: task.ColumnActive, Items: []task.BoardItem{
				{ID: "01BBBBBBBBYYYYYYYYYYYYYYYY", Title: "in flight", State: task.StateActive, UpdatedAt: now},
			}},
			{Name: task.ColumnDone, Items: []task.BoardItem{}},
			{Name: task.ColumnArchived, Items: []task.BoardItem{
				{ID: "01CCCCCCCCZZZZZZZZZZZZZZZZ", Title: "old news", State: task.StateDone, UpdatedAt: now, ArchivedAt: &archivedAt},
			}},
		},
	}
}

func TestFormatBoard(t *testing.T) {
	output := formatBoard(testBoardView(), 120, false)

	for _, want := range []string{"TODO", "ACTIVE", "DONE", "still todo", "in flight"} {
		if !strings.Contains(output, want) {
			t.Errorf("board missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "old news") {
		t.Errorf("board shows archived task without --archived:\n%s", output)
	}
}

func TestFormatBoardIncludesArchived(t *testing.T) {
	output := formatBoard(testBoardView(), 120, true)

	if !strings.Contains(output, "ARCHIVED") || !strings.Contains(output, "old news") {
		t.Errorf("board missing archived column:\n%s", output)
	}
}

func TestFormatBoardNarrowWidth(t *testing.T) {
	output := formatBoard(testBoardView(), 40, false)
	if output == "" {
		t.Error("narrow board rendered nothing")
	}
}
