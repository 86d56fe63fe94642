package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/windtask/windtask/internal/ui"
	"github.com/windtask/windtask/task"
)

// printTaskTable prints tasks in a table format.
func printTaskTable(tasks []task.Task, prefixLengths map[string]int, now time.Time) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	fmt.Print(formatTaskTable(tasks, prefixLengths, ui.HighlightID, now))
}

func formatTaskTable(tasks []task.Task, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "STATE", "SEQ", "UPDATED", "TITLE"}, len(tasks))

	if prefixLengths == nil {
		prefixLengths = taskIDPrefixLengths(tasks)
	}

	for _, t := range tasks {
		prefixLen := prefixLengths[strings.ToLower(t.ID)]
		state := string(t.State)
		if t.Archived() {
			state = task.ColumnArchived
		}
		row := []string{
			highlight(t.ID, prefixLen),
			ui.StyleState(state),
			strconv.Itoa(t.LastEventSeq),
			ui.FormatTimeAgo(t.UpdatedAt, now),
			ui.TruncateTableCell(t.Title),
		}
		builder.AddRow(row)
	}

	return builder.String()
}

func printTaskDetail(t *task.Task, now time.Time) {
	fmt.Printf("ID:       %s\n", t.ID)
	fmt.Printf("Title:    %s\n", t.Title)
	fmt.Printf("State:    %s\n", stateLabel(t))
	if t.Summary != "" {
		fmt.Printf("Summary:  %s\n", t.Summary)
	}
	fmt.Printf("Created:  %s (%s)\n", t.CreatedAt.Format(time.RFC3339), ui.FormatTimeAgo(t.CreatedAt, now))
	fmt.Printf("Updated:  %s (%s)\n", t.UpdatedAt.Format(time.RFC3339), ui.FormatTimeAgo(t.UpdatedAt, now))
	if t.ArchivedAt != nil {
		fmt.Printf("Archived: %s (%s)\n", t.ArchivedAt.Format(time.RFC3339), ui.FormatTimeAgo(*t.ArchivedAt, now))
	}
	if t.ContentUpdatedAt != nil {
		fmt.Printf("Content:  %s, updated %s\n", t.ContentFormat, ui.FormatTimeAgo(*t.ContentUpdatedAt, now))
	}
	fmt.Printf("Seq:      %d\n", t.LastEventSeq)
}
