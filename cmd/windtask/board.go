package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/windtask/windtask/internal/ui"
	"github.com/windtask/windtask/task"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show tasks grouped into TODO, ACTIVE, DONE and ARCHIVED columns",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

var (
	boardJSON     bool
	boardArchived bool
)

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVar(&boardJSON, "json", false, "Output as JSON")
	boardCmd.Flags().BoolVarP(&boardArchived, "archived", "a", false, "Include the ARCHIVED column")
}

func runBoard(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	view, err := store.BoardView()
	if err != nil {
		return err
	}

	if boardJSON {
		return printJSON(view)
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		width = 100
	}
	fmt.Print(formatBoard(view, width, boardArchived))
	return nil
}

func formatBoard(view *task.BoardView, width int, includeArchived bool) string {
	columns := view.Columns
	if !includeArchived {
		visible := make([]task.BoardColumn, 0, len(columns))
		for _, column := range columns {
			if column.Name != task.ColumnArchived {
				visible = append(visible, column)
			}
		}
		columns = visible
	}
	if len(columns) == 0 {
		return "No tasks found.\n"
	}

	gap := 2
	columnWidth := (width - gap*(len(columns)-1)) / len(columns)
	if columnWidth < 12 {
		columnWidth = 12
	}

	rendered := make([]string, 0, len(columns))
	for i, column := range columns {
		block := formatBoardColumn(column, columnWidth)
		if i < len(columns)-1 {
			block = lipgloss.NewStyle().MarginRight(gap).Render(block)
		}
		rendered = append(rendered, block)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

func formatBoardColumn(column task.BoardColumn, width int) string {
	var builder strings.Builder
	builder.WriteString(ui.StyleColumnTitle(column.Name))
	builder.WriteString(fmt.Sprintf(" %s\n", ui.StyleDim(fmt.Sprintf("(%d)", len(column.Items)))))

	if len(column.Items) == 0 {
		builder.WriteString(ui.StyleDim("empty"))
		return lipgloss.NewStyle().Width(width).Render(builder.String())
	}

	for _, item := range column.Items {
		shortID := item.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		builder.WriteString(ui.HighlightID(shortID, len(shortID)))
		builder.WriteByte('\n')
		builder.WriteString(wordwrap.String(item.Title, width))
		builder.WriteByte('\n')
	}

	return lipgloss.NewStyle().Width(width).Render(strings.TrimRight(builder.String(), "\n"))
}
