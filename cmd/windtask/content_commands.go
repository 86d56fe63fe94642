package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/windtask/windtask/internal/markdown"
	"github.com/windtask/windtask/task"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage a task's long-form content document",
}

// content set
var contentSetCmd = &cobra.Command{
	Use:   "set <id> [content]",
	Short: "Replace a task's content document",
	Long: `Replace a task's content document.

Pass the content as an argument, or use '-' to read it from stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runContentSet,
}

var contentSetFormat string

// content show
var contentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task's content document",
	Args:  cobra.ExactArgs(1),
	RunE:  runContentShow,
}

var contentShowRaw bool

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentSetCmd, contentShowCmd)

	contentSetCmd.Flags().StringVarP(&contentSetFormat, "format", "f", "", "Content format (markdown or text; default markdown)")
	contentSetCmd.Flags().IntVar(&mutationSeq, "seq", 0, "Last event seq you have seen; the change is rejected if the task moved past it")
	contentSetCmd.Flags().StringVar(&mutationActor, "actor", "", "Name recorded as the event author")

	contentShowCmd.Flags().BoolVar(&contentShowRaw, "raw", false, "Print the content without terminal rendering")
}

func runContentSet(cmd *cobra.Command, args []string) error {
	body := "-"
	if len(args) > 1 {
		body = args[1]
	}
	if body == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read content from stdin: %w", err)
		}
		body = string(data)
	}

	return runMutation(cmd, args[0], func(store *task.Store, id string, opts task.MutationOptions) (*task.Task, error) {
		return store.SetContent(id, body, contentSetFormat, opts)
	}, "Updated content of")
}

func runContentShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	body, format, err := store.ReadContent(args[0])
	if err != nil {
		return err
	}
	if body == "" {
		return nil
	}

	if contentShowRaw || format != task.FormatMarkdown || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(body)
		return nil
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 1 {
		width = 80
	}
	fmt.Println(markdown.Render(width, body))
	return nil
}
