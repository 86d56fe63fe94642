package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/windtask/windtask/internal/ui"
	"github.com/windtask/windtask/task"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <id>",
	Short: "Show a task's event history",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

var (
	timelineAfterSeq int
	timelineLimit    int
	timelineJSON     bool
)

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineCmd.Flags().IntVar(&timelineAfterSeq, "after", 0, "Only show events with seq greater than this")
	timelineCmd.Flags().IntVarP(&timelineLimit, "limit", "n", 0, "Keep only the most recent N events after filtering")
	timelineCmd.Flags().BoolVar(&timelineJSON, "json", false, "Output as JSON")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	view, err := store.TimelineView(args[0], task.PageOptions{
		AfterSeq: timelineAfterSeq,
		Limit:    timelineLimit,
	})
	if err != nil {
		return err
	}

	if timelineJSON {
		return printJSON(view)
	}

	if len(view.Events) == 0 {
		fmt.Println("No events.")
		return nil
	}

	now := time.Now()
	for _, event := range view.Events {
		line := fmt.Sprintf("%4d  %-14s %-10s %s", event.Seq, event.Type, ui.FormatTimeAgo(event.At, now), describeEvent(event))
		fmt.Println(line)
	}
	return nil
}

func describeEvent(event task.Event) string {
	switch payload := event.Payload.(type) {
	case task.CreatedPayload:
		return fmt.Sprintf("%q", payload.Title)
	case task.RetitledPayload:
		return fmt.Sprintf("%q", payload.Title)
	case task.StateChangedPayload:
		return fmt.Sprintf("%s -> %s", payload.From, payload.To)
	case task.SummarySetPayload:
		return fmt.Sprintf("%q", payload.Summary)
	case task.ContentSetPayload:
		return fmt.Sprintf("%d bytes (%s)", payload.Bytes, payload.Format)
	case task.LogAppendedPayload:
		return payload.Message
	case task.ArchivedPayload:
		if payload.Reason != "" {
			return payload.Reason
		}
		return ""
	default:
		return ""
	}
}
