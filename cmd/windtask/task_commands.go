package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/windtask/windtask/internal/ids"
	"github.com/windtask/windtask/internal/ui"
	"github.com/windtask/windtask/task"
)

// create
var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

var (
	createSummary string
	createActor   string
)

// list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, most recently updated first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var (
	listAll  bool
	listJSON bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show detailed information about a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

// retitle
var retitleCmd = &cobra.Command{
	Use:   "retitle <id> <title>",
	Short: "Change a task's title",
	Args:  cobra.ExactArgs(2),
	RunE:  runRetitle,
}

// state
var stateCmd = &cobra.Command{
	Use:   "state <id> <state>",
	Short: "Move a task between TODO, ACTIVE and DONE",
	Args:  cobra.ExactArgs(2),
	RunE:  runState,
}

// summary
var summaryCmd = &cobra.Command{
	Use:   "summary <id> <summary>",
	Short: "Replace a task's one-line summary",
	Args:  cobra.ExactArgs(2),
	RunE:  runSummary,
}

// log
var logCmd = &cobra.Command{
	Use:   "log <id> <message>",
	Short: "Append a progress note to a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runLog,
}

// archive
var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a task, freezing it against further changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

var archiveReason string

// unarchive
var unarchiveCmd = &cobra.Command{
	Use:   "unarchive <id>",
	Short: "Unarchive a task, making it mutable again",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnarchive,
}

var (
	mutationSeq   int
	mutationActor string
)

func init() {
	rootCmd.AddCommand(createCmd, listCmd, showCmd, retitleCmd, stateCmd, summaryCmd,
		logCmd, archiveCmd, unarchiveCmd)
	addSummaryFlagAliases(createCmd)

	createCmd.Flags().StringVarP(&createSummary, "summary", "s", "", "One-line summary")
	createCmd.Flags().StringVar(&createActor, "actor", "", "Name recorded as the event author")

	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include archived tasks")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	archiveCmd.Flags().StringVar(&archiveReason, "reason", "", "Reason for archiving")

	for _, cmd := range []*cobra.Command{retitleCmd, stateCmd, summaryCmd, logCmd, archiveCmd, unarchiveCmd} {
		cmd.Flags().IntVar(&mutationSeq, "seq", 0, "Last event seq you have seen; the change is rejected if the task moved past it")
		cmd.Flags().StringVar(&mutationActor, "actor", "", "Name recorded as the event author")
	}
}

func mutationOptions(cmd *cobra.Command, store *task.Store, id string) (task.MutationOptions, error) {
	opts := task.MutationOptions{ExpectedLastSeq: mutationSeq, Actor: mutationActor}
	if cmd.Flags().Changed("seq") {
		return opts, nil
	}

	// Without --seq, read the current snapshot and use its seq. This keeps
	// single-user CLI usage convenient while concurrent writers still get
	// conflict detection from the store.
	snapshot, err := store.Get(id)
	if err != nil {
		return opts, err
	}
	opts.ExpectedLastSeq = snapshot.LastEventSeq
	return opts, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	created, err := store.Create(args[0], createSummary, createActor)
	if err != nil {
		return err
	}
	fmt.Printf("Created task %s: %s\n", created.ID, created.Title)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	tasks, err := store.List(listAll)
	if err != nil {
		return err
	}

	if listJSON {
		view, err := store.IndexView()
		if err != nil {
			return err
		}
		return printJSON(view)
	}

	printTaskTable(tasks, nil, time.Now())
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	snapshot, err := store.Get(args[0])
	if err != nil {
		return err
	}

	if showJSON {
		return printJSON(snapshot)
	}

	printTaskDetail(snapshot, time.Now())
	return nil
}

func runRetitle(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, args[0], func(store *task.Store, id string, opts task.MutationOptions) (*task.Task, error) {
		return store.Retitle(id, args[1], opts)
	}, "Retitled")
}

func runState(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, args[0], func(store *task.Store, id string, opts task.MutationOptions) (*task.Task, error) {
		return store.SetState(id, args[1], opts)
	}, "Updated")
}

func runSummary(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, args[0], func(store *task.Store, id string, opts task.MutationOptions) (*task.Task, error) {
		return store.SetSummary(id, args[1], opts)
	}, "Updated")
}

func runLog(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, args[0], func(store *task.Store, id string, opts task.MutationOptions) (*task.Task, error) {
		return store.AppendLog(id, args[1], opts)
	}, "Logged to")
}

func runArchive(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, args[0], func(store *task.Store, id string, opts task.MutationOptions) (*task.Task, error) {
		return store.Archive(id, archiveReason, opts)
	}, "Archived")
}

func runUnarchive(cmd *cobra.Command, args []string) error {
	return runMutation(cmd, args[0], func(store *task.Store, id string, opts task.MutationOptions) (*task.Task, error) {
		return store.Unarchive(id, opts)
	}, "Unarchived")
}

func runMutation(cmd *cobra.Command, rawID string, mutate func(store *task.Store, id string, opts task.MutationOptions) (*task.Task, error), verb string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	id, err := store.Resolve(rawID)
	if err != nil {
		return err
	}

	opts, err := mutationOptions(cmd, store, id)
	if err != nil {
		return err
	}

	updated, err := mutate(store, id, opts)
	if err != nil {
		return err
	}
	fmt.Printf("%s task %s (seq %d)\n", verb, updated.ID, updated.LastEventSeq)
	return nil
}

func printJSON(payload any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func taskIDPrefixLengths(tasks []task.Task) map[string]int {
	taskIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	return ids.UniquePrefixLengths(taskIDs)
}

func stateLabel(t *task.Task) string {
	if t.Archived() {
		return ui.StyleState(task.ColumnArchived) + " (" + strings.ToLower(string(t.State)) + ")"
	}
	return ui.StyleState(string(t.State))
}
