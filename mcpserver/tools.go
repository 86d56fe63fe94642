package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/windtask/windtask/task"
)

type createTaskArgs struct {
	Title   string `json:"title" jsonschema:"required,description=Short task title"`
	Summary string `json:"summary" jsonschema:"description=One-line summary"`
	Actor   string `json:"actor" jsonschema:"description=Name recorded as the event author"`
	Project string `json:"project" jsonschema:"description=Project name from the windtask config; empty selects the default project"`
}

type getTaskArgs struct {
	ID      string `json:"id" jsonschema:"required,description=Task ID or unique ID prefix"`
	Project string `json:"project" jsonschema:"description=Project name; empty selects the default project"`
}

type mutateArgs struct {
	ID              string `json:"id" jsonschema:"required,description=Task ID"`
	ExpectedLastSeq int    `json:"expected_last_seq" jsonschema:"required,description=Last event seq the caller has seen; the mutation is rejected if the task has moved past it"`
	Actor           string `json:"actor" jsonschema:"description=Name recorded as the event author"`
	Project         string `json:"project" jsonschema:"description=Project name; empty selects the default project"`
}

type retitleArgs struct {
	mutateArgs
	Title string `json:"title" jsonschema:"required,description=New task title"`
}

type setStateArgs struct {
	mutateArgs
	State string `json:"state" jsonschema:"required,description=Target state: TODO, ACTIVE or DONE"`
}

type setSummaryArgs struct {
	mutateArgs
	Summary string `json:"summary" jsonschema:"description=New one-line summary; empty clears it"`
}

type setContentArgs struct {
	mutateArgs
	Content string `json:"content" jsonschema:"required,description=Full replacement content document"`
	Format  string `json:"format" jsonschema:"description=Content format: markdown (default) or text"`
}

type appendLogArgs struct {
	mutateArgs
	Message string `json:"message" jsonschema:"required,description=Progress note to append to the task's event log"`
}

type archiveArgs struct {
	mutateArgs
	Reason string `json:"reason" jsonschema:"description=Why the task is being archived"`
}

type timelineArgs struct {
	ID       string `json:"id" jsonschema:"required,description=Task ID or unique ID prefix"`
	AfterSeq int    `json:"after_seq" jsonschema:"description=Only include events with seq greater than this"`
	Limit    int    `json:"limit" jsonschema:"description=Keep only the most recent N events after filtering"`
	Project  string `json:"project" jsonschema:"description=Project name; empty selects the default project"`
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("task_create",
		mcp.WithDescription("Create a new task. The task starts in TODO with an empty event history apart from its creation event. Returns the task snapshot including last_event_seq, which later mutations must echo back as expected_last_seq."),
		mcp.WithInputSchema[createTaskArgs](),
	), s.handleCreateTask)

	mcpServer.AddTool(mcp.NewTool("task_get",
		mcp.WithDescription("Fetch a task snapshot by ID or unique ID prefix."),
		mcp.WithInputSchema[getTaskArgs](),
	), s.handleGetTask)

	mcpServer.AddTool(mcp.NewTool("task_retitle",
		mcp.WithDescription("Change a task's title. Requires expected_last_seq; fails with a conflict if the task changed since the caller last read it."),
		mcp.WithInputSchema[retitleArgs](),
	), s.handleRetitle)

	mcpServer.AddTool(mcp.NewTool("task_set_state",
		mcp.WithDescription("Move a task between TODO, ACTIVE and DONE. Setting the current state again is a no-op and records no event."),
		mcp.WithInputSchema[setStateArgs](),
	), s.handleSetState)

	mcpServer.AddTool(mcp.NewTool("task_set_summary",
		mcp.WithDescription("Replace a task's one-line summary."),
		mcp.WithInputSchema[setSummaryArgs](),
	), s.handleSetSummary)

	mcpServer.AddTool(mcp.NewTool("task_set_content",
		mcp.WithDescription("Replace a task's long-form content document. The event log records the size and format, not the body."),
		mcp.WithInputSchema[setContentArgs](),
	), s.handleSetContent)

	mcpServer.AddTool(mcp.NewTool("task_get_content",
		mcp.WithDescription("Read a task's content document. Tasks with no content yet return an empty body."),
		mcp.WithInputSchema[getTaskArgs](),
	), s.handleGetContent)

	mcpServer.AddTool(mcp.NewTool("task_append_log",
		mcp.WithDescription("Append a progress note to a task's event log."),
		mcp.WithInputSchema[appendLogArgs](),
	), s.handleAppendLog)

	mcpServer.AddTool(mcp.NewTool("task_archive",
		mcp.WithDescription("Archive a task. Archived tasks reject every mutation except unarchive."),
		mcp.WithInputSchema[archiveArgs](),
	), s.handleArchive)

	mcpServer.AddTool(mcp.NewTool("task_unarchive",
		mcp.WithDescription("Unarchive a task, making it mutable again. Unarchiving a task that isn't archived is a no-op, but still checks expected_last_seq."),
		mcp.WithInputSchema[mutateArgs](),
	), s.handleUnarchive)

	mcpServer.AddTool(mcp.NewTool("task_timeline",
		mcp.WithDescription("Read a page of a task's event history in seq order, optionally filtered to events after a given seq and capped to the most recent N."),
		mcp.WithInputSchema[timelineArgs](),
	), s.handleTimeline)
}

func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createTaskArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult("validation", err), nil
	}
	store, err := s.storeFor(args.Project)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	created, err := store.Create(args.Title, args.Summary, args.Actor)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	return taskResult(created), nil
}

func (s *Server) handleGetTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getTaskArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult("validation", err), nil
	}
	store, err := s.storeFor(args.Project)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	snapshot, err := store.Get(args.ID)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	return taskResult(snapshot), nil
}

func (s *Server) handleRetitle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args retitleArgs
	return s.mutationResult(request, &args, &args.mutateArgs, func(store *task.Store) (*task.Task, error) {
		return store.Retitle(args.ID, args.Title, args.options())
	})
}

func (s *Server) handleSetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args setStateArgs
	return s.mutationResult(request, &args, &args.mutateArgs, func(store *task.Store) (*task.Task, error) {
		return store.SetState(args.ID, args.State, args.options())
	})
}

func (s *Server) handleSetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args setSummaryArgs
	return s.mutationResult(request, &args, &args.mutateArgs, func(store *task.Store) (*task.Task, error) {
		return store.SetSummary(args.ID, args.Summary, args.options())
	})
}

func (s *Server) handleSetContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args setContentArgs
	return s.mutationResult(request, &args, &args.mutateArgs, func(store *task.Store) (*task.Task, error) {
		return store.SetContent(args.ID, args.Content, args.Format, args.options())
	})
}

func (s *Server) handleGetContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getTaskArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult("validation", err), nil
	}
	store, err := s.storeFor(args.Project)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	body, format, err := store.ReadContent(args.ID)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	return jsonResult(map[string]any{
		"ok":      true,
		"content": body,
		"format":  format,
	}), nil
}

func (s *Server) handleAppendLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args appendLogArgs
	return s.mutationResult(request, &args, &args.mutateArgs, func(store *task.Store) (*task.Task, error) {
		return store.AppendLog(args.ID, args.Message, args.options())
	})
}

func (s *Server) handleArchive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args archiveArgs
	return s.mutationResult(request, &args, &args.mutateArgs, func(store *task.Store) (*task.Task, error) {
		return store.Archive(args.ID, args.Reason, args.options())
	})
}

func (s *Server) handleUnarchive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args mutateArgs
	return s.mutationResult(request, &args, &args, func(store *task.Store) (*task.Task, error) {
		return store.Unarchive(args.ID, args.options())
	})
}

func (s *Server) handleTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args timelineArgs
	if err := request.BindArguments(&args); err != nil {
		return errorResult("validation", err), nil
	}
	store, err := s.storeFor(args.Project)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	view, err := store.TimelineView(args.ID, task.PageOptions{AfterSeq: args.AfterSeq, Limit: args.Limit})
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	return jsonResult(map[string]any{"ok": true, "timeline": view}), nil
}

// mutationResult runs the shared bind-resolve-mutate sequence for the
// mutation tools. args is the tool's full argument struct; shared points at
// its embedded mutateArgs.
func (s *Server) mutationResult(request mcp.CallToolRequest, args any, shared *mutateArgs, mutate func(store *task.Store) (*task.Task, error)) (*mcp.CallToolResult, error) {
	if err := request.BindArguments(args); err != nil {
		return errorResult("validation", err), nil
	}
	store, err := s.storeFor(shared.Project)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	updated, err := mutate(store)
	if err != nil {
		return errorResult(errorCode(err), err), nil
	}
	return taskResult(updated), nil
}

func (a *mutateArgs) options() task.MutationOptions {
	return task.MutationOptions{ExpectedLastSeq: a.ExpectedLastSeq, Actor: a.Actor}
}

func taskResult(snapshot *task.Task) *mcp.CallToolResult {
	return jsonResult(map[string]any{"ok": true, "task": snapshot})
}

func jsonResult(payload any) *mcp.CallToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(`{"ok":false,"error":"unknown","message":%q}`, err.Error()))
	}
	return mcp.NewToolResultText(string(data))
}

// errorResult renders the stable error envelope clients branch on. The code
// is one of conflict, archived, not_found, validation or unknown.
func errorResult(code string, err error) *mcp.CallToolResult {
	envelope, marshalErr := json.Marshal(map[string]any{
		"ok":      false,
		"error":   code,
		"message": err.Error(),
	})
	if marshalErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf(`{"ok":false,"error":"unknown","message":%q}`, marshalErr.Error()))
	}
	return mcp.NewToolResultError(string(envelope))
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, task.ErrConflict):
		return "conflict"
	case errors.Is(err, task.ErrArchived):
		return "archived"
	case errors.Is(err, task.ErrTaskNotFound):
		return "not_found"
	case errors.Is(err, task.ErrAmbiguousIDPrefix), task.IsValidation(err):
		return "validation"
	default:
		return "unknown"
	}
}
