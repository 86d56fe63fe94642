package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/windtask/windtask/task"
)

// Client is a thin HTTP client for the task RPC endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL, like
// "http://127.0.0.1:7420".
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{}}
}

// Create creates a new task and returns its snapshot.
func (c *Client) Create(ctx context.Context, title, summary, actor string) (*task.Task, error) {
	var result taskResponse
	err := c.postJSON(ctx, "/tasks/create", createRequest{Title: title, Summary: summary, Actor: actor}, &result)
	if err != nil {
		return nil, err
	}
	return &result.Task, nil
}

// Get fetches a task snapshot by ID or unique ID prefix.
func (c *Client) Get(ctx context.Context, id string) (*task.Task, error) {
	var result taskResponse
	if err := c.postJSON(ctx, "/tasks/get", idRequest{ID: id}, &result); err != nil {
		return nil, err
	}
	return &result.Task, nil
}

// Retitle changes a task's title.
func (c *Client) Retitle(ctx context.Context, id, title string, opts task.MutationOptions) (*task.Task, error) {
	return c.mutate(ctx, "/tasks/retitle", mutationRequest{
		ID: id, Title: title,
		ExpectedLastSeq: opts.ExpectedLastSeq, Actor: opts.Actor,
	})
}

// SetState transitions a task's state.
func (c *Client) SetState(ctx context.Context, id, state string, opts task.MutationOptions) (*task.Task, error) {
	return c.mutate(ctx, "/tasks/state", mutationRequest{
		ID: id, State: state,
		ExpectedLastSeq: opts.ExpectedLastSeq, Actor: opts.Actor,
	})
}

// SetSummary replaces a task's summary.
func (c *Client) SetSummary(ctx context.Context, id, summary string, opts task.MutationOptions) (*task.Task, error) {
	return c.mutate(ctx, "/tasks/summary", mutationRequest{
		ID: id, Summary: summary,
		ExpectedLastSeq: opts.ExpectedLastSeq, Actor: opts.Actor,
	})
}

// SetContent replaces a task's content document.
func (c *Client) SetContent(ctx context.Context, id, content, format string, opts task.MutationOptions) (*task.Task, error) {
	return c.mutate(ctx, "/tasks/content/set", mutationRequest{
		ID: id, Content: content, Format: format,
		ExpectedLastSeq: opts.ExpectedLastSeq, Actor: opts.Actor,
	})
}

// GetContent fetches a task's content document.
func (c *Client) GetContent(ctx context.Context, id string) (string, task.ContentFormat, error) {
	var result contentResponse
	if err := c.postJSON(ctx, "/tasks/content/get", idRequest{ID: id}, &result); err != nil {
		return "", "", err
	}
	return result.Content, result.Format, nil
}

// AppendLog appends a progress note to a task.
func (c *Client) AppendLog(ctx context.Context, id, message string, opts task.MutationOptions) (*task.Task, error) {
	return c.mutate(ctx, "/tasks/log", mutationRequest{
		ID: id, Message: message,
		ExpectedLastSeq: opts.ExpectedLastSeq, Actor: opts.Actor,
	})
}

// Archive freezes a task.
func (c *Client) Archive(ctx context.Context, id, reason string, opts task.MutationOptions) (*task.Task, error) {
	return c.mutate(ctx, "/tasks/archive", mutationRequest{
		ID: id, Reason: reason,
		ExpectedLastSeq: opts.ExpectedLastSeq, Actor: opts.Actor,
	})
}

// Unarchive unfreezes a task.
func (c *Client) Unarchive(ctx context.Context, id string, opts task.MutationOptions) (*task.Task, error) {
	return c.mutate(ctx, "/tasks/unarchive", mutationRequest{
		ID:              id,
		ExpectedLastSeq: opts.ExpectedLastSeq, Actor: opts.Actor,
	})
}

// IndexView fetches the compact task index.
func (c *Client) IndexView(ctx context.Context) (*task.IndexView, error) {
	var result task.IndexView
	if err := c.postJSON(ctx, "/views/index", listRequest{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BoardView fetches tasks grouped into kanban columns.
func (c *Client) BoardView(ctx context.Context) (*task.BoardView, error) {
	var result task.BoardView
	if err := c.postJSON(ctx, "/views/board", listRequest{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TimelineView fetches a page of a task's event history.
func (c *Client) TimelineView(ctx context.Context, id string, page task.PageOptions) (*task.TimelineView, error) {
	var result task.TimelineView
	if err := c.postJSON(ctx, "/views/timeline", timelineRequest{ID: id, Page: page}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) mutate(ctx context.Context, path string, payload mutationRequest) (*task.Task, error) {
	var result taskResponse
	if err := c.postJSON(ctx, path, payload, &result); err != nil {
		return nil, err
	}
	return &result.Task, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readErrorResponse(resp)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func readErrorResponse(resp *http.Response) error {
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if message, ok := payload["error"]; ok {
			return fmt.Errorf("task server error (%d): %s", resp.StatusCode, message)
		}
	}
	return fmt.Errorf("task server error: %s", resp.Status)
}
