package api

import (
	"github.com/windtask/windtask/task"
)

type createRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Actor   string `json:"actor,omitempty"`
}

type idRequest struct {
	ID string `json:"id"`
}

// mutationRequest is the shared wire shape for task mutations. Each endpoint
// reads only the fields it needs; expected_last_seq and actor apply to all.
type mutationRequest struct {
	ID              string `json:"id"`
	ExpectedLastSeq int    `json:"expected_last_seq"`
	Actor           string `json:"actor,omitempty"`

	Title   string `json:"title,omitempty"`
	State   string `json:"state,omitempty"`
	Summary string `json:"summary,omitempty"`
	Content string `json:"content,omitempty"`
	Format  string `json:"format,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func (r *mutationRequest) options() task.MutationOptions {
	return task.MutationOptions{
		ExpectedLastSeq: r.ExpectedLastSeq,
		Actor:           r.Actor,
	}
}

type listRequest struct{}

type timelineRequest struct {
	ID   string           `json:"id"`
	Page task.PageOptions `json:"page"`
}

type taskResponse struct {
	Task task.Task `json:"task"`
}

type contentResponse struct {
	Content string             `json:"content"`
	Format  task.ContentFormat `json:"format"`
}
