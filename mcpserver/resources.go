package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/windtask/windtask/task"
)

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResource(mcp.NewResource(
		"tasks://index",
		"Task index",
		mcp.WithResourceDescription("Every task, archived included, most recently updated first."),
		mcp.WithMIMEType("application/json"),
	), s.readIndexResource)

	mcpServer.AddResource(mcp.NewResource(
		"tasks://board",
		"Task board",
		mcp.WithResourceDescription("Tasks grouped into TODO, ACTIVE, DONE and ARCHIVED columns."),
		mcp.WithMIMEType("application/json"),
	), s.readBoardResource)

	mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(
		"tasks://task/{id}",
		"Task snapshot",
		mcp.WithTemplateDescription("A single task's current snapshot."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readTaskResource)

	mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(
		"tasks://timeline/{id}",
		"Task timeline",
		mcp.WithTemplateDescription("A task's full event history in seq order."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readTimelineResource)
}

func (s *Server) readIndexResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	store, err := s.storeFor("")
	if err != nil {
		return nil, err
	}
	view, err := store.IndexView()
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, view)
}

func (s *Server) readBoardResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	store, err := s.storeFor("")
	if err != nil {
		return nil, err
	}
	view, err := store.BoardView()
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, view)
}

func (s *Server) readTaskResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, err := resourceID(request.Params.URI, "tasks://task/")
	if err != nil {
		return nil, err
	}
	store, err := s.storeFor("")
	if err != nil {
		return nil, err
	}
	snapshot, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, snapshot)
}

func (s *Server) readTimelineResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, err := resourceID(request.Params.URI, "tasks://timeline/")
	if err != nil {
		return nil, err
	}
	store, err := s.storeFor("")
	if err != nil {
		return nil, err
	}
	view, err := store.TimelineView(id, task.PageOptions{})
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, view)
}

func resourceID(uri, prefix string) (string, error) {
	id := strings.TrimPrefix(uri, prefix)
	if id == "" || id == uri {
		return "", fmt.Errorf("resource URI %q has no task id", uri)
	}
	return id, nil
}

func jsonContents(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
