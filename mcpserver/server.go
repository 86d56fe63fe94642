// Package mcpserver exposes the task store to agent clients over the Model
// Context Protocol. Tools mirror the store's mutations and views; resources
// publish read-only projections.
package mcpserver

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/windtask/windtask/internal/config"
	"github.com/windtask/windtask/task"
)

// Version is stamped at build time.
var Version = "dev"

// Server wires task stores into an MCP server. Stores are opened lazily per
// project so a single MCP session can serve several task directories.
type Server struct {
	cfg    *config.Config
	logger *log.Logger

	mu     sync.Mutex
	stores map[string]*task.Store
}

// Options configures an MCP server.
type Options struct {
	Config *config.Config
	Logger *log.Logger
}

// New creates an MCP server over the configured projects.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "mcp: ", log.LstdFlags)
	}
	return &Server{
		cfg:    opts.Config,
		logger: logger,
		stores: map[string]*task.Store{},
	}, nil
}

// ServeStdio runs the MCP server on stdin/stdout until the client hangs up.
func (s *Server) ServeStdio() error {
	mcpServer := server.NewMCPServer(
		"windtask",
		Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)
	s.registerTools(mcpServer)
	s.registerResources(mcpServer)
	s.logger.Printf("serving MCP on stdio")
	return server.ServeStdio(mcpServer)
}

// storeFor opens (or reuses) the store for the named project. An empty name
// selects the default project.
func (s *Server) storeFor(project string) (*task.Store, error) {
	if project == "" {
		project = config.DefaultProject
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if store, ok := s.stores[project]; ok {
		return store, nil
	}

	dir, err := s.cfg.ProjectDir(project)
	if err != nil {
		return nil, err
	}
	store, err := task.Open(task.Options{BaseDir: dir})
	if err != nil {
		return nil, fmt.Errorf("open task store for project %q: %w", project, err)
	}
	s.stores[project] = store
	return store, nil
}
