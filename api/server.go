// Package api exposes the task store over HTTP JSON RPC. Each endpoint is a
// thin adapter: it validates wire-level argument shapes, calls into the
// store, and translates store error signals into HTTP error envelopes.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/windtask/windtask/task"
)

// Server handles task RPCs for a single store.
type Server struct {
	store  *task.Store
	logger *log.Logger
}

// Options configures an RPC server.
type Options struct {
	Store  *task.Store
	Logger *log.Logger
}

// NewServer creates a server over the given store.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "api: ", log.LstdFlags)
	}
	return &Server{store: opts.Store, logger: logger}, nil
}

// Handler returns the HTTP handler for task RPCs.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/create", s.handleCreate)
	mux.HandleFunc("/tasks/get", s.handleGet)
	mux.HandleFunc("/tasks/retitle", s.handleRetitle)
	mux.HandleFunc("/tasks/state", s.handleSetState)
	mux.HandleFunc("/tasks/summary", s.handleSetSummary)
	mux.HandleFunc("/tasks/content/set", s.handleSetContent)
	mux.HandleFunc("/tasks/content/get", s.handleGetContent)
	mux.HandleFunc("/tasks/log", s.handleAppendLog)
	mux.HandleFunc("/tasks/archive", s.handleArchive)
	mux.HandleFunc("/tasks/unarchive", s.handleUnarchive)
	mux.HandleFunc("/views/index", s.handleIndexView)
	mux.HandleFunc("/views/board", s.handleBoardView)
	mux.HandleFunc("/views/timeline", s.handleTimelineView)
	return s.recoverHandler(mux)
}

// Serve runs the server on the given address until the listener fails.
func (s *Server) Serve(addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: s.logger,
	}
	s.logf("listening on %s", addr)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload createRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.store.Create(payload.Title, payload.Summary, payload.Actor)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: *created})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload idRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := requireID(payload.ID); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	snapshot, err := s.store.Get(payload.ID)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: *snapshot})
}

func (s *Server) handleRetitle(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(payload *mutationRequest) (*task.Task, error) {
		return s.store.Retitle(payload.ID, payload.Title, payload.options())
	})
}

func (s *Server) handleSetState(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(payload *mutationRequest) (*task.Task, error) {
		return s.store.SetState(payload.ID, payload.State, payload.options())
	})
}

func (s *Server) handleSetSummary(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(payload *mutationRequest) (*task.Task, error) {
		return s.store.SetSummary(payload.ID, payload.Summary, payload.options())
	})
}

func (s *Server) handleSetContent(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(payload *mutationRequest) (*task.Task, error) {
		return s.store.SetContent(payload.ID, payload.Content, payload.Format, payload.options())
	})
}

func (s *Server) handleAppendLog(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(payload *mutationRequest) (*task.Task, error) {
		return s.store.AppendLog(payload.ID, payload.Message, payload.options())
	})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(payload *mutationRequest) (*task.Task, error) {
		return s.store.Archive(payload.ID, payload.Reason, payload.options())
	})
}

func (s *Server) handleUnarchive(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, func(payload *mutationRequest) (*task.Task, error) {
		return s.store.Unarchive(payload.ID, payload.options())
	})
}

func (s *Server) handleMutation(w http.ResponseWriter, r *http.Request, mutate func(payload *mutationRequest) (*task.Task, error)) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload mutationRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := requireID(payload.ID); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	updated, err := mutate(&payload)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: *updated})
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload idRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := requireID(payload.ID); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	body, format, err := s.store.ReadContent(payload.ID)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contentResponse{Content: body, Format: format})
}

func (s *Server) handleIndexView(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload listRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	view, err := s.store.IndexView()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleBoardView(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload listRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	view, err := s.store.BoardView()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTimelineView(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload timelineRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := requireID(payload.ID); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	view, err := s.store.TimelineView(payload.ID, payload.Page)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logf("panic handling request %s %s: %v\n%s", r.Method, r.URL.Path, recovered, debug.Stack())
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("task id is required")
	}
	return nil
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeStoreError maps store error signals onto HTTP statuses: missing tasks
// are 404, stale concurrency tokens are 409, frozen tasks are 423, and input
// validation failures are 400.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, task.ErrArchived):
		status = http.StatusLocked
	case errors.Is(err, task.ErrAmbiguousIDPrefix), task.IsValidation(err):
		status = http.StatusBadRequest
	}
	s.writeError(w, r, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if s.logger != nil {
		s.logger.Printf("request %s %s failed (%d): %v", r.Method, r.URL.Path, status, err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}
