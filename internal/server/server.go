// Package server exposes the todo collection over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"taskdeck/internal/storage"
	"taskdeck/internal/todo"
)

const maxBodyBytes = 1 << 20

// Store is the persistence the handlers need.
type Store interface {
	ListTodos(ctx context.Context, userID int) ([]todo.Todo, error)
	CreateTodo(ctx context.Context, userID int, title string, completed bool) (todo.Todo, error)
	UpdateTodo(ctx context.Context, id int, p storage.Patch) (todo.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
}

type Server struct {
	store   Store
	logger  *log.Logger
	schemas *schemas
	mux     *http.ServeMux
}

func New(store Store, logger *log.Logger) (*Server, error) {
	sc, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:   store,
		logger:  logger,
		schemas: sc,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /todos", s.handleList)
	s.mux.HandleFunc("POST /todos", s.handleCreate)
	s.mux.HandleFunc("PATCH /todos/{id}", s.handleUpdate)
	s.mux.HandleFunc("PUT /todos/{id}", s.handleUpdate)
	s.mux.HandleFunc("DELETE /todos/{id}", s.handleDelete)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start).Round(time.Microsecond),
	)
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil || userID < 1 {
		writeError(w, http.StatusBadRequest, "userId query parameter must be a positive integer")
		return
	}
	todos, err := s.store.ListTodos(r.Context(), userID)
	if err != nil {
		s.internalError(w, "list todos", err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

type createBody struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if err := validate(s.schemas.create, raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body createBody
	if err := json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "/title: must not be blank")
		return
	}
	created, err := s.store.CreateTodo(r.Context(), body.UserID, title, body.Completed)
	if err != nil {
		s.internalError(w, "create todo", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type updateBody struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	raw, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if err := validate(s.schemas.update, raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body updateBody
	if err := json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Title != nil {
		trimmed := strings.TrimSpace(*body.Title)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, "/title: must not be blank")
			return
		}
		body.Title = &trimmed
	}

	updated, err := s.store.UpdateTodo(r.Context(), id, storage.Patch{Title: body.Title, Completed: body.Completed})
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("todo %d not found", id))
		return
	}
	if err != nil {
		s.internalError(w, "update todo", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := s.store.DeleteTodo(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("todo %d not found", id))
		return
	}
	if err != nil {
		s.internalError(w, "delete todo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return nil, false
	}
	return raw, true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
