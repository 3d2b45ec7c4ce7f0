// Package fixtureserver serves the fixtures the fetch client is exercised
// against: a JSON post, a route that sets cookies, and arbitrary status codes.
package fixtureserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/resultfetch/internal/logging"
)

// Post mirrors the shape of a jsonplaceholder post.
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Server is the fixture HTTP server.
type Server struct {
	cfg    Config
	router chi.Router
	logger logging.Logger
}

// New creates a fixture server. Call Handler for tests or ListenAndServe to
// bind cfg.Addr.
func New(cfg Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		logger: logger.With(logging.Field{Key: "component", Value: "fixtureserver"}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Get("/posts/{id}", s.handlePost)
	r.Get("/cookies", s.handleCookies)
	r.Get("/status/{code}", s.handleStatus)
	r.Get("/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.Addr until ctx is done, then shuts down.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, ready chan<- string) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	addr := ln.Addr().String()
	s.logger.Info("fixture server listening", logging.Field{Key: "addr", Value: addr})
	if ready != nil {
		ready <- addr
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		http.NotFound(w, r)
		return
	}

	post := Post{
		UserID: (id-1)/10 + 1,
		ID:     id,
		Title:  fmt.Sprintf("fixture post %d", id),
		Body:   "quia et suscipit\nsuscipit recusandae consequuntur expedita et cum",
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(post); err != nil {
		s.logger.Warn("encoding post", logging.Field{Key: "error", Value: err})
	}
}

func (s *Server) handleCookies(w http.ResponseWriter, _ *http.Request) {
	for _, c := range s.cfg.Cookies {
		http.SetCookie(w, c.httpCookie())
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 200 || code > 599 {
		http.Error(w, "bad status code", http.StatusBadRequest)
		return
	}
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, "status %d", code)
}
