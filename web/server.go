// Package web serves the policy compiler over HTTP, the backend for the
// playground and for editor integrations.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"

	"github.com/panyam/minsc/loader"
	"github.com/panyam/minsc/miniscript"
	"github.com/panyam/minsc/parser"
)

// CompileRequest is the body of POST /api/compile.
type CompileRequest struct {
	Source string `json:"source"`
}

// CompileResponse carries the compiled policy string and its tree.
type CompileResponse struct {
	Policy string             `json:"policy"`
	Tree   *miniscript.Policy `json:"tree"`
}

type errorResponse struct {
	Error string `json:"error"`

	// Incomplete means the source ran out mid construct. Editors use it to
	// keep the input open instead of flagging an error.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Server hosts the compile API.
type Server struct {
	Addr string

	loader *loader.Loader
	mux    *http.ServeMux
}

// NewServer builds a server compiling through the given loader. A nil
// loader compiles with no preloaded keys.
func NewServer(addr string, l *loader.Loader) *Server {
	if l == nil {
		l = loader.NewLoader(nil)
	}
	s := &Server{Addr: addr, loader: l, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/compile", s.handleCompile)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Handler returns the root handler with request logging attached.
func (s *Server) Handler() http.Handler {
	return withRequestMetrics(s.mux)
}

// withRequestMetrics logs one line per request with status, size and timing.
func withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration)
	})
}

// Start runs the server until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.Addr,
		Handler: s.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	slog.Info("listening", "addr", s.Addr)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}
	result, err := s.loader.LoadString(req.Source)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, CompileResponse{Policy: result.Compiled, Tree: result.Policy})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Incomplete: parser.IsIncomplete(err)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("writing response", "err", err)
	}
}
