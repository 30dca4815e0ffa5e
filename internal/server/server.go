// internal/server/server.go
// Package server exposes the agent over a single HTTP endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tmcfarlane/valet/internal/logging"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Responder answers a single user message. Each request is a fresh
// conversation; the server keeps no cross-request memory.
type Responder interface {
	Answer(ctx context.Context, message string) (string, error)
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of any non-200 response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server drives the agent from HTTP requests. Inference is serialized with
// a mutex: one local model, one request at a time.
type Server struct {
	mu    sync.Mutex
	agent Responder
}

// New constructs a Server around the given responder.
func New(agent Responder) *Server {
	return &Server{agent: agent}
}

// Handler returns the HTTP handler, with any-origin CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /chat", s.handleChat)
	return withCORS(mux)
}

// Run serves the handler on addr until the listener fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logging.LogEvent("listening on %s", addr)
	return srv.ListenAndServe()
}

// withCORS permits cross-origin requests from any origin and answers
// preflight requests directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logging.LogEvent("chat request %s from %s", requestID, r.RemoteAddr)

	defer func() {
		if rec := recover(); rec != nil {
			logging.LogEvent("chat request %s panicked: %v", requestID, rec)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "An internal error occurred."})
		}
	}()

	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		logging.LogEvent("chat request %s rejected: %v", requestID, err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		logging.LogEvent("chat request %s rejected: empty message", requestID)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "message is required"})
		return
	}

	s.mu.Lock()
	answer, err := s.agent.Answer(r.Context(), req.Message)
	s.mu.Unlock()
	if err != nil {
		logging.LogEvent("chat request %s failed: %v", requestID, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "An internal error occurred."})
		return
	}

	logging.LogEvent("chat request %s answered (%d bytes)", requestID, len(answer))
	writeJSON(w, http.StatusOK, ChatResponse{Response: answer})
}

func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
