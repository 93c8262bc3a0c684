// Package server is the generation intermediary. It holds the upstream
// credential so the window never sees it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/olivierh59500/spatial-forge/internal/forge"
	"github.com/olivierh59500/spatial-forge/internal/history"
)

// Config holds intermediary settings.
type Config struct {
	Addr        string
	Instruction string // Used when a request carries none
	Verbose     bool
}

// Upstream generates text from a full prompt.
type Upstream interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recorder persists generation attempts.
type Recorder interface {
	Add(ctx context.Context, r history.Record) (int64, error)
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}

// Stats tracks request counters.
type Stats struct {
	Requests  int64     `json:"requests"`
	Failures  int64     `json:"failures"`
	StartedAt time.Time `json:"started_at"`
}

// Server serves /api/forge, /api/history and /healthz.
type Server struct {
	cfg      Config
	upstream Upstream
	store    Recorder

	mu    sync.Mutex
	stats Stats
}

// New creates a server. store may be nil to disable history.
func New(cfg Config, upstream Upstream, store Recorder) *Server {
	if cfg.Instruction == "" {
		cfg.Instruction = forge.DefaultInstruction
	}
	return &Server{
		cfg:      cfg,
		upstream: upstream,
		store:    store,
		stats:    Stats{StartedAt: time.Now()},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/forge", s.handleForge)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("forge intermediary listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// Prompt builds the upstream prompt from an instruction and a payload.
func Prompt(instruction, payload string) string {
	return strings.TrimSpace(instruction) + " " + payload
}

func (s *Server) handleForge(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req forge.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, forge.Response{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Payload) == "" {
		writeJSON(w, http.StatusBadRequest, forge.Response{Error: "payload is empty"})
		return
	}
	instruction := req.Instruction
	if strings.TrimSpace(instruction) == "" {
		instruction = s.cfg.Instruction
	}

	text, err := s.upstream.Generate(r.Context(), Prompt(instruction, req.Payload))
	elapsed := time.Since(start)

	rec := history.Record{
		Payload:     req.Payload,
		Instruction: instruction,
		Text:        text,
		Duration:    elapsed,
		CreatedAt:   start,
	}
	if err != nil {
		rec.Text = ""
		rec.Error = err.Error()
	}
	s.record(r.Context(), rec)

	s.mu.Lock()
	s.stats.Requests++
	if err != nil {
		s.stats.Failures++
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("forge: upstream failed after %s: %v", elapsed.Round(time.Millisecond), err)
		writeJSON(w, http.StatusBadGateway, forge.Response{Error: "upstream generation failed"})
		return
	}
	if s.cfg.Verbose {
		log.Printf("forge: %q -> %d chars (%s)", req.Payload, len(text), elapsed.Round(time.Millisecond))
	}
	writeJSON(w, http.StatusOK, forge.Response{Text: text})
}

func (s *Server) record(ctx context.Context, rec history.Record) {
	if s.store == nil {
		return
	}
	if _, err := s.store.Add(context.WithoutCancel(ctx), rec); err != nil {
		log.Printf("forge: failed to record generation: %v", err)
	}
}

// HistoryEntry is the JSON form of a history record.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	Payload     string    `json:"payload"`
	Instruction string    `json:"instruction"`
	Text        string    `json:"text,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []HistoryEntry{})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, forge.Response{Error: "invalid limit"})
			return
		}
		limit = n
	}

	recs, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("forge: failed to read history: %v", err)
		writeJSON(w, http.StatusInternalServerError, forge.Response{Error: "history unavailable"})
		return
	}

	out := make([]HistoryEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, HistoryEntry{
			ID:          rec.ID,
			Payload:     rec.Payload,
			Instruction: rec.Instruction,
			Text:        rec.Text,
			Error:       rec.Error,
			DurationMS:  rec.Duration.Milliseconds(),
			CreatedAt:   rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.stats
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "running",
		"uptime":   time.Since(stats.StartedAt).Round(time.Second).String(),
		"requests": stats.Requests,
		"failures": stats.Failures,
	})
}

// Snapshot returns a copy of the counters.
func (s *Server) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
