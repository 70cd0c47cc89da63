// Package http exposes the analyzer to the display layer as a JSON API:
// statement upload, category edits, budget comparison and report export.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"clearspend/internal/categories"
	"clearspend/internal/core"
	"clearspend/internal/log"
	"clearspend/internal/report"
)

// Server holds the single active analysis session: the category store and
// the currently loaded, classified transaction table.
type Server struct {
	http.Server
	store    *categories.Store
	renderer report.ChartRenderer

	mu     sync.Mutex
	txs    []core.Transaction
	loaded bool
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, store *categories.Store, renderer report.ChartRenderer) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:    store,
		renderer: renderer,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /statement", s.withMiddleware(s.handleUploadStatement))
	mux.HandleFunc("GET /transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("PATCH /transactions/{index}", s.withMiddleware(s.handleEditTransaction))

	mux.HandleFunc("GET /categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.withMiddleware(s.handleAddCategory))
	mux.HandleFunc("POST /categories/{name}/keywords", s.withMiddleware(s.handleAddKeyword))

	mux.HandleFunc("GET /summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("POST /budget", s.withMiddleware(s.handleBudget))

	mux.HandleFunc("GET /export/csv", s.withMiddleware(s.handleExportCSV))
	mux.HandleFunc("GET /export/pdf", s.withMiddleware(s.handleExportPDF))

	return s
}

// withMiddleware adds security headers and request logging with a
// generated request ID.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// session returns a copy of the loaded transaction table.
func (s *Server) session() ([]core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, false
	}
	txs := make([]core.Transaction, len(s.txs))
	copy(txs, s.txs)
	return txs, true
}

func (s *Server) setSession(txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = txs
	s.loaded = true
}
