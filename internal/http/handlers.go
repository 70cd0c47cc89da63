package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"clearspend/internal/analysis"
	"clearspend/internal/core"
	"clearspend/internal/log"
	"clearspend/internal/report"
	"clearspend/internal/statement"

	"github.com/shopspring/decimal"
)

// handleUploadStatement loads a CSV statement, classifies it and makes it
// the active session. The body is either a raw CSV or a multipart form
// with a "file" field.
func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	reader, cleanup, err := statementBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer cleanup()

	txs, err := statement.Load(reader, s.store)
	if err != nil {
		var malformed *core.MalformedStatementError
		if errors.As(err, &malformed) {
			slog.WarnContext(r.Context(), "Statement rejected", log.FieldError, err)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.setSession(txs)
	slog.InfoContext(r.Context(), "Statement loaded", log.FieldRows, len(txs))

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toTransactionJSON(txs),
		"summary":      buildSummary(txs),
	})
}

func statementBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "multipart/form-data" {
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, func() {}, errors.New("multipart upload requires a 'file' field")
		}
		return f, func() { f.Close() }, nil
	}
	return r.Body, func() {}, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, _ := s.session()
	writeJSON(w, http.StatusOK, map[string]any{"transactions": toTransactionJSON(txs)})
}

// handleEditTransaction applies a manual category edit to one row. The
// row's details text is learned as a keyword of the chosen category so
// future statements classify it automatically.
func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction index")
		return
	}

	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.store.Has(req.Category) {
		writeError(w, http.StatusUnprocessableEntity, "unknown category "+strconv.Quote(req.Category))
		return
	}

	s.mu.Lock()
	if !s.loaded || index < 0 || index >= len(s.txs) {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "no such transaction")
		return
	}
	s.txs[index].Category = req.Category
	details := s.txs[index].Details
	updated := s.txs[index]
	s.mu.Unlock()

	if !core.IsReserved(req.Category) {
		if _, err := s.store.AddKeyword(r.Context(), req.Category, details); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transaction": toTransactionJSON([]core.Transaction{updated})[0],
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	type categoryJSON struct {
		Name     string   `json:"name"`
		Keywords []string `json:"keywords"`
	}
	out := make([]categoryJSON, 0, len(snap))
	for _, e := range snap {
		kws := e.Keywords
		if kws == nil {
			kws = []string{}
		}
		out = append(out, categoryJSON{Name: e.Name, Keywords: kws})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := s.store.AddCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"added":      added,
		"categories": s.store.Categories(),
	})
}

func (s *Server) handleAddKeyword(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("name")
	var req struct {
		Keyword string `json:"keyword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := s.store.AddKeyword(r.Context(), category, req.Keyword)
	if err != nil {
		if errors.Is(err, core.ErrUnknownCategory) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Keyword rules changed; reclassify the loaded table so aggregates
	// stay consistent with the store.
	if added {
		s.reclassify()
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": added})
}

func (s *Server) reclassify() {
	snap := s.store.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		s.txs = statement.Classify(s.txs, snap)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	txs, _ := s.session()
	writeJSON(w, http.StatusOK, buildSummary(txs))
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limits map[string]decimal.Decimal `json:"limits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txs, _ := s.session()
	statuses := analysis.CompareBudget(req.Limits, txs)

	type budgetJSON struct {
		Category string          `json:"category"`
		Spent    decimal.Decimal `json:"spent"`
		Limit    decimal.Decimal `json:"limit"`
		Percent  int             `json:"percent"`
		Status   analysis.Status `json:"status"`
	}
	out := make([]budgetJSON, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, budgetJSON{
			Category: st.Category,
			Spent:    st.Spent,
			Limit:    st.Limit,
			Percent:  st.Percent,
			Status:   st.Status,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"budget": out})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.session()
	if !ok {
		writeError(w, http.StatusConflict, "no statement loaded")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="account_statement.csv"`)
	if err := report.WriteCSV(w, txs); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", log.FieldError, err)
	}
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.session()
	if !ok {
		writeError(w, http.StatusConflict, "no statement loaded")
		return
	}

	pdf, err := report.Generate(txs, s.renderer)
	if err != nil {
		slog.ErrorContext(r.Context(), "PDF export failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="account_statement.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}
