// Package handler provides HTTP handlers for the Text Warden API.
package handler

import (
	"cmp"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/chunk"
	"github.com/sevigo/text-warden/internal/core"
	"github.com/sevigo/text-warden/internal/lint"
)

const maxBodyBytes = 8 << 20

// AnalysisHandler exposes a single orchestrator over HTTP.
type AnalysisHandler struct {
	orch   *analysis.Orchestrator
	logger *slog.Logger
}

// NewAnalysisHandler creates a handler for orch.
func NewAnalysisHandler(orch *analysis.Orchestrator, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AnalysisHandler{orch: orch, logger: logger}
}

type analyzeRequest struct {
	Text    string       `json:"text"`
	Visible *chunk.Range `json:"visible,omitempty"`
	// Confirm answers the large-input prompt for this request. When unset
	// the server default applies.
	Confirm *bool `json:"confirm,omitempty"`
}

type analyzeResponse struct {
	Scheduled []chunk.Key  `json:"scheduled"`
	Counts    *core.Counts `json:"counts"`
	Issues    []core.Issue `json:"issues,omitempty"`
	Errors    []string     `json:"errors,omitempty"`
}

// Analyze handles POST /api/v1/analysis. With ?wait=true the response is
// written after every lint job has finished.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decode(w, r, &req) {
		return
	}

	wait, err := parseBool(r.URL.Query().Get("wait"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "wait must be a boolean")
		return
	}

	visible := chunk.Range{Start: 0, End: len(req.Text)}
	if req.Visible != nil {
		visible = *req.Visible
	}

	ctx := r.Context()
	if req.Confirm != nil {
		ctx = core.WithConfirmation(ctx, *req.Confirm)
	}

	sub := h.orch.OnTextChanged(ctx, req.Text, visible)
	resp := analyzeResponse{Scheduled: sub.Keys()}
	if counts, ok := h.orch.State().Counts(); ok {
		resp.Counts = &counts
	}

	if !wait {
		h.logger.Debug("analysis scheduled", "chunks", len(sub))
		writeJSON(w, http.StatusAccepted, resp)
		return
	}

	results, err := sub.Wait(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		h.logger.Warn("some chunks failed to lint", "error", err)
		resp.Errors = errorLines(err)
	}
	resp.Issues = absoluteIssues(results)
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/analysis. Issue spans are absolute.
func (h *AnalysisHandler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newSnapshotView(h.orch.State().Snapshot()))
}

type optionsRequest struct {
	EnableLinting    *bool `json:"enable_linting,omitempty"`
	WarnOnLargeInput *bool `json:"warn_on_large_input,omitempty"`
}

type optionsResponse struct {
	EnableLinting    bool        `json:"enable_linting"`
	WarnOnLargeInput bool        `json:"warn_on_large_input"`
	Locale           string      `json:"locale"`
	Region           string      `json:"region"`
	Scheduled        []chunk.Key `json:"scheduled,omitempty"`
}

// UpdateOptions handles PUT /api/v1/options.
func (h *AnalysisHandler) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if !decode(w, r, &req) {
		return
	}

	if req.WarnOnLargeInput != nil {
		h.orch.SetWarnOnLargeInput(*req.WarnOnLargeInput)
	}
	var sub analysis.Submission
	if req.EnableLinting != nil {
		sub = h.orch.ToggleLinting(r.Context(), *req.EnableLinting)
	}

	writeJSON(w, http.StatusOK, h.options(sub))
}

type regionRequest struct {
	Region string `json:"region"`
}

// UpdateRegion handles PUT /api/v1/linting/region.
func (h *AnalysisHandler) UpdateRegion(w http.ResponseWriter, r *http.Request) {
	var req regionRequest
	if !decode(w, r, &req) {
		return
	}

	sub, err := h.orch.UpdateLintingRegion(r.Context(), req.Region)
	switch {
	case errors.Is(err, analysis.ErrLintingUnsupported):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, lint.ErrUnknownRegion):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to update linting region", "region", req.Region, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update linting region")
		return
	}

	writeJSON(w, http.StatusOK, h.options(sub))
}

// Regions handles GET /api/v1/linting/regions.
func (h *AnalysisHandler) Regions(w http.ResponseWriter, _ *http.Request) {
	opts := h.orch.Options()
	regions, err := lint.Regions(opts.Locale)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locale":  opts.Locale,
		"current": opts.Region,
		"best":    lint.BestMatchingRegion(opts.Locale, opts.PreferredLocales),
		"regions": regions,
	})
}

func (h *AnalysisHandler) options(sub analysis.Submission) optionsResponse {
	opts := h.orch.Options()
	return optionsResponse{
		EnableLinting:    opts.EnableLinting,
		WarnOnLargeInput: opts.WarnOnLargeInput,
		Locale:           opts.Locale,
		Region:           opts.Region,
		Scheduled:        sub.Keys(),
	}
}

func absoluteIssues(results []analysis.ChunkResult) []core.Issue {
	var issues []core.Issue
	for _, r := range results {
		if r.Discarded {
			continue
		}
		issues = append(issues, r.Absolute()...)
	}
	slices.SortFunc(issues, func(a, b core.Issue) int {
		return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
	})
	return issues
}

func errorLines(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		lines := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			lines = append(lines, e.Error())
		}
		return lines
	}
	return []string{err.Error()}
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
