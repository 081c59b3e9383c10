package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a11yrank/a11yrank/internal/core/domain"
	"github.com/a11yrank/a11yrank/internal/core/ports"
	"github.com/a11yrank/a11yrank/internal/observability/metrics"
)

// Deps carries everything the HTTP surface needs. Queue, feedback,
// cache and report writer are optional: their endpoints answer 501
// when the dependency was not configured.
type Deps struct {
	Analyser  ports.PageAnalyser
	Refresher ports.PageRefresher
	Batch     ports.BatchAnalyser
	Reader    ports.ResultReader
	Feedback  ports.FeedbackService
	Cache     ports.ResultCache
	Queue     ports.MessageQueue
	Report    ReportWriter
	Metrics   *metrics.HTTPServerMetrics
	Logger    *slog.Logger

	Service       string
	RatePerSecond float64
	RateBurst     int
}

type Router struct {
	deps Deps
	log  *slog.Logger
}

func NewRouter(deps Deps) *Router {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Router{deps: deps, log: log}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/analyses", rt.analyses)
	mux.HandleFunc("/v1/analyses/batch", rt.analyseBatch)
	mux.HandleFunc("/v1/analyses/async", rt.analyseAsync)
	mux.HandleFunc("/v1/feedback", rt.feedback)
	mux.HandleFunc("/v1/cache/stats", rt.cacheStats)
	mux.HandleFunc("/v1/reports/xlsx", rt.xlsxReport)
	if rt.deps.Metrics != nil {
		mux.Handle("/metrics", rt.deps.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rateLimitMiddleware(rt.deps.RatePerSecond, rt.deps.RateBurst, handler)
	if rt.deps.Metrics != nil {
		handler = rt.deps.Metrics.Middleware(rt.deps.Service, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyses runs a fresh analysis on POST and serves the cached result
// on GET. The GET form carries the page URL as a query parameter:
// GET /v1/analyses?url=https://example.com.
func (rt *Router) analyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.getAnalysis(w, r)
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		URL   string `json:"url"`
		Force bool   `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	var result *domain.AnalysisResult
	var err error
	if req.Force && rt.deps.Refresher != nil {
		result, err = rt.deps.Refresher.Refresh(r.Context(), req.URL)
	} else {
		result, err = rt.deps.Analyser.Analyse(r.Context(), req.URL)
	}
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	if result.Failed() {
		// The page could not be analysed; the descriptor explains why.
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) analyseBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	urls, ok := decodeURLList(w, r)
	if !ok {
		return
	}

	items, err := rt.deps.Batch.AnalyseBatch(r.Context(), urls)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (rt *Router) analyseAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if rt.deps.Queue == nil {
		writeError(w, http.StatusNotImplemented, "async analysis is not configured")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	if err := rt.deps.Queue.PublishAnalysisRequested(r.Context(), req.URL); err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "url": req.URL})
}

func (rt *Router) getAnalysis(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	result, err := rt.deps.Reader.GetResult(r.Context(), rawURL)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// feedback serves narrative advice for an analysed page:
// GET /v1/feedback?url=https://example.com.
func (rt *Router) feedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if rt.deps.Feedback == nil {
		writeError(w, http.StatusNotImplemented, "feedback generation is not configured")
		return
	}
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}
	advice, err := rt.deps.Feedback.Feedback(r.Context(), rawURL)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": rawURL, "feedback": advice})
}

func (rt *Router) cacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if rt.deps.Cache == nil {
		writeError(w, http.StatusNotImplemented, "cache is not configured")
		return
	}
	stats, err := rt.deps.Cache.Stats(r.Context())
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) xlsxReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if rt.deps.Report == nil {
		writeError(w, http.StatusNotImplemented, "report generation is not configured")
		return
	}

	urls, ok := decodeURLList(w, r)
	if !ok {
		return
	}

	items, err := rt.deps.Batch.AnalyseBatch(r.Context(), urls)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="a11yrank-report.xlsx"`)
	if err := rt.deps.Report.WriteBatchReport(w, items); err != nil {
		rt.log.Error("xlsx_report_failed", "error", err)
	}
}

func decodeURLList(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return nil, false
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls are required")
		return nil, false
	}
	return req.URLs, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
