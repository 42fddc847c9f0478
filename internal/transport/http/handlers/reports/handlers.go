package reportshandler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pendler/internal/domain/reports"
	"pendler/internal/platform/metrics"
	"pendler/internal/transport/http/api"
	"pendler/internal/transport/http/middleware"
	"pendler/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Store   *reports.Store
	Metrics *metrics.Collector
}

func NewHandler(service *reports.Service, store *reports.Store, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Store: store, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/summary", h.handleSummary)
		r.Get("/shift-register.csv", h.handleRegisterCSV)
		r.Get("/shift-register.xlsx", h.handleRegisterXLSX)
		r.Get("/jobs", h.handleJobRuns)
	})
}

func (h *Handler) dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	v := shared.NewValidator()
	from, fromOK := v.Date("from", r.URL.Query().Get("from"))
	to, toOK := v.Date("to", r.URL.Query().Get("to"))
	if fromOK && toOK {
		v.DateOrder("from", from, "to", to)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.Summary(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to build summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegisterCSV(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=shift-register-%s.csv", from.Format("2006-01-02")))
	if err := h.Service.WriteRegisterCSV(r.Context(), w, from, to); err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export register", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordExport()
	}
}

func (h *Handler) handleRegisterXLSX(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=shift-register-%s.xlsx", from.Format("2006-01-02")))
	if err := h.Service.WriteRegisterXLSX(r.Context(), w, from, to); err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export register", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordExport()
	}
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	runs, err := h.Store.ListJobRuns(r.Context(), r.URL.Query().Get("jobType"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_runs_failed", "failed to list job runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}
