package taxhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pendler/internal/domain/tax"
	"pendler/internal/platform/metrics"
	"pendler/internal/transport/http/api"
	"pendler/internal/transport/http/middleware"
	"pendler/internal/transport/http/shared"
)

type Handler struct {
	Snapshots        *tax.SnapshotService
	Metrics          *metrics.Collector
	AutosaveInterval time.Duration
}

func NewHandler(snapshots *tax.SnapshotService, collector *metrics.Collector, autosaveInterval time.Duration) *Handler {
	return &Handler{Snapshots: snapshots, Metrics: collector, AutosaveInterval: autosaveInterval}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tax", func(r chi.Router) {
		r.Get("/config", h.handleConfig)
		r.Post("/calculate", h.handleCalculate)
		r.Post("/snapshots", h.handleSaveSnapshot)
		r.Get("/snapshots", h.handleLoadSnapshot)
		r.Get("/snapshots/{code}", h.handleLoadByCode)
		r.Post("/elster/validate", h.handleValidate)
		r.Post("/elster/xml", h.handleExportXML)
		r.Post("/elster/pdf", h.handleExportPDF)
	})
}

// handleConfig tells the wizard client how often to autosave; the cadence is
// an operator setting, not a client decision.
func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{
		"autosaveIntervalSeconds": int(h.AutosaveInterval.Seconds()),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var data tax.TaxWizardData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	data.ApplyDefaults()
	api.Success(w, tax.Calculate(data), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var data tax.TaxWizardData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	data.ApplyDefaults()

	code, err := h.Snapshots.Save(r.Context(), user.UserID, data, tax.Calculate(data))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "snapshot_save_failed", "failed to save draft", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"code": code}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	snapshot, code, err := h.Snapshots.Load(r.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, tax.ErrSnapshotNotFound) {
			api.Success(w, map[string]any{"found": false}, middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "snapshot_load_failed", "failed to load draft", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"found": true, "code": code, "snapshot": snapshot}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLoadByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	snapshot, err := h.Snapshots.LoadByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, tax.ErrInvalidCode) {
			api.Fail(w, http.StatusBadRequest, "invalid_code", "malformed form code", middleware.GetRequestID(r.Context()))
			return
		}
		if errors.Is(err, tax.ErrSnapshotNotFound) {
			api.Fail(w, http.StatusNotFound, "snapshot_not_found", "no draft stored under that code", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "snapshot_load_failed", "failed to load draft", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, snapshot, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var data tax.TaxWizardData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	data.ApplyDefaults()

	issues := tax.ValidateElsterData(data)
	api.Success(w, map[string]any{"valid": len(issues) == 0, "issues": issues}, middleware.GetRequestID(r.Context()))
}

// handleExportXML validates the wizard input and streams the ELSTER XML as a
// download.
func (h *Handler) handleExportXML(w http.ResponseWriter, r *http.Request) {
	var data tax.TaxWizardData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	data.ApplyDefaults()

	if issues := tax.ValidateElsterData(data); len(issues) > 0 {
		fields := make([]shared.ValidationIssue, 0, len(issues))
		for _, issue := range issues {
			fields = append(fields, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), fields)
		return
	}

	xml := tax.GenerateElsterXML(data, tax.Calculate(data))
	if h.Metrics != nil {
		h.Metrics.RecordExport()
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=elster-%s.xml", time.Now().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var data tax.TaxWizardData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	data.ApplyDefaults()

	pdf, err := tax.GenerateSummaryPDF(data, tax.Calculate(data))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render summary", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordExport()
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=pendlerpauschale-%s.pdf", time.Now().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
