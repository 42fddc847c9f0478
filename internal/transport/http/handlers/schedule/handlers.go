package schedulehandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pendler/internal/domain/schedule"
	"pendler/internal/platform/encoding"
	"pendler/internal/platform/metrics"
	"pendler/internal/transport/http/api"
	"pendler/internal/transport/http/middleware"
	"pendler/internal/transport/http/shared"
)

const maxScheduleUploadBytes = 8 * 1024 * 1024

type Handler struct {
	Service *schedule.Service
	Metrics *metrics.Collector
}

func NewHandler(service *schedule.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schedules", func(r chi.Router) {
		r.Post("/upload", h.handleUpload)
		r.Post("/detect", h.handleDetect)
		r.Post("/import", h.handleImport)
		r.Post("/{scheduleID}/deactivate", h.handleDeactivate)
		r.Delete("/{scheduleID}", h.handleDelete)
	})
	r.Route("/shifts", func(r chi.Router) {
		r.Get("/", h.handleListShifts)
		r.Post("/generate", h.handleGenerate)
		r.Post("/generate-all", h.handleGenerateAll)
	})
}

// handleUpload parses an uploaded .xlsx plan and returns the normalized
// records as a preview; nothing is persisted until /schedules/import.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxScheduleUploadBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "invalid multipart upload", middleware.GetRequestID(r.Context()))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "missing_file", "file field is required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	result, err := schedule.ParseWorkbook(file, header.Filename)
	if err != nil {
		var parseErr *schedule.ParseError
		if errors.As(err, &parseErr) {
			api.Fail(w, http.StatusUnprocessableEntity, "parse_failed", parseErr.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_workbook", "could not read workbook", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

// handleDetect inspects an uploaded JSON backup and reports the most likely
// schedule format. Advisory only; it never fails on malformed input.
func (h *Handler) handleDetect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxScheduleUploadBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "invalid multipart upload", middleware.GetRequestID(r.Context()))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "missing_file", "file field is required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "could not read file", middleware.GetRequestID(r.Context()))
		return
	}
	raw, err := encoding.NormalizeUTF8(body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_encoding", "could not decode file", middleware.GetRequestID(r.Context()))
		return
	}
	analysis := schedule.DetectFormat(raw, header.Filename)
	api.Success(w, analysis, middleware.GetRequestID(r.Context()))
}

type importPayload struct {
	PositionID string                `json:"positionId"`
	WorkGroup  int                   `json:"workGroup"`
	Name       string                `json:"name"`
	Result     *schedule.ParseResult `json:"result"`
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var payload importPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("positionId", payload.PositionID, "position is required")
	if payload.WorkGroup <= 0 {
		v.Add("workGroup", "must be a positive work group number")
	}
	if payload.Result == nil || len(payload.Result.Records) == 0 {
		v.Add("result", "parsed schedule records are required")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" && payload.Result != nil {
		name = payload.Result.Metadata.FileName
	}

	id, err := h.Service.ImportParsed(r.Context(), payload.PositionID, payload.WorkGroup, name, payload.Result)
	if err != nil {
		if errors.Is(err, schedule.ErrEmptySchedule) {
			api.Fail(w, http.StatusUnprocessableEntity, "empty_schedule", "schedule contains no working shifts", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "import_failed", "failed to import schedule", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordImport()
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")
	if err := h.Service.DeactivateSchedule(r.Context(), scheduleID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "deactivate_failed", "failed to deactivate schedule", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")
	if err := h.Service.DeleteSchedule(r.Context(), scheduleID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete schedule", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListShifts(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	userID := user.UserID
	if override := r.URL.Query().Get("userId"); override != "" {
		userID = override
	}

	v := shared.NewValidator()
	from, fromOK := v.Date("from", r.URL.Query().Get("from"))
	to, toOK := v.Date("to", r.URL.Query().Get("to"))
	if fromOK && toOK {
		v.DateOrder("from", from, "to", to)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	shifts, err := h.Service.ListShifts(r.Context(), userID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "shift_list_failed", "failed to list shifts", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, shifts, middleware.GetRequestID(r.Context()))
}

type generatePayload struct {
	UserID string `json:"userId"`
	From   string `json:"from"`
	To     string `json:"to"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	userID := payload.UserID
	if userID == "" {
		userID = user.UserID
	}

	v := shared.NewValidator()
	from, fromOK := v.Date("from", payload.From)
	to, toOK := v.Date("to", payload.To)
	if fromOK && toOK {
		v.DateOrder("from", from, "to", to)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.GenerateUserShifts(r.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			api.Fail(w, http.StatusBadRequest, "invalid_range", "invalid date range", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "generate_failed", "failed to generate shifts", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil && result.Success {
		h.Metrics.RecordShiftsGenerated(result.Generated)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	from, fromOK := v.Date("from", payload.From)
	to, toOK := v.Date("to", payload.To)
	if fromOK && toOK {
		v.DateOrder("from", from, "to", to)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.GenerateAllShifts(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			api.Fail(w, http.StatusBadRequest, "invalid_range", "invalid date range", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "generate_failed", "failed to generate shifts", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordShiftsGenerated(result.Generated)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
