package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pendler/internal/domain/employee"
	"pendler/internal/transport/http/api"
	"pendler/internal/transport/http/middleware"
	"pendler/internal/transport/http/shared"
)

type Handler struct {
	Store *employee.Store
}

func NewHandler(store *employee.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleUpsert)
		r.Get("/me", h.handleMe)
		r.Get("/{userID}", h.handleGet)
	})
	r.Get("/positions", h.handleListPositions)
	r.Route("/assignments", func(r chi.Router) {
		r.Post("/", h.handleAssign)
		r.Delete("/{userID}", h.handleDeactivate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Store.ListProfiles(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_list_failed", "failed to list profiles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profiles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var payload employee.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("userId", payload.UserID, "user id is required")
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.UpsertProfile(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_save_failed", "failed to save profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	h.writeProfile(w, r, user.UserID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.writeProfile(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := h.Store.ProfileByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, employee.ErrProfileNotFound) {
			api.Fail(w, http.StatusNotFound, "profile_not_found", "no profile for that user", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile_load_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.Store.ListPositions(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "position_list_failed", "failed to list positions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, positions, middleware.GetRequestID(r.Context()))
}

type assignPayload struct {
	UserID        string `json:"userId"`
	PositionID    string `json:"positionId"`
	WorkGroup     int    `json:"workGroup"`
	ReferenceDate string `json:"referenceDate"`
	ReferenceWeek int    `json:"referenceWeek"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	var payload assignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("userId", payload.UserID, "user id is required")
	v.Required("positionId", payload.PositionID, "position is required")
	if payload.WorkGroup <= 0 {
		v.Add("workGroup", "must be a positive work group number")
	}
	if payload.ReferenceWeek <= 0 {
		v.Add("referenceWeek", "must be a positive cycle week")
	}
	referenceDate, _ := v.Date("referenceDate", payload.ReferenceDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.AssignPosition(r.Context(), employee.AssignmentRequest{
		UserID:        payload.UserID,
		PositionID:    payload.PositionID,
		WorkGroup:     payload.WorkGroup,
		ReferenceDate: referenceDate,
		ReferenceWeek: payload.ReferenceWeek,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "assignment_failed", "failed to assign position", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeactivateAssignment(r.Context(), chi.URLParam(r, "userID")); err != nil {
		api.Fail(w, http.StatusNotFound, "assignment_not_found", "no active assignment for that user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}
