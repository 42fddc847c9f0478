package taxhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"pendler/internal/auth"
	"pendler/internal/domain/tax"
	"pendler/internal/platform/metrics"
	"pendler/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type fakeSnapshotStore struct {
	byUser map[string]tax.StoredSnapshot
	byCode map[string]tax.StoredSnapshot
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{
		byUser: map[string]tax.StoredSnapshot{},
		byCode: map[string]tax.StoredSnapshot{},
	}
}

func (f *fakeSnapshotStore) UpsertSnapshot(_ context.Context, snap tax.StoredSnapshot) error {
	f.byUser[snap.UserID+"|"+snap.FormType] = snap
	f.byCode[snap.Code] = snap
	return nil
}

func (f *fakeSnapshotStore) SnapshotByUser(_ context.Context, userID, formType string) (tax.StoredSnapshot, error) {
	snap, ok := f.byUser[userID+"|"+formType]
	if !ok {
		return tax.StoredSnapshot{}, tax.ErrSnapshotNotFound
	}
	return snap, nil
}

func (f *fakeSnapshotStore) SnapshotByCode(_ context.Context, code string) (tax.StoredSnapshot, error) {
	snap, ok := f.byCode[code]
	if !ok {
		return tax.StoredSnapshot{}, tax.ErrSnapshotNotFound
	}
	return snap, nil
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	service := tax.NewSnapshotService(newFakeSnapshotStore(), tax.NewLocalStore(t.TempDir()), nil)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	NewHandler(service, metrics.New(), 30*time.Second).RegisterRoutes(router)
	return router
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: userID}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func wizardPayload() map[string]any {
	return map[string]any{
		"personal": map[string]any{
			"firstName": "Jana",
			"lastName":  "Novakova",
			"address":   "Hauptstrasse 12, 02826 Goerlitz",
			"taxId":     "12345678901",
		},
		"employment": map[string]any{
			"employerName":      "DHL Hub Goerlitz",
			"annualIncome":      32000,
			"taxClass":          "1",
			"commuteDistanceKm": 40,
			"workDaysPerYear":   220,
		},
		"reisepauschale": map[string]any{"transportType": "car"},
	}
}

func postJSON(t *testing.T, router chi.Router, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCalculateEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/tax/calculate", "", wizardPayload())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool                     `json:"success"`
		Data    tax.TaxCalculationResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	// 20 km at 0.30 + 20 km at 0.38, times 220 work days.
	if envelope.Data.CommuteDeduction != 2992.00 {
		t.Fatalf("commute deduction = %v, want 2992.00", envelope.Data.CommuteDeduction)
	}
}

func TestSnapshotEndpointsRequireAuth(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/tax/snapshots", "", wizardPayload())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSnapshotSaveAndLoadRoundTrip(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, "user-1")

	rec := postJSON(t, router, "/tax/snapshots", token, wizardPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	code := created.Data["code"]
	if !tax.ValidCode(code) {
		t.Fatalf("invalid code %q", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/tax/snapshots", nil)
	req.Header.Set("Authorization", token)
	loadRec := httptest.NewRecorder()
	router.ServeHTTP(loadRec, req)
	if loadRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", loadRec.Code)
	}
	if !strings.Contains(loadRec.Body.String(), code) {
		t.Fatalf("load response missing code %q: %s", code, loadRec.Body.String())
	}

	byCode := httptest.NewRequest(http.MethodGet, "/tax/snapshots/"+code, nil)
	byCodeRec := httptest.NewRecorder()
	router.ServeHTTP(byCodeRec, byCode)
	if byCodeRec.Code != http.StatusOK {
		t.Fatalf("expected 200 by code, got %d", byCodeRec.Code)
	}
}

func TestExportXMLRejectsInvalidData(t *testing.T) {
	router := newTestRouter(t)
	payload := wizardPayload()
	payload["personal"].(map[string]any)["taxId"] = "123"

	rec := postJSON(t, router, "/tax/elster/xml", "", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "validation_error") {
		t.Fatalf("expected validation error envelope: %s", rec.Body.String())
	}
}

func TestExportXMLStreamsDocument(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/tax/elster/xml", "", wizardPayload())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/xml") {
		t.Fatalf("unexpected content type %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<Entfernungspauschale>") || !strings.Contains(body, "<Betrag>299200</Betrag>") {
		t.Fatalf("commute cents missing from XML: %s", body)
	}
}

func TestExportPDFStreamsDocument(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/tax/elster/pdf", "", wizardPayload())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("response is not a PDF document")
	}
}
