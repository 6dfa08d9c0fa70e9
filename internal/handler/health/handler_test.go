package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func get(t *testing.T, available bool, path string) map[string]string {
	t.Helper()
	r := chi.NewRouter()
	New(func() bool { return available }).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	return body
}

func TestHealthReportsUpstreamState(t *testing.T) {
	if body := get(t, true, "/health"); body["groq_api"] != "connected" || body["version"] != Version {
		t.Fatalf("unexpected body: %v", body)
	}
	if body := get(t, false, "/health"); body["groq_api"] != "disconnected" || body["status"] != "healthy" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRootIsStatic(t *testing.T) {
	body := get(t, false, "/")
	if body["message"] != "MindWell AI Backend is running!" || body["ai"] != "disconnected" {
		t.Fatalf("unexpected body: %v", body)
	}
}
