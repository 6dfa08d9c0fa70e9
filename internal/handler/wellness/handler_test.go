package wellness

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	wellnessService "github.com/mindwell-ai/mindwell/backend/internal/service/wellness"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(wellnessService.NewService(wellnessService.NewMemoryStore())).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != "" {
		payload = bytes.NewBufferString(body)
	} else {
		payload = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestMoodRoundTrip(t *testing.T) {
	r := setupRouter()

	resp := do(r, http.MethodPost, "/mood/add", `{"user_id":7,"mood":"calm","note":"slept well"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var saved struct {
		Msg  string `json:"msg"`
		Data struct {
			ID     string `json:"id"`
			UserID int    `json:"user_id"`
			Mood   string `json:"mood"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if saved.Msg != "Mood saved!" || saved.Data.ID == "" || saved.Data.Mood != "calm" {
		t.Fatalf("unexpected body: %+v", saved)
	}

	resp = do(r, http.MethodGet, "/mood/history/7", "")
	var history []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(history) != 1 || history[0]["note"] != "slept well" {
		t.Fatalf("unexpected history: %v", history)
	}
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	r := setupRouter()
	for _, path := range []string{"/mood/history/99", "/journal/99", "/habit/99"} {
		resp := do(r, http.MethodGet, path, "")
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
		if got := bytes.TrimSpace(resp.Body.Bytes()); string(got) != "[]" {
			t.Fatalf("%s: expected [], got %s", path, got)
		}
	}
}

func TestJournalAdd(t *testing.T) {
	r := setupRouter()

	resp := do(r, http.MethodPost, "/journal/add", `{"user_id":3,"text":"dear diary"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var saved map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &saved)
	if saved["msg"] != "Journal saved" {
		t.Fatalf("unexpected body: %v", saved)
	}

	resp = do(r, http.MethodGet, "/journal/3", "")
	var entries []map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &entries)
	if len(entries) != 1 || entries[0]["text"] != "dear diary" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestAnxietyTestBands(t *testing.T) {
	r := setupRouter()
	cases := map[string]string{
		`[1,1,1,1]`:   "Minimal anxiety",
		`[2,2,1]`:     "Mild anxiety",
		`[3,3,3,1]`:   "Moderate anxiety",
		`[3,3,3,3,3]`: "Severe anxiety",
	}
	for answers, want := range cases {
		resp := do(r, http.MethodPost, "/anxiety_test", `{"user_id":1,"answers":`+answers+`}`)
		var body struct {
			Score int    `json:"score"`
			Level string `json:"level"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode err: %v", err)
		}
		if body.Level != want {
			t.Fatalf("answers %s: got %q (score %d) want %q", answers, body.Level, body.Score, want)
		}
	}
}

func TestHabitLifecycle(t *testing.T) {
	r := setupRouter()

	resp := do(r, http.MethodPost, "/habit/add", `{"user_id":5,"habit":"walk"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(r, http.MethodPost, "/habit/complete?user_id=5&habit=walk", "")
	var updated map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &updated)
	if resp.Code != http.StatusOK || updated["msg"] != "Habit updated!" {
		t.Fatalf("unexpected complete response %d: %v", resp.Code, updated)
	}

	resp = do(r, http.MethodPost, "/habit/complete?user_id=5&habit=read", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected no-op completion to succeed, got %d", resp.Code)
	}

	resp = do(r, http.MethodGet, "/habit/5", "")
	var habits []struct {
		Habit     string `json:"habit"`
		Completed bool   `json:"completed"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &habits)
	if len(habits) != 1 || !habits[0].Completed {
		t.Fatalf("unexpected habits: %+v", habits)
	}
}

func TestValidationErrors(t *testing.T) {
	r := setupRouter()
	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/mood/add", `{"mood":"sad"}`},
		{http.MethodPost, "/mood/add", `{"user_id":1}`},
		{http.MethodPost, "/journal/add", `{"user_id":1}`},
		{http.MethodPost, "/anxiety_test", `{"user_id":1}`},
		{http.MethodPost, "/habit/add", `{"user_id":1,"habit":"  "}`},
		{http.MethodPost, "/habit/complete?user_id=abc&habit=walk", ""},
		{http.MethodGet, "/mood/history/abc", ""},
		{http.MethodPost, "/mood/add", `not json`},
	}
	for _, tc := range cases {
		resp := do(r, tc.method, tc.path, tc.body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s %s %s: expected 400, got %d", tc.method, tc.path, tc.body, resp.Code)
		}
	}
}
