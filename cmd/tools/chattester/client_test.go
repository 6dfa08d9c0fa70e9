package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(srv *httptest.Server) *client {
	return &client{
		baseURL:  srv.URL,
		userID:   "cli",
		userName: "Tester",
		mood:     4,
		timeout:  2 * time.Second,
		http:     srv.Client(),
	}
}

func TestReadEventsCollectsDeltas(t *testing.T) {
	stream := "event: start\ndata: {\"user_id\":\"cli\"}\n\n" +
		"event: delta\ndata: {\"content\":\"Breathe \"}\n\n" +
		"event: delta\ndata: {\"content\":\"slowly.\"}\n\n" +
		"event: end\ndata: {\"response\":\"Breathe slowly.\",\"mood_analysis\":\"encouraging\",\"finished\":true}\n\n"

	var got strings.Builder
	resp, err := readEvents(strings.NewReader(stream), func(d string) { got.WriteString(d) })
	if err != nil {
		t.Fatalf("readEvents err: %v", err)
	}
	if got.String() != "Breathe slowly." || resp.Response != "Breathe slowly." || resp.MoodAnalysis != "encouraging" {
		t.Fatalf("unexpected result: deltas=%q resp=%+v", got.String(), resp)
	}
}

func TestReadEventsReturnsErrorEvent(t *testing.T) {
	stream := "event: error\ndata: {\"error\":\"AI service error: boom\",\"fallback\":\"call 988\"}\n\n"
	if _, err := readEvents(strings.NewReader(stream), nil); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected error event to surface, got %v", err)
	}
}

func TestReadEventsRequiresEnd(t *testing.T) {
	if _, err := readEvents(strings.NewReader("event: delta\ndata: {\"content\":\"x\"}\n\n"), nil); err == nil {
		t.Fatal("expected error for truncated stream")
	}
}

func TestChatSendsRequestFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path != "/api/chat" || body["user_id"] != "cli" || body["mood"] != float64(4) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unexpected request"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "hello", "mood_analysis": "encouraging"})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Chat err: %v", err)
	}
	if resp.Response != "hello" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestChatSurfacesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "AI service error: down", "fallback": "call 988"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Chat(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "call 988") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTipsAndHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/mood-tips/2":
			_ = json.NewEncoder(w).Encode(map[string]any{"mood_level": 2, "tips": []string{"a", "b"}})
		case "/health":
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "groq_api": "connected"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv)
	tips, err := c.Tips(context.Background(), 2)
	if err != nil || len(tips) != 2 {
		t.Fatalf("Tips = %v, %v", tips, err)
	}
	status, err := c.Health(context.Background())
	if err != nil || status["groq_api"] != "connected" {
		t.Fatalf("Health = %v, %v", status, err)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"chat": false, "stream": false, "ws": false, "tips": false, "health": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %s not registered", name)
		}
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"tips", "abc"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected non-integer level to fail")
	}
}

func TestReadEventsHandlesLongLines(t *testing.T) {
	reply := strings.Repeat("calm ", 40*1024)
	end, err := json.Marshal(map[string]any{"response": reply, "mood_analysis": "supportive", "finished": true})
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	stream := "event: end\ndata: " + string(end) + "\n\n"

	resp, err := readEvents(strings.NewReader(stream), nil)
	if err != nil {
		t.Fatalf("readEvents err: %v", err)
	}
	if resp.Response != reply {
		t.Fatalf("reply truncated: got %d bytes want %d", len(resp.Response), len(reply))
	}
}
