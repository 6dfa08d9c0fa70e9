package main

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "GROQ_API_KEY", "ARK_API_KEY", "AI_MODEL", "AI_BASE_URL",
		"AI_REGION", "AI_TEMPERATURE", "AI_TOP_P", "AI_MAX_TOKENS", "AI_TIMEOUT", "AI_STREAM",
		"CONVERSATION_BACKEND", "REDIS_URL", "REDIS_PREFIX", "HISTORY_RETENTION",
		"RECORDS_BACKEND", "SQLITE_PATH", "MOOD_TIPS_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestRunClosesStoresWhenStartupFails(t *testing.T) {
	isolateEnv(t)
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	t.Setenv("CONVERSATION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://"+mr.Addr()+"/0")
	t.Setenv("RECORDS_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "records.db"))
	t.Setenv("MOOD_TIPS_FILE", filepath.Join(dir, "missing.yaml"))

	err := run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "load mood tips") {
		t.Fatalf("expected tips load error, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for mr.CurrentConnectionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("redis connections still open after run returned: %d", mr.CurrentConnectionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunReturnsConfigErrors(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AI_TIMEOUT", "soon")

	if err := run(context.Background()); err == nil || !strings.Contains(err.Error(), "load configuration") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunServerStopsOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("runServer err: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServer did not return after cancel")
	}
}
