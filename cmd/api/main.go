package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mindwell-ai/mindwell/backend/internal/config"
	"github.com/mindwell-ai/mindwell/backend/internal/handler"
	"github.com/mindwell-ai/mindwell/backend/internal/model/tips"
	"github.com/mindwell-ai/mindwell/backend/internal/service/ai"
	"github.com/mindwell-ai/mindwell/backend/internal/service/chat"
	"github.com/mindwell-ai/mindwell/backend/internal/service/conversation"
	"github.com/mindwell-ai/mindwell/backend/internal/service/wellness"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadEnvFiles("mw.env", ".env")

	if err := run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run wires the service and serves until ctx is done. Stores opened here are
// closed before it returns, on every path.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	conversations, closeConversations, err := openConversationStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open conversation store: %w", err)
	}
	defer closeConversations()

	records, closeRecords, err := openRecordsStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open records store: %w", err)
	}
	defer closeRecords()

	tipTable, err := tips.Load(cfg.TipsFile)
	if err != nil {
		return fmt.Errorf("load mood tips: %w", err)
	}

	// Leave the interface nil when the upstream client is missing so chat
	// reports itself unavailable.
	var completer chat.Completer
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality, check GROQ_API_KEY and AI_MODEL")
		} else {
			completer = aiService
			log.Printf("AI service initialized (model=%s, stream=%v)", aiService.ModelName(), aiService.StreamingEnabled())
		}
	} else {
		log.Println("GROQ_API_KEY not configured, chat endpoints will report unavailable")
	}

	router := handler.NewRouter(handler.Deps{
		Chat:           chat.NewService(completer, conversations),
		Wellness:       wellness.NewService(records),
		Tips:           tipTable,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	return startServer(ctx, cfg.Server, router)
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			log.Printf("warning: failed to load %s: %v", path, err)
		}
	}
}

func openConversationStore(ctx context.Context, cfg config.StoreConfig) (conversation.Store, func(), error) {
	if cfg.ConversationBackend != config.BackendRedis {
		log.Printf("[store] conversations kept in memory (retention=%d)", cfg.HistoryRetention)
		return conversation.NewMemoryStore(cfg.HistoryRetention), func() {}, nil
	}

	client, err := conversation.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	store := conversation.NewRedisStore(client, conversation.RedisConfig{
		Prefix:    cfg.RedisPrefix,
		Retention: cfg.HistoryRetention,
	})
	log.Printf("[store] conversations kept in redis (prefix=%s, retention=%d)", cfg.RedisPrefix, cfg.HistoryRetention)
	return store, closer("redis", store), nil
}

func openRecordsStore(ctx context.Context, cfg config.StoreConfig) (wellness.Store, func(), error) {
	if cfg.RecordsBackend != config.BackendSQLite {
		log.Println("[store] wellness records kept in memory")
		return wellness.NewMemoryStore(), func() {}, nil
	}

	store, err := wellness.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[store] wellness records kept in sqlite (%s)", cfg.SQLitePath)
	return store, closer("sqlite", store), nil
}

func closer(name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Printf("[store] close %s: %v", name, err)
		}
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("MindWell backend listening on %s", addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
