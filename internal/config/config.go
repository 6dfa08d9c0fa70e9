package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads at startup.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Store    StoreConfig
	TipsFile string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Store:    store,
		TipsFile: strings.TrimSpace(os.Getenv("MOOD_TIPS_FILE")),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

func loadServerConfig() (ServerConfig, error) {
	origins := splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = append([]string(nil), defaultAllowedOrigins...)
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Accept ":8000" or "127.0.0.1:8000" as-is.
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// AIConfig describes the upstream completion model.
type AIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	Region         string
	Temperature    float64
	TopP           float64
	MaxTokens      int
	Timeout        time.Duration
	StreamResponse bool
}

const (
	defaultModel       = "llama-3.1-8b-instant"
	defaultBaseURL     = "https://api.groq.com/openai/v1"
	defaultTemperature = 0.7
	defaultTopP        = 0.9
	defaultMaxTokens   = 200
	defaultAITimeout   = 30 * time.Second
)

// Enabled reports whether a credential and model were provided.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && c.APIKey != ""
}

// NewChatModel builds the upstream chat model from the configuration.
// The ark client speaks the OpenAI-compatible chat completions protocol, so it
// is pointed at whichever provider BaseURL names.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("AI credentials or model missing, set GROQ_API_KEY and AI_MODEL")
	}

	temperature := float32(c.Temperature)
	topP := float32(c.TopP)
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		TopP:        &topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("AI_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	timeout, err := parseDurationEnv("AI_TIMEOUT", defaultAITimeout)
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("AI_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	apiKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("ARK_API_KEY"))
	}

	cfg := AIConfig{
		APIKey:         apiKey,
		Model:          getEnvOrDefault("AI_MODEL", defaultModel),
		BaseURL:        getEnvOrDefault("AI_BASE_URL", defaultBaseURL),
		Region:         strings.TrimSpace(os.Getenv("AI_REGION")),
		Temperature:    defaultTemperature,
		TopP:           defaultTopP,
		MaxTokens:      defaultMaxTokens,
		Timeout:        timeout,
		StreamResponse: stream,
	}
	if temperature != nil {
		cfg.Temperature = *temperature
	}
	if topP != nil {
		cfg.TopP = *topP
	}
	if maxTokens != nil {
		if *maxTokens < 1 {
			return AIConfig{}, fmt.Errorf("invalid AI_MAX_TOKENS value %d: must be positive", *maxTokens)
		}
		cfg.MaxTokens = *maxTokens
	}

	return cfg, nil
}

// Backend names accepted by StoreConfig.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// StoreConfig selects storage backends for conversations and wellness records.
type StoreConfig struct {
	ConversationBackend string
	RedisURL            string
	RedisPrefix         string
	HistoryRetention    int
	RecordsBackend      string
	SQLitePath          string
}

func loadStoreConfig() (StoreConfig, error) {
	conversation := strings.ToLower(getEnvOrDefault("CONVERSATION_BACKEND", BackendMemory))
	if conversation != BackendMemory && conversation != BackendRedis {
		return StoreConfig{}, fmt.Errorf("invalid CONVERSATION_BACKEND value %q", conversation)
	}

	records := strings.ToLower(getEnvOrDefault("RECORDS_BACKEND", BackendMemory))
	if records != BackendMemory && records != BackendSQLite {
		return StoreConfig{}, fmt.Errorf("invalid RECORDS_BACKEND value %q", records)
	}

	retention := 0
	if override, err := parseOptionalIntEnv("HISTORY_RETENTION"); err != nil {
		return StoreConfig{}, err
	} else if override != nil && *override > 0 {
		retention = *override
	}

	return StoreConfig{
		ConversationBackend: conversation,
		RedisURL:            getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix:         getEnvOrDefault("REDIS_PREFIX", "mindwell"),
		HistoryRetention:    retention,
		RecordsBackend:      records,
		SQLitePath:          getEnvOrDefault("SQLITE_PATH", "mindwell.db"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
