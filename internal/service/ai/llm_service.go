package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/mindwell-ai/mindwell/backend/internal/config"
)

// ErrEmptyCompletion is returned when the upstream model answers with no text.
var ErrEmptyCompletion = errors.New("upstream returned an empty completion")

// Service sends one system prompt plus one user message to the upstream model.
type Service struct {
	cfg   config.AIConfig
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the upstream chat model from cfg and wraps it.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, cfg)
}

// NewServiceWithModel wraps an already constructed chat model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, cfg config.AIConfig) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		cfg:   cfg,
		chain: runnable,
	}, nil
}

// StreamingEnabled reports whether token streaming is allowed by configuration.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// ModelName returns the configured upstream model identifier.
func (s *Service) ModelName() string {
	return s.cfg.Model
}

// Complete runs a single blocking completion bounded by the configured timeout.
func (s *Service) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	response, err := s.chain.Invoke(ctx, chainInput(systemPrompt, userMessage))
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyCompletion
	}

	log.Printf("[ai] completion model=%s length=%d elapsed=%s", s.cfg.Model, len(response.Content), time.Since(started).Round(time.Millisecond))
	return response.Content, nil
}

// Stream runs a streamed completion, calling onDelta for every non-empty chunk,
// and returns the concatenated reply.
func (s *Service) Stream(ctx context.Context, systemPrompt, userMessage string, onDelta func(string)) (string, error) {
	if !s.StreamingEnabled() {
		return "", errors.New("streaming disabled in configuration")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stream, err := s.chain.Stream(ctx, chainInput(systemPrompt, userMessage))
	if err != nil {
		return "", fmt.Errorf("failed to stream AI chain output: %w", err)
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 16)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", fmt.Errorf("failed to receive AI stream chunk: %w", recvErr)
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" && onDelta != nil {
			onDelta(chunk.Content)
		}
	}

	if len(chunks) == 0 {
		return "", ErrEmptyCompletion
	}
	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", fmt.Errorf("failed to concat AI stream: %w", err)
	}
	if strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyCompletion
	}

	log.Printf("[ai] streamed completion model=%s chunks=%d length=%d", s.cfg.Model, len(chunks), len(response.Content))
	return response.Content, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

func chainInput(systemPrompt, userMessage string) map[string]any {
	return map[string]any{
		"system": systemPrompt,
		"query":  userMessage,
	}
}
