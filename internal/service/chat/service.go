package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mindwell-ai/mindwell/backend/internal/analysis/mood"
	"github.com/mindwell-ai/mindwell/backend/internal/model/chat"
	"github.com/mindwell-ai/mindwell/backend/internal/service/ai"
	"github.com/mindwell-ai/mindwell/backend/internal/service/conversation"
)

var (
	ErrUnavailable     = errors.New("AI service is not available")
	ErrMessageRequired = errors.New("message is required")
	ErrMoodRequired    = errors.New("mood is required")
)

// FallbackMessage is offered to the user when the upstream model fails.
const FallbackMessage = "I'm having trouble connecting to my AI brain right now. Please try again in a moment. " +
	"If you're experiencing a mental health crisis, please reach out to a mental health professional " +
	"or call 988 (Suicide & Crisis Lifeline) immediately. 💙"

// UpstreamError wraps a failed, timed out or unusable completion call.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI service error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Completer is the upstream text-completion capability.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
	Stream(ctx context.Context, systemPrompt, userMessage string, onDelta func(string)) (string, error)
	StreamingEnabled() bool
}

// Service runs the chat request lifecycle: history lookup, prompt
// construction, one upstream call, classification and commit.
type Service struct {
	completer Completer
	store     conversation.Store
	locks     *conversation.KeyedMutex
}

// NewService wires a chat service. A nil completer leaves chat unavailable.
func NewService(completer Completer, store conversation.Store) *Service {
	return &Service{
		completer: completer,
		store:     store,
		locks:     conversation.NewKeyedMutex(),
	}
}

// Available reports whether the upstream client was initialized.
func (s *Service) Available() bool {
	return s != nil && s.completer != nil
}

// Streaming reports whether token streaming can be used.
func (s *Service) Streaming() bool {
	return s.Available() && s.completer.StreamingEnabled()
}

// Validate checks the request and applies defaults.
func Validate(req *chat.Request) error {
	if req.Message == "" {
		return ErrMessageRequired
	}
	if req.Mood == nil {
		return ErrMoodRequired
	}
	req.Normalize()
	return nil
}

// Reply handles one chat turn with a blocking completion.
func (s *Service) Reply(ctx context.Context, req chat.Request) (chat.Response, error) {
	return s.run(ctx, req, func(ctx context.Context, systemPrompt string) (string, error) {
		return s.completer.Complete(ctx, systemPrompt, req.Message)
	})
}

// ReplyStream handles one chat turn, forwarding reply chunks to onDelta as they
// arrive. History is only committed once the whole reply has been received.
func (s *Service) ReplyStream(ctx context.Context, req chat.Request, onDelta func(string)) (chat.Response, error) {
	if s.Available() && !s.completer.StreamingEnabled() {
		return s.Reply(ctx, req)
	}
	return s.run(ctx, req, func(ctx context.Context, systemPrompt string) (string, error) {
		return s.completer.Stream(ctx, systemPrompt, req.Message, onDelta)
	})
}

// History returns the stored exchanges for a user without creating an entry
// for unknown ids.
func (s *Service) History(ctx context.Context, userID string) ([]chat.Exchange, error) {
	return s.store.Snapshot(ctx, userID)
}

type completeFunc func(ctx context.Context, systemPrompt string) (string, error)

func (s *Service) run(ctx context.Context, req chat.Request, complete completeFunc) (chat.Response, error) {
	if !s.Available() {
		return chat.Response{}, ErrUnavailable
	}
	if err := Validate(&req); err != nil {
		return chat.Response{}, err
	}

	// Turns for the same user are serialized so each one sees the previous commit.
	unlock, err := s.locks.Lock(ctx, req.UserID)
	if err != nil {
		return chat.Response{}, fmt.Errorf("wait for turn of %s: %w", req.UserID, err)
	}
	defer unlock()

	history, err := s.store.History(ctx, req.UserID, ai.HistoryWindow)
	if err != nil {
		return chat.Response{}, fmt.Errorf("load history: %w", err)
	}

	score := req.MoodScore()
	systemPrompt := ai.BuildSystemPrompt(score, req.UserName, history)

	reply, err := complete(ctx, systemPrompt)
	if err != nil {
		log.Printf("[chat] upstream failure for user=%s: %v", req.UserID, err)
		return chat.Response{}, &UpstreamError{Err: err}
	}

	label := mood.Classify(score)

	if err := s.store.Append(ctx, req.UserID, chat.Exchange{UserText: req.Message, AIText: reply}); err != nil {
		return chat.Response{}, fmt.Errorf("save exchange: %w", err)
	}

	log.Printf("[chat] response generated for %s (user=%s, mood=%d, analysis=%s)", req.UserName, req.UserID, score, label)
	return chat.Response{Response: reply, MoodAnalysis: string(label)}, nil
}
