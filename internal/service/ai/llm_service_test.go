package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/mindwell-ai/mindwell/backend/internal/config"
)

type fakeChatModel struct {
	mu     sync.Mutex
	reply  string
	chunks []string
	err    error
	block  bool
	inputs [][]*schema.Message
}

func (f *fakeChatModel) record(input []*schema.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.record(input)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.record(input)
	if f.err != nil {
		return nil, f.err
	}
	msgs := make([]*schema.Message, 0, len(f.chunks))
	for _, c := range f.chunks {
		msgs = append(msgs, schema.AssistantMessage(c, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func (f *fakeChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func newTestService(t *testing.T, fake *fakeChatModel, cfg config.AIConfig) *Service {
	t.Helper()
	if cfg.Model == "" {
		cfg.Model = "test-model"
	}
	svc, err := NewServiceWithModel(context.Background(), fake, cfg)
	if err != nil {
		t.Fatalf("NewServiceWithModel err: %v", err)
	}
	return svc
}

func TestCompleteSendsSystemAndUserMessagesOnly(t *testing.T) {
	fake := &fakeChatModel{reply: "I'm here for you."}
	svc := newTestService(t, fake, config.AIConfig{Timeout: time.Second})

	got, err := svc.Complete(context.Background(), "system prompt", "I feel low")
	if err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if got != "I'm here for you." {
		t.Fatalf("unexpected reply: %q", got)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("expected one upstream call, got %d", len(fake.inputs))
	}
	input := fake.inputs[0]
	if len(input) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(input))
	}
	if input[0].Role != schema.System || input[0].Content != "system prompt" {
		t.Fatalf("unexpected system message: %+v", input[0])
	}
	if input[1].Role != schema.User || input[1].Content != "I feel low" {
		t.Fatalf("unexpected user message: %+v", input[1])
	}
}

func TestCompleteKeepsBracesInUserText(t *testing.T) {
	fake := &fakeChatModel{reply: "ok"}
	svc := newTestService(t, fake, config.AIConfig{})

	if _, err := svc.Complete(context.Background(), "sys {not a var}", "what is {this}?"); err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if fake.inputs[0][1].Content != "what is {this}?" {
		t.Fatalf("user text altered: %q", fake.inputs[0][1].Content)
	}
}

func TestCompleteSurfacesUpstreamError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("rate limited")}
	svc := newTestService(t, fake, config.AIConfig{})

	_, err := svc.Complete(context.Background(), "sys", "hi")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected upstream error detail, got %v", err)
	}
}

func TestCompleteRejectsEmptyReply(t *testing.T) {
	fake := &fakeChatModel{reply: "   "}
	svc := newTestService(t, fake, config.AIConfig{})

	if _, err := svc.Complete(context.Background(), "sys", "hi"); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestCompleteHonoursTimeout(t *testing.T) {
	fake := &fakeChatModel{block: true}
	svc := newTestService(t, fake, config.AIConfig{Timeout: 20 * time.Millisecond})

	started := time.Now()
	if _, err := svc.Complete(context.Background(), "sys", "hi"); err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("timeout not applied, took %s", elapsed)
	}
}

func TestStreamConcatenatesChunks(t *testing.T) {
	fake := &fakeChatModel{chunks: []string{"You ", "are ", "not alone."}}
	svc := newTestService(t, fake, config.AIConfig{StreamResponse: true})

	var deltas []string
	got, err := svc.Stream(context.Background(), "sys", "hi", func(d string) { deltas = append(deltas, d) })
	if err != nil {
		t.Fatalf("Stream err: %v", err)
	}
	if got != "You are not alone." {
		t.Fatalf("unexpected concatenated reply: %q", got)
	}
	if len(deltas) != 3 {
		t.Fatalf("expected 3 deltas, got %v", deltas)
	}
}

func TestStreamDisabledByConfig(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{}, config.AIConfig{StreamResponse: false})
	if _, err := svc.Stream(context.Background(), "sys", "hi", nil); err == nil {
		t.Fatal("expected error when streaming disabled")
	}
}

func TestNewServiceWithModelRequiresModel(t *testing.T) {
	if _, err := NewServiceWithModel(context.Background(), nil, config.AIConfig{}); err == nil {
		t.Fatal("expected error for nil chat model")
	}
}
