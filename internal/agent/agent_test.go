// internal/agent/agent_test.go
package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmcfarlane/valet/internal/appconfig"
	"github.com/tmcfarlane/valet/internal/providers"
	"github.com/tmcfarlane/valet/internal/tools"
)

// fakeProvider replays scripted assistant messages and records the requests
// it received.
type fakeProvider struct {
	replies  []string
	requests []providers.CompletionRequest
	err      error
}

func (f *fakeProvider) Complete(_ context.Context, req providers.CompletionRequest) (providers.ChatMessage, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return providers.ChatMessage{}, f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return providers.ChatMessage{Role: "assistant", Content: reply}, nil
}

func (f *fakeProvider) ListModels(context.Context) ([]string, error)                       { return nil, nil }
func (f *fakeProvider) EnsureModelReady(context.Context, string) error                     { return nil }
func (f *fakeProvider) PullModel(context.Context, string, func(providers.PullProgress)) error { return nil }
func (f *fakeProvider) Close() error                                                       { return nil }

func newTestAgent(provider providers.ChatProvider) *Agent {
	cfg := appconfig.Config{Model: "test-model"}
	return New(&cfg, provider, tools.NewRegistry())
}

func TestChatDispatchesToolCall(t *testing.T) {
	provider := &fakeProvider{replies: []string{`{"name": "fetch_weather", "arguments": {"city": "Paris"}}`}}
	a := newTestAgent(provider)

	answer, err := a.Chat(context.Background(), "What's the weather in Paris?")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if !strings.Contains(answer, "Paris") || !strings.Contains(answer, "22") {
		t.Fatalf("expected weather answer, got: %s", answer)
	}

	req := provider.requests[0]
	if req.Model != "test-model" {
		t.Fatalf("expected configured model, got %q", req.Model)
	}
	if len(req.Tools) != 2 {
		t.Fatalf("expected tools payload, got %d entries", len(req.Tools))
	}
	if req.Messages[0].Role != "system" {
		t.Fatalf("expected leading system message, got %q", req.Messages[0].Role)
	}
}

func TestChatAccumulatesHistory(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Hi!", "Still here."}}
	a := newTestAgent(provider)

	if _, err := a.Chat(context.Background(), "hello"); err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if _, err := a.Chat(context.Background(), "are you there?"); err != nil {
		t.Fatalf("Chat error: %v", err)
	}

	history := a.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(history))
	}
	if history[0].Content != "hello" || history[1].Content != "Hi!" {
		t.Fatalf("unexpected history: %+v", history)
	}

	// Second request carries the whole session plus the system prompt.
	second := provider.requests[1]
	if len(second.Messages) != 4 {
		t.Fatalf("expected system + 3 turns, got %d messages", len(second.Messages))
	}
}

func TestChatErrorRollsBackUserTurn(t *testing.T) {
	provider := &fakeProvider{err: errors.New("host down")}
	a := newTestAgent(provider)

	if _, err := a.Chat(context.Background(), "hello"); err == nil {
		t.Fatal("expected transport error")
	}
	if len(a.History()) != 0 {
		t.Fatalf("expected empty history after failure, got %d entries", len(a.History()))
	}
}

func TestAnswerIsStateless(t *testing.T) {
	provider := &fakeProvider{replies: []string{"fresh answer"}}
	a := newTestAgent(provider)

	answer, err := a.Answer(context.Background(), "one-shot question")
	if err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if answer != "fresh answer" {
		t.Fatalf("unexpected answer: %s", answer)
	}
	if len(a.History()) != 0 {
		t.Fatalf("Answer must not touch session history, got %d entries", len(a.History()))
	}

	req := provider.requests[0]
	if len(req.Messages) != 2 {
		t.Fatalf("expected fresh two-message conversation, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Fatalf("unexpected conversation shape: %+v", req.Messages)
	}
}

func TestChatPassesThroughPlainText(t *testing.T) {
	provider := &fakeProvider{replies: []string{"I can't help with that."}}
	a := newTestAgent(provider)

	answer, err := a.Chat(context.Background(), "tell me a secret")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if answer != "I can't help with that." {
		t.Fatalf("expected passthrough, got: %s", answer)
	}
}
