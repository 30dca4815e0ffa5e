// internal/agent/agent.go
// Package agent ties the tool registry, the prompt, and the model runtime
// into a conversational loop: send the conversation, dispatch the reply.
package agent

import (
	"context"
	"time"

	"github.com/tmcfarlane/valet/internal/appconfig"
	"github.com/tmcfarlane/valet/internal/providers"
	"github.com/tmcfarlane/valet/internal/tools"
)

// Agent owns the provider, the registry, the precomputed system prompt, and
// the in-memory conversation history. It is not safe for concurrent use;
// callers that share one agent serialize access themselves.
type Agent struct {
	provider     providers.ChatProvider
	registry     *tools.Registry
	model        string
	parameters   appconfig.Parameters
	systemPrompt string
	history      []providers.ChatMessage
}

// New constructs an agent for the configured model. The system prompt is
// built once, here, and reused for every turn.
func New(cfg *appconfig.Config, provider providers.ChatProvider, registry *tools.Registry) *Agent {
	return &Agent{
		provider:     provider,
		registry:     registry,
		model:        cfg.Model,
		parameters:   cfg.Parameters,
		systemPrompt: BuildSystemPrompt(registry, time.Now()),
	}
}

// Chat runs one stateful conversation turn: the user text and the final
// answer are appended to the session history. On a transport error the user
// turn is rolled back so a retry does not double it.
func (a *Agent) Chat(ctx context.Context, userText string) (string, error) {
	a.history = append(a.history, providers.ChatMessage{Role: "user", Content: userText})

	answer, err := a.complete(ctx, a.history)
	if err != nil {
		a.history = a.history[:len(a.history)-1]
		return "", err
	}

	a.history = append(a.history, providers.ChatMessage{Role: "assistant", Content: answer})
	return answer, nil
}

// Answer runs one stateless turn: a fresh system+user conversation with no
// cross-request memory. The HTTP front end uses this path.
func (a *Agent) Answer(ctx context.Context, userText string) (string, error) {
	return a.complete(ctx, []providers.ChatMessage{{Role: "user", Content: userText}})
}

func (a *Agent) complete(ctx context.Context, turns []providers.ChatMessage) (string, error) {
	messages := make([]providers.ChatMessage, 0, len(turns)+1)
	messages = append(messages, providers.ChatMessage{Role: "system", Content: a.systemPrompt})
	messages = append(messages, turns...)

	reply, err := a.provider.Complete(ctx, providers.CompletionRequest{
		Model:      a.model,
		Messages:   messages,
		Tools:      a.registry.Payload(),
		Parameters: a.parameters,
	})
	if err != nil {
		return "", err
	}

	return Dispatch(a.registry, reply.Content).Text, nil
}

// History returns a copy of the session history, without the system prompt.
func (a *Agent) History() []providers.ChatMessage {
	out := make([]providers.ChatMessage, len(a.history))
	copy(out, a.history)
	return out
}

// SystemPrompt returns the instruction string sent on every turn.
func (a *Agent) SystemPrompt() string {
	return a.systemPrompt
}
