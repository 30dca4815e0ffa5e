// internal/providers/provider.go

// Package providers defines the interface for the model runtime valet talks
// to. The runtime is an opaque collaborator: it may or may not honor the
// JSON-only tool instruction, which is why the dispatcher parses defensively.
package providers

import (
	"context"

	"github.com/tmcfarlane/valet/internal/appconfig"
	"github.com/tmcfarlane/valet/internal/tools"
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest encapsulates one blocking chat completion: the full
// conversation so far plus the tools the model is allowed to request.
type CompletionRequest struct {
	Model      string
	Messages   []ChatMessage
	Tools      []tools.Tool
	Parameters appconfig.Parameters
}

// PullProgress reports a single status update while a model is pulled.
type PullProgress struct {
	Status    string
	Total     int64
	Completed int64
}

// ChatProvider is the interface a model runtime must implement.
type ChatProvider interface {
	// Complete sends the conversation and returns the single assistant message.
	Complete(ctx context.Context, req CompletionRequest) (ChatMessage, error)
	// ListModels returns the models available on the host.
	ListModels(ctx context.Context) ([]string, error)
	// EnsureModelReady checks that a model can be used and loads it if necessary.
	EnsureModelReady(ctx context.Context, model string) error
	// PullModel downloads a model to the host, reporting progress as it goes.
	PullModel(ctx context.Context, model string, onProgress func(PullProgress)) error
	// Close cleans up any resources used by the provider.
	Close() error
}
