// internal/providers/ollama/provider.go
// Package ollama provides a ChatProvider backed by Ollama-compatible HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tmcfarlane/valet/internal/appconfig"
	"github.com/tmcfarlane/valet/internal/logging"
	"github.com/tmcfarlane/valet/internal/providers"
)

// Provider implements providers.ChatProvider using the Ollama HTTP API.
type Provider struct {
	host    string
	client  *http.Client
	timeout time.Duration
	debug   bool
}

// New constructs a Provider configured with the application's host and request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		host: cfg.Host(),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

// toolCall is a structured tool call as returned by the Ollama API.
type toolCall struct {
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// chatResponse defines the non-streaming /api/chat response body.
type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role      string     `json:"role"`
		Content   string     `json:"content"`
		ToolCalls []toolCall `json:"tool_calls,omitempty"`
	} `json:"message"`
	Done bool `json:"done"`
}

// tagsResponse defines the /api/tags response body.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Complete issues a single blocking chat request and returns the assistant message.
// When the runtime answers with a structured tool_calls entry instead of
// content, the first call is canonicalized into the {"name","arguments"}
// JSON content form so the dispatcher has a single parse path.
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (providers.ChatMessage, error) {
	payload := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
		"options":  buildOptions(req.Parameters),
		"stream":   false,
	}
	if len(req.Tools) > 0 {
		payload["tools"] = req.Tools
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.ChatMessage{}, err
	}
	logging.LogRequest("VALET->LLM", p.host, req.Model, "", body)

	respBody, err := p.post(ctx, "/api/chat", body)
	if err != nil {
		return providers.ChatMessage{}, err
	}
	logging.LogRequest("LLM->VALET", p.host, req.Model, "", respBody)

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return providers.ChatMessage{}, fmt.Errorf("ollama: decode /api/chat response: %w", err)
	}

	role := result.Message.Role
	if role == "" {
		role = "assistant"
	}
	content := result.Message.Content
	if len(result.Message.ToolCalls) > 0 {
		if canonical, err := canonicalizeToolCall(result.Message.ToolCalls[0]); err == nil {
			content = canonical
		}
	}

	return providers.ChatMessage{Role: role, Content: content}, nil
}

// canonicalizeToolCall renders a structured tool call as the JSON content
// shape the dispatcher expects from plain-text tool calls.
func canonicalizeToolCall(call toolCall) (string, error) {
	args := call.Function.Arguments
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	out, err := json.Marshal(map[string]json.RawMessage{
		"name":      json.RawMessage(fmt.Sprintf("%q", call.Function.Name)),
		"arguments": args,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ListModels returns the models available on the host via /api/tags.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := p.host + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: host not reachable at %s: %w", p.host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: /api/tags returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, err
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// EnsureModelReady triggers a lightweight generate request so the model is loaded into memory.
func (p *Provider) EnsureModelReady(ctx context.Context, model string) error {
	body, err := json.Marshal(map[string]any{"model": model})
	if err != nil {
		return err
	}
	logging.LogRequest("VALET->LLM", p.host, model, "", body)

	if _, err := p.post(ctx, "/api/generate", body); err != nil {
		return err
	}
	return nil
}

// pullChunk defines one status line of the streaming /api/pull response.
type pullChunk struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
}

// PullModel downloads the model via /api/pull, forwarding each status update.
func (p *Provider) PullModel(ctx context.Context, model string, onProgress func(providers.PullProgress)) error {
	body, err := json.Marshal(map[string]any{"name": model, "stream": true})
	if err != nil {
		return err
	}
	logging.LogRequest("VALET->LLM", p.host, model, "", body)

	// No per-request timeout here: a pull can legitimately take far longer
	// than a chat completion.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Transport: &http.Transport{ForceAttemptHTTP2: false}}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama: /api/pull returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	decoder := json.NewDecoder(resp.Body)
	for {
		var chunk pullChunk
		if err := decoder.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama: pull %s: %s", model, chunk.Error)
		}
		if onProgress != nil {
			onProgress(providers.PullProgress{
				Status:    chunk.Status,
				Total:     chunk.Total,
				Completed: chunk.Completed,
			})
		}
	}
}

// post executes a JSON POST against the host and returns the response body.
func (p *Provider) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: %s returned %s: %s", path, resp.Status, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}

func buildOptions(params appconfig.Parameters) map[string]any {
	options := map[string]any{}
	if params.Temperature != nil {
		options["temperature"] = *params.Temperature
	}
	if params.TopK != nil {
		options["top_k"] = *params.TopK
	}
	if params.TopP != nil {
		options["top_p"] = *params.TopP
	}
	if params.NumCtx != nil {
		options["num_ctx"] = *params.NumCtx
	}
	return options
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	return nil
}
