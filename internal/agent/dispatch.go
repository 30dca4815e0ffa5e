// internal/agent/dispatch.go
package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tmcfarlane/valet/internal/logging"
	"github.com/tmcfarlane/valet/internal/tools"
)

// ResultKind classifies how a dispatch concluded.
type ResultKind int

const (
	// PlainText means the assistant text was not a recognizable tool call
	// and is passed through unchanged.
	PlainText ResultKind = iota
	// ToolOutput means a tool ran and produced the text.
	ToolOutput
	// ToolError means a recognized tool was called with arguments it could
	// not accept; the text describes the failure.
	ToolError
)

// Result is the outcome of dispatching one assistant message. Transports
// only consume Text; Kind keeps the failure categories enumerable.
type Result struct {
	Kind ResultKind
	Tool string
	Text string
}

// toolCallIntent is the transient {name, arguments} value parsed from model output.
type toolCallIntent struct {
	name      string
	arguments map[string]any
}

// Dispatch parses the assistant text as a tool call and invokes the matching
// implementation, or falls back to plain text. One best-effort pass per
// turn: no retries, no re-prompting.
func Dispatch(registry *tools.Registry, assistantText string) Result {
	intent, ok := parseIntent(registry, assistantText)
	if !ok {
		return Result{Kind: PlainText, Text: assistantText}
	}

	logging.LogEvent("dispatching tool %s with args %v", intent.name, intent.arguments)

	def, handler, _ := registry.Lookup(intent.name)
	if err := validateArguments(def, intent.arguments); err != nil {
		return toolFailure(intent.name, err)
	}

	output, err := handler(intent.arguments)
	if err != nil {
		return toolFailure(intent.name, err)
	}
	return Result{Kind: ToolOutput, Tool: intent.name, Text: output}
}

func toolFailure(name string, err error) Result {
	logging.LogEvent("tool %s failed: %v", name, err)
	return Result{
		Kind: ToolError,
		Tool: name,
		Text: fmt.Sprintf("Error executing tool %s: %v", name, err),
	}
}

// parseIntent extracts a tool call intent from the assistant text. Malformed
// JSON, a non-object payload, or a name that is missing or unregistered all
// mean the text is the final answer.
func parseIntent(registry *tools.Registry, text string) (toolCallIntent, bool) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return toolCallIntent{}, false
	}

	name, ok := payload["name"].(string)
	if !ok || !registry.Has(name) {
		return toolCallIntent{}, false
	}

	args := map[string]any{}
	if raw, present := payload["arguments"]; present && raw != nil {
		if m, ok := raw.(map[string]any); ok {
			args = m
		}
	}
	return toolCallIntent{name: name, arguments: args}, true
}

// validateArguments checks the arguments against the tool's parameter schema.
func validateArguments(def tools.Definition, args map[string]any) error {
	if len(def.Parameters) == 0 {
		return nil
	}
	schemaLoader := gojsonschema.NewGoLoader(def.Parameters)
	argBytes, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal arguments for validation: %w", err)
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(argBytes))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("arguments failed validation: %s", strings.Join(details, "; "))
}
