// internal/agent/prompt.go
package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmcfarlane/valet/internal/tools"
)

// BuildSystemPrompt renders the system instruction: a persona sentence, the
// current wall-clock timestamp, the output-format rules, and one serialized
// block per registered tool. It is computed once at agent construction and
// reused for every turn.
func BuildSystemPrompt(registry *tools.Registry, now time.Time) string {
	parts := []string{
		"You are a helpful assistant that strictly follows instructions to call functions.",
		fmt.Sprintf("The current date and time is: %s", now.Format(time.RFC3339)),
		"",
		"--- RULES ---",
		"1. You MUST call a tool when the user's request can be fulfilled by one of the available tools.",
		"2. When you decide to call a tool, you MUST respond in the format of a JSON object.",
		`3. The JSON object MUST contain "name" (the tool name) and "arguments" (a sub-object with parameters).`,
		"4. Your response MUST ONLY contain the JSON object and nothing else. Do not add any conversational text, explanations, or apologies before or after the JSON.",
		"",
		"--- AVAILABLE TOOLS ---",
	}

	for _, def := range registry.Definitions() {
		schema, err := json.MarshalIndent(def.Parameters, "", "  ")
		if err != nil {
			schema = []byte("{}")
		}
		parts = append(parts, fmt.Sprintf("\nTool: %s\nDescription: %s\nParameters (JSON Schema): %s",
			def.Name, def.Description, schema))
	}

	parts = append(parts, "\n--- END OF TOOLS ---")
	return strings.Join(parts, "\n")
}
