// internal/agent/dispatch_test.go
package agent

import (
	"strings"
	"testing"

	"github.com/tmcfarlane/valet/internal/tools"
)

func TestDispatchFetchWeather(t *testing.T) {
	registry := tools.NewRegistry()
	result := Dispatch(registry, `{"name": "fetch_weather", "arguments": {"city": "Paris"}}`)

	if result.Kind != ToolOutput {
		t.Fatalf("expected ToolOutput, got %v: %s", result.Kind, result.Text)
	}
	if result.Tool != tools.FetchWeatherName {
		t.Fatalf("expected fetch_weather, got %q", result.Tool)
	}
	if !strings.Contains(result.Text, "Paris") || !strings.Contains(result.Text, "22") {
		t.Fatalf("expected Paris metric reading, got: %s", result.Text)
	}
}

func TestDispatchScheduleMeeting(t *testing.T) {
	registry := tools.NewRegistry()
	text := `{"name": "schedule_meeting", "arguments": {"attendees": ["A", "B"], "date": "2024-05-01", "time": "14:00", "topic": "Sync"}}`
	result := Dispatch(registry, text)

	if result.Kind != ToolOutput {
		t.Fatalf("expected ToolOutput, got %v: %s", result.Kind, result.Text)
	}
	for _, want := range []string{"Sync", "A, B", "Wednesday, May 01 at 14:00"} {
		if !strings.Contains(result.Text, want) {
			t.Fatalf("expected %q in confirmation, got: %s", want, result.Text)
		}
	}
}

func TestDispatchScheduleMeetingInvalidDate(t *testing.T) {
	registry := tools.NewRegistry()
	text := `{"name": "schedule_meeting", "arguments": {"attendees": ["A"], "date": "not-a-date", "time": "14:00", "topic": "Sync"}}`
	result := Dispatch(registry, text)

	if result.Kind != ToolOutput {
		t.Fatalf("expected ToolOutput, got %v: %s", result.Kind, result.Text)
	}
	if !strings.Contains(result.Text, "Error scheduling meeting") {
		t.Fatalf("expected error-labeled string, got: %s", result.Text)
	}
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	registry := tools.NewRegistry()
	result := Dispatch(registry, `{"name": "schedule_meeting", "arguments": {"topic": "Sync"}}`)

	if result.Kind != ToolError {
		t.Fatalf("expected ToolError, got %v: %s", result.Kind, result.Text)
	}
	if !strings.Contains(result.Text, "Error executing tool schedule_meeting") {
		t.Fatalf("expected tool error text, got: %s", result.Text)
	}
}

func TestDispatchInvalidEnumValue(t *testing.T) {
	registry := tools.NewRegistry()
	result := Dispatch(registry, `{"name": "fetch_weather", "arguments": {"city": "Paris", "units": "kelvin"}}`)

	if result.Kind != ToolError {
		t.Fatalf("expected ToolError for bad enum, got %v: %s", result.Kind, result.Text)
	}
}

func TestDispatchPlainText(t *testing.T) {
	registry := tools.NewRegistry()
	result := Dispatch(registry, "Hello there")

	if result.Kind != PlainText {
		t.Fatalf("expected PlainText, got %v", result.Kind)
	}
	if result.Text != "Hello there" {
		t.Fatalf("expected text unchanged, got: %s", result.Text)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	registry := tools.NewRegistry()
	text := `{"name": "delete_universe"}`
	result := Dispatch(registry, text)

	if result.Kind != PlainText {
		t.Fatalf("expected PlainText for unknown tool, got %v", result.Kind)
	}
	if result.Text != text {
		t.Fatalf("expected original text, got: %s", result.Text)
	}
}

func TestDispatchNonObjectJSON(t *testing.T) {
	registry := tools.NewRegistry()
	for _, text := range []string{`[1, 2, 3]`, `"just a string"`, `42`, `null`} {
		result := Dispatch(registry, text)
		if result.Kind != PlainText {
			t.Fatalf("expected PlainText for %q, got %v", text, result.Kind)
		}
		if result.Text != text {
			t.Fatalf("expected %q unchanged, got: %s", text, result.Text)
		}
	}
}

func TestDispatchMissingArgumentsDefaultsToEmpty(t *testing.T) {
	registry := tools.NewRegistry()
	result := Dispatch(registry, `{"name": "fetch_weather"}`)

	// No arguments means no city, which the schema rejects.
	if result.Kind != ToolError {
		t.Fatalf("expected ToolError for missing city, got %v: %s", result.Kind, result.Text)
	}
}
