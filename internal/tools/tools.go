// internal/tools/tools.go
// Package tools defines the fixed set of tools the model may invoke and the
// registry that maps tool names to their schemas and implementations.
package tools

const (
	// ScheduleMeetingName is the canonical name for the meeting tool.
	ScheduleMeetingName = "schedule_meeting"
	// FetchWeatherName is the canonical name for the weather tool.
	FetchWeatherName = "fetch_weather"
)

// Definition describes the metadata exposed for a tool. Parameters is a
// JSON-Schema object: type, properties, required, optional enum/default.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool wraps a Definition to match the "function" wrapper structure the chat
// API expects in its tools payload.
type Tool struct {
	Type     string     `json:"type"`
	Function Definition `json:"function"`
}

// Handler executes a tool using the provided arguments and returns the text
// shown to the user.
type Handler func(args map[string]any) (string, error)

type entry struct {
	definition Definition
	handler    Handler
}

// Registry maps tool names to their definitions and handlers. It is built
// once at startup and passed by reference; it is never mutated afterwards.
type Registry struct {
	entries map[string]entry
	order   []string
}

// NewRegistry returns the registry holding every tool valet exposes.
func NewRegistry() *Registry {
	r := &Registry{entries: map[string]entry{}}
	r.register(ScheduleMeetingDefinition(), ScheduleMeeting)
	r.register(FetchWeatherDefinition(), FetchWeather)
	return r
}

func (r *Registry) register(def Definition, handler Handler) {
	r.entries[def.Name] = entry{definition: def, handler: handler}
	r.order = append(r.order, def.Name)
}

// Lookup returns the definition and handler registered under name.
func (r *Registry) Lookup(name string) (Definition, Handler, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Definition{}, nil, false
	}
	return e.definition, e.handler, true
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Definitions returns every registered definition in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].definition)
	}
	return defs
}

// Payload returns the registered tools wrapped for the chat API.
func (r *Registry) Payload() []Tool {
	wrapped := make([]Tool, 0, len(r.order))
	for _, def := range r.Definitions() {
		wrapped = append(wrapped, Tool{Type: "function", Function: def})
	}
	return wrapped
}
