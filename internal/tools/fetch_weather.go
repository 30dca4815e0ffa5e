// internal/tools/fetch_weather.go
package tools

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// fetchWeatherArgs is the typed argument set for the weather tool.
type fetchWeatherArgs struct {
	City  string `mapstructure:"city"`
	Units string `mapstructure:"units"`
}

// FetchWeatherDefinition describes the weather tool to the model.
func FetchWeatherDefinition() Definition {
	return Definition{
		Name:        FetchWeatherName,
		Description: "Gets the current weather for a specific city.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{
					"type":        "string",
					"description": "The city name, e.g., 'San Francisco'.",
				},
				"units": map[string]any{
					"type":    "string",
					"enum":    []string{"metric", "imperial"},
					"default": "metric",
				},
			},
			"required": []string{"city"},
		},
	}
}

// FetchWeather returns a canned reading. This is a stub, not a live
// integration; replacing it with a real weather API means adding its own
// error and retry handling.
func FetchWeather(args map[string]any) (string, error) {
	var parsed fetchWeatherArgs
	if err := mapstructure.Decode(args, &parsed); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}

	temp, label := 22, "°C"
	if parsed.Units == "imperial" {
		temp, label = 72, "°F"
	}
	return fmt.Sprintf("The current temperature in %s is %d%s.", parsed.City, temp, label), nil
}
