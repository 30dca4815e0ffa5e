// internal/tools/schedule_meeting.go
package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// scheduleMeetingArgs is the typed argument set for the meeting tool.
type scheduleMeetingArgs struct {
	Attendees []string `mapstructure:"attendees"`
	Date      string   `mapstructure:"date"`
	Time      string   `mapstructure:"time"`
	Topic     string   `mapstructure:"topic"`
}

// ScheduleMeetingDefinition describes the meeting tool to the model.
func ScheduleMeetingDefinition() Definition {
	return Definition{
		Name:        ScheduleMeetingName,
		Description: "Schedules a meeting with specified attendees at a given date and time. Use today's date if the user doesn't specify one.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"attendees": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "List of people to invite.",
				},
				"date": map[string]any{
					"type":        "string",
					"description": "The date of the meeting in YYYY-MM-DD format.",
				},
				"time": map[string]any{
					"type":        "string",
					"description": "The time of the meeting in HH:MM format.",
				},
				"topic": map[string]any{
					"type":        "string",
					"description": "The subject or topic of the meeting.",
				},
			},
			"required": []string{"attendees", "date", "time", "topic"},
		},
	}
}

// ScheduleMeeting confirms a meeting at the requested date and time. A date
// or time that fails to parse is reported as text so the conversation can
// continue; only argument decoding returns an error.
func ScheduleMeeting(args map[string]any) (string, error) {
	var parsed scheduleMeetingArgs
	if err := mapstructure.Decode(args, &parsed); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}

	dt, err := time.Parse("2006-01-02T15:04", parsed.Date+"T"+parsed.Time)
	if err != nil {
		return fmt.Sprintf("Error scheduling meeting: invalid date or time format. Details: %v", err), nil
	}

	attendees := strings.Join(parsed.Attendees, ", ")
	return fmt.Sprintf("Meeting '%s' successfully scheduled for %s with %s.",
		parsed.Topic, dt.Format("Monday, January 02 at 15:04"), attendees), nil
}
