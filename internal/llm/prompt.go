package llm

import (
	"fmt"
	"strings"
	"time"

	"nlcal/internal/fields"
	"nlcal/internal/models"
)

// fieldHints are the inline formatting instructions shown next to each field.
var fieldHints = map[string]string{
	fields.Summary:       "short title of the event",
	fields.Location:      "where it happens, blank if not mentioned",
	fields.Description:   "one sentence with any extra detail, blank if none",
	fields.StartDateTime: "local start in the format YYYY-MM-DDTHH:MM:SS, no offset",
	fields.StartTimeZone: "IANA timezone of the start as a single token, e.g. Asia/Singapore; turn a country or city into its zone",
	fields.EndDateTime:   "local end in the format YYYY-MM-DDTHH:MM:SS, no offset",
	fields.EndTimeZone:   "IANA timezone of the end as a single token",
	fields.Recurrence:    "one RFC 5545 rule such as RRULE:FREQ=WEEKLY;COUNT=4 or RRULE:FREQ=DAILY;UNTIL=20261231T000000Z",
}

// BuildPrompt renders the instruction sent to the text generation service
// for one line of user input.
func BuildPrompt(schema fields.Schema, input string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("You turn a request for a calendar event into structured fields.\n\n")

	sb.WriteString("## Fields\n")
	sb.WriteString("Reply with exactly these lines, in this order, each as `name: value`:\n")
	for _, name := range schema.Fields {
		hint := fieldHints[name]
		if name == fields.ColorID {
			hint = colorHint(schema.Palette)
		}
		if hint == "" {
			sb.WriteString(fmt.Sprintf("%s: \n", name))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: <%s>\n", name, hint))
	}
	sb.WriteString("\n")

	sb.WriteString("## Rules\n")
	sb.WriteString("- Output only the field lines. No greeting, explanation or code fences.\n")
	sb.WriteString("- If a value is unknown, leave it blank after the colon. Never write None, null or N/A.\n")
	sb.WriteString("- Resolve relative dates like \"tomorrow\" or \"next Friday\" against the current date below.\n")
	sb.WriteString(fmt.Sprintf("- If no recurrence is asked for, use %s.\n\n", schema.DefaultRecurrence))

	sb.WriteString("## Current date and time\n")
	sb.WriteString(fmt.Sprintf("%s (%s, %s)\n\n", now.Format(models.DateTimeLayout), now.Weekday(), now.Location()))

	sb.WriteString("## Request\n")
	sb.WriteString(strings.TrimSpace(input))
	sb.WriteString("\n")

	return sb.String()
}

func colorHint(palette []fields.Color) string {
	parts := make([]string, len(palette))
	for i, c := range palette {
		parts[i] = fmt.Sprintf("%s %s", c.ID, c.Name)
	}
	return "a single number for the color: " + strings.Join(parts, ", ")
}
