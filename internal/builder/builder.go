// Package builder turns extracted fields into an event request.
package builder

import (
	"nlcal/internal/fields"
	"nlcal/internal/models"
)

// Build copies the extracted fields into an EventRequest. Absent fields
// become empty strings, except recurrence, which falls back to the
// schema's default rule when absent or empty.
func Build(raw fields.RawFieldMap, schema fields.Schema) models.EventRequest {
	text := func(name string) string {
		v, _ := raw.Get(name)
		return v
	}

	recurrence := text(fields.Recurrence)
	if recurrence == "" {
		recurrence = schema.DefaultRecurrence
	}

	return models.EventRequest{
		Summary:       text(fields.Summary),
		Location:      text(fields.Location),
		Description:   text(fields.Description),
		StartDateTime: text(fields.StartDateTime),
		StartTimeZone: text(fields.StartTimeZone),
		EndDateTime:   text(fields.EndDateTime),
		EndTimeZone:   text(fields.EndTimeZone),
		Recurrence:    recurrence,
		ColorID:       text(fields.ColorID),
	}
}
