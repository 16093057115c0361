package main

import (
	"fmt"
	"io"

	"nlcal/internal/fields"
	"nlcal/internal/google"
	"nlcal/internal/models"
)

// sampleRequest is the fixed event created by the sample command.
func sampleRequest() models.EventRequest {
	return models.EventRequest{
		Summary:       "Sample event",
		Location:      "Singapore",
		Description:   "This is a test event",
		StartDateTime: "2024-06-11T05:00:00",
		StartTimeZone: "Singapore",
		EndDateTime:   "2024-06-11T10:00:00",
		EndTimeZone:   "Singapore",
		Recurrence:    "RRULE:FREQ=DAILY;COUNT=2",
		ColorID:       "6",
	}
}

func printEvents(w io.Writer, events []*models.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No upcoming events found.")
		return
	}
	for _, e := range events {
		fmt.Fprintln(w, e.Start, e.Summary)
	}
}

func printColors(w io.Writer, schema fields.Schema, colors []google.PaletteColor) {
	for _, c := range colors {
		name, ok := schema.ColorName(c.ID)
		if !ok {
			name = "?"
		}
		fmt.Fprintf(w, "%-3s %-10s %s\n", c.ID, name, c.Background)
	}
}
