package builder

import (
	"testing"

	"nlcal/internal/fields"
	"nlcal/internal/models"
)

func TestBuild(t *testing.T) {
	schema := fields.DefaultSchema()

	tests := []struct {
		name string
		text string
		want models.EventRequest
	}{
		{
			name: "Team sync gets default recurrence",
			text: "summary: Team sync\nlocation: \ndescription: weekly check-in\n",
			want: models.EventRequest{
				Summary:     "Team sync",
				Description: "weekly check-in",
				Recurrence:  "RRULE:FREQ=DAILY;COUNT=1",
			},
		},
		{
			name: "Explicit recurrence kept",
			text: "recurrence: RRULE:FREQ=WEEKLY;COUNT=4\n",
			want: models.EventRequest{
				Recurrence: "RRULE:FREQ=WEEKLY;COUNT=4",
			},
		},
		{
			name: "Empty recurrence replaced",
			text: "summary: x\nrecurrence: \n",
			want: models.EventRequest{
				Summary:    "x",
				Recurrence: "RRULE:FREQ=DAILY;COUNT=1",
			},
		},
		{
			name: "All fields",
			text: "summary: Flight\n" +
				"location: SIN\n" +
				"description: to Tokyo\n" +
				"start_date_time: 2026-11-02T08:00:00\n" +
				"start_timezone: Asia/Singapore\n" +
				"end_date_time: 2026-11-02T15:30:00\n" +
				"end_timezone: Asia/Tokyo\n" +
				"recurrence: RRULE:FREQ=DAILY;COUNT=1\n" +
				"color_id: 9\n",
			want: models.EventRequest{
				Summary:       "Flight",
				Location:      "SIN",
				Description:   "to Tokyo",
				StartDateTime: "2026-11-02T08:00:00",
				StartTimeZone: "Asia/Singapore",
				EndDateTime:   "2026-11-02T15:30:00",
				EndTimeZone:   "Asia/Tokyo",
				Recurrence:    "RRULE:FREQ=DAILY;COUNT=1",
				ColorID:       "9",
			},
		},
		{
			name: "Nothing extracted",
			text: "I could not understand that.",
			want: models.EventRequest{
				Recurrence: "RRULE:FREQ=DAILY;COUNT=1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(schema.Extract(tt.text), schema)
			if got != tt.want {
				t.Errorf("Build() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildUsesConfiguredDefault(t *testing.T) {
	schema := fields.DefaultSchema()
	schema.DefaultRecurrence = "RRULE:FREQ=MONTHLY;COUNT=3"

	got := Build(schema.Extract("summary: Rent\n"), schema)

	if got.Recurrence != "RRULE:FREQ=MONTHLY;COUNT=3" {
		t.Errorf("Build().Recurrence = %q, want configured default", got.Recurrence)
	}
}
