// Package fields holds the event field schema and extracts "name: value"
// lines for it from free-form model replies.
package fields

// Field names, in the order the schema lists them.
const (
	Summary       = "summary"
	Location      = "location"
	Description   = "description"
	StartDateTime = "start_date_time"
	StartTimeZone = "start_timezone"
	EndDateTime   = "end_date_time"
	EndTimeZone   = "end_timezone"
	Recurrence    = "recurrence"
	ColorID       = "color_id"
)

// DefaultRecurrence is applied when no recurrence rule was extracted.
const DefaultRecurrence = "RRULE:FREQ=DAILY;COUNT=1"

// Color is one entry of the event color palette.
type Color struct {
	ID   string
	Name string
}

// Schema is the configuration shared by the extractor, the builder and the
// prompt: which fields exist, the recurrence fallback and the color palette.
type Schema struct {
	Fields            []string
	DefaultRecurrence string
	Palette           []Color
}

// DefaultSchema returns a fresh copy of the nine-field event schema.
func DefaultSchema() Schema {
	return Schema{
		Fields: []string{
			Summary,
			Location,
			Description,
			StartDateTime,
			StartTimeZone,
			EndDateTime,
			EndTimeZone,
			Recurrence,
			ColorID,
		},
		DefaultRecurrence: DefaultRecurrence,
		Palette: []Color{
			{ID: "1", Name: "lavender"},
			{ID: "2", Name: "sage"},
			{ID: "3", Name: "grape"},
			{ID: "4", Name: "flamingo"},
			{ID: "5", Name: "banana"},
			{ID: "6", Name: "tangerine"},
			{ID: "7", Name: "peacock"},
			{ID: "8", Name: "graphite"},
			{ID: "9", Name: "blueberry"},
			{ID: "10", Name: "basil"},
			{ID: "11", Name: "tomato"},
		},
	}
}

// ColorName returns the palette name for id.
func (s Schema) ColorName(id string) (string, bool) {
	for _, c := range s.Palette {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

// Extract runs Extract over the schema's own field list.
func (s Schema) Extract(text string) RawFieldMap {
	return Extract(text, s.Fields)
}
