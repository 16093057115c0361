package models

// DateTimeLayout is the local date-time format used for event start and end.
// The timezone travels separately in StartTimeZone / EndTimeZone.
const DateTimeLayout = "2006-01-02T15:04:05"

// EventRequest is a normalized event-creation request.
// This is an internal representation, independent of any specific calendar provider.
// No field is ever absent; an empty string stands in for "not provided".
type EventRequest struct {
	Summary       string // Summary or title of the event
	Location      string // Free-form location
	Description   string // Detailed description of the event
	StartDateTime string // Local start, DateTimeLayout
	StartTimeZone string // IANA region for the start, e.g. "Asia/Singapore"
	EndDateTime   string // Local end, DateTimeLayout
	EndTimeZone   string // IANA region for the end
	Recurrence    string // A single "RRULE:..." line
	ColorID       string // Palette id "1".."11"
}

// Event is an upcoming event as listed from a calendar provider.
type Event struct {
	ID       string // Provider event id
	Summary  string // Summary or title of the event
	Start    string // RFC3339 date-time, or a bare date for all-day events
	HTMLLink string // Link to the event in the provider's UI
}
