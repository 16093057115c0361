package icloud

import (
	"fmt"
	"io"
	"strings"
	"time"

	"nlcal/internal/models"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// GenerateUID creates a new unique identifier for an event.
func GenerateUID() string {
	return uuid.New().String()
}

// NewCalendar wraps the request in a VCALENDAR holding one VEVENT.
func NewCalendar(req models.EventRequest, attendees []string, uid string, now time.Time) (*ical.Calendar, error) {
	vevent, err := toICal(req, attendees, uid, now)
	if err != nil {
		return nil, err
	}
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//nlcal//EN")
	cal.Children = append(cal.Children, vevent)
	return cal, nil
}

// EncodeEvent writes the request to w as an iCalendar document.
func EncodeEvent(w io.Writer, req models.EventRequest, attendees []string, uid string, now time.Time) error {
	cal, err := NewCalendar(req, attendees, uid, now)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	return nil
}

// toICal converts an EventRequest to an ical.Component (VEvent).
// Start and end are interpreted in their own timezones and written in UTC,
// so the calendar needs no VTIMEZONE components.
func toICal(req models.EventRequest, attendees []string, uid string, now time.Time) (*ical.Component, error) {
	start, err := localTime(req.StartDateTime, req.StartTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	end, err := localTime(req.EndDateTime, req.EndTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid end: %w", err)
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, req.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())

	if req.Description != "" {
		ve.Props.SetText(ical.PropDescription, req.Description)
	}
	if req.Location != "" {
		ve.Props.SetText(ical.PropLocation, req.Location)
	}
	if rule := strings.TrimPrefix(req.Recurrence, "RRULE:"); rule != "" {
		// Set the raw value; SetText would escape the rule's separators.
		p := ical.NewProp(ical.PropRecurrenceRule)
		p.Value = rule
		ve.Props.Set(p)
	}
	for _, attendee := range attendees {
		// CAL-ADDRESS is the default type, so no VALUE parameter.
		p := ical.NewProp(ical.PropAttendee)
		p.Value = "mailto:" + attendee
		ve.Props.Add(p)
	}
	return ve, nil
}

func localTime(dt, tz string) (time.Time, error) {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, fmt.Errorf("unknown timezone %q: %w", tz, err)
		}
		loc = l
	}
	t, err := time.ParseInLocation(models.DateTimeLayout, dt, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date-time %q: %w", dt, err)
	}
	return t, nil
}
