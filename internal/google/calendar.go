package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"nlcal/internal/models"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
}

// NewClient creates a new Google Calendar client on top of an authenticated HTTP client.
// Extra options are appended after the HTTP client option.
func NewClient(ctx context.Context, logger *slog.Logger, httpClient *http.Client, opts ...option.ClientOption) (*CalendarClient, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{service: service, logger: logger}, nil
}

// ListUpcoming fetches up to maxResults events starting within window from now.
func (c *CalendarClient) ListUpcoming(ctx context.Context, calendarID string, window time.Duration, maxResults int64) ([]*models.Event, error) {
	c.logger.Debug("Fetching upcoming events", "calendarID", calendarID, "window", window, "maxResults", maxResults)
	now := time.Now().UTC()
	tmin := now.Format(time.RFC3339)
	tmax := now.Add(window).Format(time.RFC3339)

	events, err := c.service.Events.List(calendarID).
		Context(ctx).
		TimeMin(tmin).
		TimeMax(tmax).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	c.logger.Info("Successfully fetched events from Google Calendar", "count", len(events.Items), "calendarID", calendarID)
	return toInternalEvents(events.Items), nil
}

// InsertEvent creates req in the calendar and returns the event's HTML link.
func (c *CalendarClient) InsertEvent(ctx context.Context, calendarID string, req models.EventRequest, attendees []string) (string, error) {
	c.logger.Debug("Inserting event", "calendarID", calendarID, "summary", req.Summary)

	created, err := c.service.Events.Insert(calendarID, toCalendarEvent(req, attendees)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	c.logger.Info("Created event in Google Calendar", "id", created.Id, "calendarID", calendarID)
	return created.HtmlLink, nil
}

// PaletteColor is one event color as reported by the service.
type PaletteColor struct {
	ID         string
	Background string
	Foreground string
}

// Colors returns the service's event color definitions ordered by numeric id.
func (c *CalendarClient) Colors(ctx context.Context) ([]PaletteColor, error) {
	colors, err := c.service.Colors.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve colors: %w", err)
	}

	var out []PaletteColor
	for id, def := range colors.Event {
		out = append(out, PaletteColor{ID: id, Background: def.Background, Foreground: def.Foreground})
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i].ID)
		b, errB := strconv.Atoi(out[j].ID)
		if errA != nil || errB != nil {
			return out[i].ID < out[j].ID
		}
		return a < b
	})
	return out, nil
}

// toCalendarEvent converts a request into the Calendar API body.
// Recurrence is always sent as a one-element list.
func toCalendarEvent(req models.EventRequest, attendees []string) *calendar.Event {
	event := &calendar.Event{
		Summary:     req.Summary,
		Location:    req.Location,
		Description: req.Description,
		ColorId:     req.ColorID,
		Start: &calendar.EventDateTime{
			DateTime: req.StartDateTime,
			TimeZone: req.StartTimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndDateTime,
			TimeZone: req.EndTimeZone,
		},
		Recurrence: []string{req.Recurrence},
	}
	for _, email := range attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}
	return event
}

// toInternalEvents converts Google Calendar events to the internal Event model.
func toInternalEvents(googleEvents []*calendar.Event) []*models.Event {
	var internalEvents []*models.Event
	for _, item := range googleEvents {
		var start string
		if item.Start != nil {
			start = item.Start.DateTime
			// All-day events only carry a date.
			if start == "" {
				start = item.Start.Date
			}
		}
		internalEvents = append(internalEvents, &models.Event{
			ID:       item.Id,
			Summary:  item.Summary,
			Start:    start,
			HTMLLink: item.HtmlLink,
		})
	}
	return internalEvents
}
