package icloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"nlcal/internal/models"

	"github.com/emersion/go-webdav/caldav"
)

// DefaultEndpoint is the iCloud CalDAV endpoint.
const DefaultEndpoint = "https://caldav.icloud.com/"

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "nlcal/1.0")
	return t.Transport.RoundTrip(req)
}

// CalDAVClient mirrors created events into one calendar on a CalDAV server.
type CalDAVClient struct {
	caldavClient *caldav.Client
	logger       *slog.Logger
	endpoint     string
	calendarPath string
	attendees    []string
}

// NewClient creates a CalDAVClient and resolves the named calendar.
// An empty endpoint selects iCloud.
func NewClient(ctx context.Context, logger *slog.Logger, endpoint, username, password, calendarName string, attendees []string) (*CalDAVClient, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	transport := &customTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := caldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	c := &CalDAVClient{
		caldavClient: caldavClient,
		logger:       logger,
		endpoint:     endpoint,
		attendees:    attendees,
	}

	logger.Info("Finding CalDAV calendar", "calendarName", calendarName)
	calendarPath, err := c.findCalendar(ctx, calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarPath = calendarPath
	logger.Info("Successfully found CalDAV calendar", "url", c.CalendarURL())

	return c, nil
}

// SyncEvent writes the request into the calendar under a new UID and returns the UID.
func (c *CalDAVClient) SyncEvent(ctx context.Context, req models.EventRequest) (string, error) {
	uid := GenerateUID()
	c.logger.Debug("Mirroring event to CalDAV", "eventTitle", req.Summary, "uid", uid)

	cal, err := NewCalendar(req, c.attendees, uid, time.Now())
	if err != nil {
		return "", err
	}

	// PutCalendarObject sends the text/calendar content type CalDAV servers require.
	eventPath := path.Join(c.calendarPath, fmt.Sprintf("%s.ics", uid))
	if _, err := c.caldavClient.PutCalendarObject(ctx, eventPath, cal); err != nil {
		return "", fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}

	c.logger.Info("Successfully mirrored event to CalDAV", "eventTitle", req.Summary, "uid", uid)
	return uid, nil
}

// CalendarURL is the full URL of the resolved calendar collection.
func (c *CalDAVClient) CalendarURL() string {
	return strings.TrimSuffix(c.endpoint, "/") + c.calendarPath
}

// findCalendar discovers the user's calendars and returns the path of the one with the matching name.
func (c *CalDAVClient) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
