package icloud

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
)

const (
	principalPath = "/user/"
	homeSetPath   = "/user/calendars/"
	homePath      = "/user/calendars/home/"
)

// memoryBackend is a caldav.Backend holding calendars and objects in maps.
type memoryBackend struct {
	mu        sync.Mutex
	calendars []caldav.Calendar
	objects   map[string]*ical.Calendar
}

func newMemoryBackend(calendars ...caldav.Calendar) *memoryBackend {
	return &memoryBackend{calendars: calendars, objects: map[string]*ical.Calendar{}}
}

func (b *memoryBackend) CurrentUserPrincipal(context.Context) (string, error) {
	return principalPath, nil
}

func (b *memoryBackend) CalendarHomeSetPath(context.Context) (string, error) {
	return homeSetPath, nil
}

func (b *memoryBackend) CreateCalendar(context.Context, *caldav.Calendar) error {
	return nil
}

func (b *memoryBackend) ListCalendars(context.Context) ([]caldav.Calendar, error) {
	return b.calendars, nil
}

func (b *memoryBackend) GetCalendar(_ context.Context, p string) (*caldav.Calendar, error) {
	for i := range b.calendars {
		if b.calendars[i].Path == p {
			return &b.calendars[i], nil
		}
	}
	return nil, caldavNotFound
}

func (b *memoryBackend) GetCalendarObject(_ context.Context, p string, _ *caldav.CalendarCompRequest) (*caldav.CalendarObject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cal, ok := b.objects[p]
	if !ok {
		return nil, caldavNotFound
	}
	return &caldav.CalendarObject{Path: p, Data: cal}, nil
}

func (b *memoryBackend) ListCalendarObjects(context.Context, string, *caldav.CalendarCompRequest) ([]caldav.CalendarObject, error) {
	return nil, nil
}

func (b *memoryBackend) QueryCalendarObjects(context.Context, string, *caldav.CalendarQuery) ([]caldav.CalendarObject, error) {
	return nil, nil
}

func (b *memoryBackend) PutCalendarObject(_ context.Context, p string, cal *ical.Calendar, _ *caldav.PutCalendarObjectOptions) (*caldav.CalendarObject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[p] = cal
	return &caldav.CalendarObject{Path: p, ETag: "1"}, nil
}

func (b *memoryBackend) DeleteCalendarObject(context.Context, string) error {
	return nil
}

func (b *memoryBackend) object(p string) *ical.Calendar {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[p]
}

var caldavNotFound = webdav.NewHTTPError(http.StatusNotFound, errors.New("not found"))

func newTestServer(t *testing.T, backend *memoryBackend) *httptest.Server {
	t.Helper()
	handler := &caldav.Handler{Backend: backend}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "user" || pass != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCalDAVSyncEvent(t *testing.T) {
	backend := newMemoryBackend(
		caldav.Calendar{Path: "/user/calendars/work/", Name: "Work"},
		caldav.Calendar{Path: homePath, Name: "Home"},
	)
	srv := newTestServer(t, backend)
	ctx := context.Background()

	c, err := NewClient(ctx, testLogger(), srv.URL+"/", "user", "secret", "Home", []string{"me@example.com"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if got, want := c.CalendarURL(), srv.URL+homePath; got != want {
		t.Errorf("CalendarURL() = %q, want %q", got, want)
	}

	uid, err := c.SyncEvent(ctx, sampleRequest())
	if err != nil {
		t.Fatalf("SyncEvent() error = %v", err)
	}

	cal := backend.object(homePath + uid + ".ics")
	if cal == nil {
		t.Fatalf("no object stored at %s%s.ics", homePath, uid)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("stored %d events, want 1", len(events))
	}
	ev := events[0]
	if got, _ := ev.Props.Text(ical.PropUID); got != uid {
		t.Errorf("UID = %q, want %q", got, uid)
	}
	if got, _ := ev.Props.Text(ical.PropSummary); got != "Sample event" {
		t.Errorf("SUMMARY = %q, want Sample event", got)
	}
	if p := ev.Props.Get(ical.PropAttendee); p == nil || p.Value != "mailto:me@example.com" {
		t.Errorf("ATTENDEE = %+v, want mailto:me@example.com", p)
	}
	if p := ev.Props.Get(ical.PropRecurrenceRule); p == nil || p.Value != "FREQ=DAILY;COUNT=2" {
		t.Errorf("RRULE = %+v, want FREQ=DAILY;COUNT=2", p)
	}
}

func TestCalDAVCalendarNotFound(t *testing.T) {
	srv := newTestServer(t, newMemoryBackend(caldav.Calendar{Path: homePath, Name: "Home"}))

	_, err := NewClient(context.Background(), testLogger(), srv.URL+"/", "user", "secret", "Travel", nil)
	if err == nil {
		t.Fatal("NewClient() error = nil, want missing calendar error")
	}
	if !strings.Contains(err.Error(), "no calendar found with name 'Travel'") {
		t.Errorf("NewClient() error = %v", err)
	}
}

func TestCalDAVRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t, newMemoryBackend(caldav.Calendar{Path: homePath, Name: "Home"}))

	if _, err := NewClient(context.Background(), testLogger(), srv.URL+"/", "user", "wrong", "Home", nil); err == nil {
		t.Fatal("NewClient() error = nil, want authentication failure")
	}
}
