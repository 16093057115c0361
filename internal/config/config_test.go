package config

import (
	"reflect"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_CREDENTIALS_FILE", "GOOGLE_TOKEN_FILE", "GOOGLE_CALENDAR_ID",
		"EVENT_ATTENDEES", "NLCAL_STRICT", "LOG_LEVEL",
		"CALDAV_USERNAME", "CALDAV_PASSWORD", "CALDAV_CALENDAR_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.CredentialsFile != DefaultCredentialsFile || cfg.TokenFile != DefaultTokenFile || cfg.CalendarID != DefaultCalendarID {
		t.Errorf("defaults = %q %q %q", cfg.CredentialsFile, cfg.TokenFile, cfg.CalendarID)
	}
	if cfg.Attendees != nil {
		t.Errorf("Attendees = %v, want nil", cfg.Attendees)
	}
	if cfg.Strict {
		t.Error("Strict = true, want false")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.MirrorEnabled() {
		t.Error("MirrorEnabled() = true without CalDAV settings")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_CALENDAR_ID", "team@group.calendar.google.com")
	t.Setenv("EVENT_ATTENDEES", " a@example.com, ,b@example.com ")
	t.Setenv("NLCAL_STRICT", "true")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("CALDAV_USERNAME", "user")
	t.Setenv("CALDAV_PASSWORD", "pass")
	t.Setenv("CALDAV_CALENDAR_NAME", "Home")

	cfg := FromEnv()

	if cfg.CalendarID != "team@group.calendar.google.com" {
		t.Errorf("CalendarID = %q", cfg.CalendarID)
	}
	if want := []string{"a@example.com", "b@example.com"}; !reflect.DeepEqual(cfg.Attendees, want) {
		t.Errorf("Attendees = %v, want %v", cfg.Attendees, want)
	}
	if !cfg.Strict || cfg.OpenAIModel != "gpt-4o" || !cfg.MirrorEnabled() {
		t.Errorf("cfg = %+v", cfg)
	}
}
