// Package config loads nlcal settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultCredentialsFile = "credentials.json"
	DefaultTokenFile       = "token.json"
	DefaultCalendarID      = "primary"
)

// Config holds every environment-driven setting.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	CredentialsFile    string
	TokenFile          string
	CalendarID         string
	Attendees          []string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	CalDAVEndpoint     string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVCalendarName string

	Strict   bool
	LogLevel string
}

// Load reads an optional .env file, then the environment.
func Load() Config {
	// Don't error if .env doesn't exist.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	strict, _ := strconv.ParseBool(os.Getenv("NLCAL_STRICT"))
	return Config{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		CredentialsFile:    getenv("GOOGLE_CREDENTIALS_FILE", DefaultCredentialsFile),
		TokenFile:          getenv("GOOGLE_TOKEN_FILE", DefaultTokenFile),
		CalendarID:         getenv("GOOGLE_CALENDAR_ID", DefaultCalendarID),
		Attendees:          splitList(os.Getenv("EVENT_ATTENDEES")),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),

		CalDAVEndpoint:     os.Getenv("CALDAV_ENDPOINT"),
		CalDAVUsername:     os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:     os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendarName: os.Getenv("CALDAV_CALENDAR_NAME"),

		Strict:   strict,
		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}

// MirrorEnabled reports whether CalDAV mirroring is configured.
func (c Config) MirrorEnabled() bool {
	return c.CalDAVUsername != "" && c.CalDAVPassword != "" && c.CalDAVCalendarName != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
