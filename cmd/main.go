package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"nlcal/internal/assistant"
	"nlcal/internal/config"
	"nlcal/internal/fields"
	"nlcal/internal/google"
	"nlcal/internal/icloud"
	"nlcal/internal/llm"

	"github.com/urfave/cli/v2"
)

const (
	upcomingCount  = 10
	upcomingWindow = 365 * 24 * time.Hour
)

func main() {
	cfg := config.Load()

	app := newApp(cfg)
	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func newApp(cfg config.Config) *cli.App {
	return &cli.App{
		Name:  "nlcal",
		Usage: "Create Google Calendar events from plain language.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Build the event but do not create it."},
			&cli.BoolFlag{Name: "strict", Value: cfg.Strict, Usage: "Reject events with malformed dates, timezones, colors or recurrence."},
			&cli.StringFlag{Name: "ics", Usage: "Also write the event to this iCalendar file."},
			&cli.StringFlag{Name: "calendar", Value: cfg.CalendarID, Usage: "Calendar ID to read from and write to."},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "debug, info, warn or error."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			cal, err := newCalendarClient(c, logger, cfg)
			if err != nil {
				return err
			}
			listUpcoming(c, logger, cal, upcomingCount, upcomingWindow)
			return createFromPrompt(c, logger, cfg, cal, "")
		},
		Commands: []*cli.Command{
			authCommand(cfg),
			listCommand(cfg),
			addCommand(cfg),
			sampleCommand(cfg),
			colorsCommand(cfg),
		},
	}
}

func authCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account and store the API token.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			logger.Info("Starting Google authentication flow.")

			provider := newCredentialProvider(logger, cfg)
			oauthConfig, err := provider.OAuthConfig()
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}
			if _, err := provider.Authorize(c.Context, oauthConfig); err != nil {
				return err
			}
			return nil
		},
	}
}

func listCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List upcoming events.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max", Value: upcomingCount, Usage: "Maximum number of events."},
			&cli.IntFlag{Name: "days", Value: 365, Usage: "How many days ahead to look."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			cal, err := newCalendarClient(c, logger, cfg)
			if err != nil {
				return err
			}
			listUpcoming(c, logger, cal, int64(c.Int("max")), time.Duration(c.Int("days"))*24*time.Hour)
			return nil
		},
	}
}

func addCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Create one event from a plain-language description.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "Event description; prompts when omitted."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			cal, err := newCalendarClient(c, logger, cfg)
			if err != nil {
				return err
			}
			return createFromPrompt(c, logger, cfg, cal, c.String("text"))
		},
	}
}

func sampleCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Create a fixed sample event without the language model.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			cal, err := newCalendarClient(c, logger, cfg)
			if err != nil {
				return err
			}
			a := newAssistant(c, logger, cfg, nil, cal)
			res, err := a.CreateFromRequest(c.Context, sampleRequest())
			return report(c, cfg, res, err)
		},
	}
}

func colorsCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "colors",
		Usage: "Show the event color palette.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			cal, err := newCalendarClient(c, logger, cfg)
			if err != nil {
				return err
			}
			colors, err := cal.Colors(c.Context)
			if err != nil {
				fmt.Fprintf(c.App.Writer, "An error occurred: %v\n", err)
				return nil
			}
			printColors(c.App.Writer, fields.DefaultSchema(), colors)
			return nil
		},
	}
}

// createFromPrompt runs one natural-language cycle. input is read from the
// operator when empty.
func createFromPrompt(c *cli.Context, logger *slog.Logger, cfg config.Config, cal *google.CalendarClient, input string) error {
	gen, err := llm.NewClient(logger, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if err != nil {
		return fmt.Errorf("failed to create text generation client: %w", err)
	}

	if input == "" {
		input, err = readInput(c.App.Reader, c.App.Writer)
		if err != nil {
			return err
		}
	}

	res, err := newAssistant(c, logger, cfg, gen, cal).CreateFromText(c.Context, input)
	return report(c, cfg, res, err)
}

// report prints the outcome of a cycle. Insert and validation failures are
// shown to the operator without failing the process.
func report(c *cli.Context, cfg config.Config, res *assistant.Result, err error) error {
	w := c.App.Writer
	if err != nil {
		var insErr *assistant.InsertError
		if errors.As(err, &insErr) {
			fmt.Fprintf(w, "An error occurred: %v\n", insErr.Err)
			return nil
		}
		if res == nil {
			return err
		}
		fmt.Fprintf(w, "An error occurred: %v\n", err)
		return nil
	}

	if path := c.String("ics"); path != "" {
		if err := writeICS(path, res, cfg.Attendees); err != nil {
			fmt.Fprintf(w, "An error occurred: %v\n", err)
		} else {
			fmt.Fprintf(w, "Event written to %s\n", path)
		}
	}

	if c.Bool("dry-run") {
		fmt.Fprintf(w, "Event not created (dry run): %s %s %s\n", res.Request.Summary, res.Request.StartDateTime, res.Request.StartTimeZone)
		return nil
	}
	fmt.Fprintf(w, "Event created: %s\n", res.HTMLLink)
	return nil
}

func listUpcoming(c *cli.Context, logger *slog.Logger, cal *google.CalendarClient, maxResults int64, window time.Duration) {
	w := c.App.Writer
	fmt.Fprintf(w, "Getting the upcoming %d events\n", maxResults)
	events, err := cal.ListUpcoming(c.Context, c.String("calendar"), window, maxResults)
	if err != nil {
		logger.Error("Could not list events", "error", err)
		fmt.Fprintf(w, "An error occurred: %v\n", err)
		return
	}
	printEvents(w, events)
}

func newCredentialProvider(logger *slog.Logger, cfg config.Config) *google.CredentialProvider {
	return google.NewCredentialProvider(logger, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.CredentialsFile, cfg.TokenFile)
}

func newCalendarClient(c *cli.Context, logger *slog.Logger, cfg config.Config) (*google.CalendarClient, error) {
	httpClient, err := newCredentialProvider(logger, cfg).Client(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire google credentials: %w", err)
	}
	cal, err := google.NewClient(c.Context, logger, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}
	return cal, nil
}

func newAssistant(c *cli.Context, logger *slog.Logger, cfg config.Config, gen assistant.TextGenerator, cal *google.CalendarClient) *assistant.Assistant {
	var mirror assistant.Mirror
	if cfg.MirrorEnabled() && !c.Bool("dry-run") {
		dav, err := icloud.NewClient(c.Context, logger, cfg.CalDAVEndpoint, cfg.CalDAVUsername, cfg.CalDAVPassword, cfg.CalDAVCalendarName, cfg.Attendees)
		if err != nil {
			logger.Error("CalDAV mirror disabled", "error", err)
		} else {
			mirror = dav
		}
	}

	return assistant.New(logger, fields.DefaultSchema(), gen, cal, mirror, assistant.Options{
		CalendarID: c.String("calendar"),
		Attendees:  cfg.Attendees,
		Strict:     c.Bool("strict"),
		DryRun:     c.Bool("dry-run"),
	})
}

func writeICS(path string, res *assistant.Result, attendees []string) error {
	uid := res.MirrorID
	if uid == "" {
		uid = icloud.GenerateUID()
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create ics file: %w", err)
	}
	defer f.Close()
	return icloud.EncodeEvent(f, res.Request, attendees, uid, time.Now())
}

// readInput prompts with "> " and returns one trimmed line.
func readInput(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "> ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("no event description given")
	}
	return line, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
