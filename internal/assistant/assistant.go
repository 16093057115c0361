// Package assistant runs one natural-language event creation cycle.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nlcal/internal/builder"
	"nlcal/internal/fields"
	"nlcal/internal/llm"
	"nlcal/internal/models"
)

// TextGenerator turns a prompt into a model reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EventInserter creates events in a calendar.
type EventInserter interface {
	InsertEvent(ctx context.Context, calendarID string, req models.EventRequest, attendees []string) (string, error)
}

// Mirror receives a copy of every created event.
type Mirror interface {
	SyncEvent(ctx context.Context, req models.EventRequest) (string, error)
}

// InsertError reports that the calendar service rejected the event.
type InsertError struct {
	Err error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("failed to create event: %v", e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}

// Options configure an Assistant.
type Options struct {
	CalendarID string
	Attendees  []string
	Strict     bool // validate requests before inserting
	DryRun     bool // build requests but do not insert them
	Now        func() time.Time
}

// Result is the outcome of one cycle.
type Result struct {
	Reply    string // raw model reply, empty for direct requests
	Request  models.EventRequest
	HTMLLink string // empty on dry run
	MirrorID string // UID in the mirror calendar, if any
}

// Assistant orchestrates prompt, extraction, building and insertion.
type Assistant struct {
	logger    *slog.Logger
	schema    fields.Schema
	generator TextGenerator
	inserter  EventInserter
	mirror    Mirror
	opts      Options
}

// New creates an Assistant. generator may be nil when only CreateFromRequest
// is used; mirror may be nil.
func New(logger *slog.Logger, schema fields.Schema, generator TextGenerator, inserter EventInserter, mirror Mirror, opts Options) *Assistant {
	if opts.CalendarID == "" {
		opts.CalendarID = "primary"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Assistant{
		logger:    logger,
		schema:    schema,
		generator: generator,
		inserter:  inserter,
		mirror:    mirror,
		opts:      opts,
	}
}

// Interpret asks the model to structure input and builds the request from its reply.
func (a *Assistant) Interpret(ctx context.Context, input string) (string, models.EventRequest, error) {
	if a.generator == nil {
		return "", models.EventRequest{}, fmt.Errorf("no text generation service configured")
	}

	prompt := llm.BuildPrompt(a.schema, input, a.opts.Now())
	reply, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return "", models.EventRequest{}, fmt.Errorf("failed to interpret input: %w", err)
	}

	a.logger.Debug("Model reply", "reply", reply)

	raw := a.schema.Extract(reply)
	var missing []string
	for _, name := range raw.Names() {
		if _, ok := raw.Get(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		a.logger.Debug("Fields absent from model reply", "fields", missing)
	}

	req := builder.Build(raw, a.schema)
	a.logger.Info("Built event request from model reply.", "summary", req.Summary, "start", req.StartDateTime)
	return reply, req, nil
}

// CreateFromText interprets input and creates the resulting event.
func (a *Assistant) CreateFromText(ctx context.Context, input string) (*Result, error) {
	reply, req, err := a.Interpret(ctx, input)
	if err != nil {
		return nil, err
	}
	res, err := a.CreateFromRequest(ctx, req)
	if res != nil {
		res.Reply = reply
	}
	return res, err
}

// CreateFromRequest validates (when strict), inserts and mirrors req.
// A rejected insert is returned as *InsertError together with a partial Result.
func (a *Assistant) CreateFromRequest(ctx context.Context, req models.EventRequest) (*Result, error) {
	res := &Result{Request: req}

	if a.opts.Strict {
		if err := builder.Validate(req, a.schema); err != nil {
			return res, err
		}
	}

	if a.opts.DryRun {
		a.logger.Info("[DRY RUN] Would create new event", "summary", req.Summary, "start", req.StartDateTime, "calendarID", a.opts.CalendarID)
		return res, nil
	}

	link, err := a.inserter.InsertEvent(ctx, a.opts.CalendarID, req, a.opts.Attendees)
	if err != nil {
		return res, &InsertError{Err: err}
	}
	res.HTMLLink = link

	if a.mirror != nil {
		uid, err := a.mirror.SyncEvent(ctx, req)
		if err != nil {
			// The event exists in the primary calendar; a failed mirror is not fatal.
			a.logger.Error("Failed to mirror event", "summary", req.Summary, "error", err)
		} else {
			res.MirrorID = uid
		}
	}

	return res, nil
}
