package builder

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"nlcal/internal/fields"
	"nlcal/internal/models"

	"github.com/teambition/rrule-go"
)

const rrulePrefix = "RRULE:"

// FieldError describes one field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError collects every problem found in a request.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return "invalid event request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// Validate checks dates, timezones, color id and recurrence rule of req.
// Build never calls it; callers opt in. It returns a *ValidationError or nil.
func Validate(req models.EventRequest, schema fields.Schema) error {
	verr := &ValidationError{}

	start, startOK := parseLocal(verr, fields.StartDateTime, req.StartDateTime, fields.StartTimeZone, req.StartTimeZone)
	end, endOK := parseLocal(verr, fields.EndDateTime, req.EndDateTime, fields.EndTimeZone, req.EndTimeZone)
	if startOK && endOK && end.Before(start) {
		verr.add(fields.EndDateTime, "%s is before start %s", req.EndDateTime, req.StartDateTime)
	}

	if req.ColorID != "" {
		if _, ok := schema.ColorName(req.ColorID); !ok {
			verr.add(fields.ColorID, "%q is not a palette color id", req.ColorID)
		}
	}

	if err := ValidateRecurrence(req.Recurrence); err != nil {
		verr.add(fields.Recurrence, "%v", err)
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

// ValidateRecurrence checks that rule is a single parseable RRULE line.
func ValidateRecurrence(rule string) error {
	body, ok := strings.CutPrefix(rule, rrulePrefix)
	if !ok {
		return fmt.Errorf("%q does not start with %s", rule, rrulePrefix)
	}
	opt, err := rrule.StrToROption(body)
	if err != nil {
		return fmt.Errorf("unparseable rule %q: %w", rule, err)
	}
	if _, err := rrule.NewRRule(*opt); err != nil {
		return fmt.Errorf("unusable rule %q: %w", rule, err)
	}
	return nil
}

// parseLocal parses a local date-time in the named zone, recording problems on verr.
func parseLocal(verr *ValidationError, dtField, dt, tzField, tz string) (time.Time, bool) {
	var loc *time.Location
	if tz == "" {
		verr.add(tzField, "missing timezone")
	} else {
		l, err := time.LoadLocation(tz)
		if err != nil {
			verr.add(tzField, "unknown timezone %q", tz)
		} else {
			loc = l
		}
	}

	if dt == "" {
		verr.add(dtField, "missing date-time")
		return time.Time{}, false
	}
	if loc == nil {
		if _, err := time.Parse(models.DateTimeLayout, dt); err != nil {
			verr.add(dtField, "%q does not match %s", dt, models.DateTimeLayout)
		}
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(models.DateTimeLayout, dt, loc)
	if err != nil {
		verr.add(dtField, "%q does not match %s", dt, models.DateTimeLayout)
		return time.Time{}, false
	}
	return t, true
}
