package nlp

import (
	"errors"
	"time"
)

var (
	// ErrUnresolvedSchedule means no resolution rule matched the text.
	ErrUnresolvedSchedule = errors.New("could not determine schedule")
	// ErrBadDateTime means an explicitly supplied date/time was malformed.
	ErrBadDateTime = errors.New("invalid date/time format")
)

// explicitLayouts are the shapes an explicit date field may take: a
// full timestamp, a date with minutes, or a bare date.
var explicitLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Interpret derives a task's description and due timestamp. When
// explicit is non-empty it is parsed as the due date/time and raw is
// kept verbatim as the description; otherwise both are extracted from
// raw, relative to now. A time that cannot be resolved defaults to
// midnight; a date that cannot be resolved is an error, never a
// silent default.
func Interpret(raw, explicit string, now time.Time) (description string, dueAt time.Time, err error) {
	if explicit != "" {
		for _, layout := range explicitLayouts {
			if t, perr := time.Parse(layout, explicit); perr == nil {
				return raw, t, nil
			}
		}
		return "", time.Time{}, ErrBadDateTime
	}

	description = ExtractTask(raw)
	ext := ExtractDateTime(raw, now)
	if !ext.HasDate {
		return "", time.Time{}, ErrUnresolvedSchedule
	}

	day, perr := time.Parse(dateFormat, ext.Date)
	if perr != nil {
		return "", time.Time{}, ErrUnresolvedSchedule
	}

	dueAt = day
	if ext.HasClock {
		if clock, perr := time.Parse("03:04 PM", ext.Clock); perr == nil {
			dueAt = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
		}
	}
	return description, dueAt, nil
}
