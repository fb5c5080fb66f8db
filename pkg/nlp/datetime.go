// Package nlp derives a task description and a due date/time from
// free-form task text like "Submit report by next Friday afternoon".
package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Extraction holds the schedule parts recovered from free text. Date and
// Clock only carry a value when their Has flags are set, so an absent
// part can never be mistaken for an empty one.
type Extraction struct {
	Date     string // YYYY-MM-DD
	HasDate  bool
	Clock    string // hh:mm AM/PM
	HasClock bool
}

const dateFormat = "2006-01-02"

var (
	nextWeekdayRe = regexp.MustCompile(`next (\w+)`)
	weekdayRe     = regexp.MustCompile(`(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`)
	ordinalRe     = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th) of (\w+)`)
	clockTokenRe  = regexp.MustCompile(`(\d{1,2}:\d{2}\s?[ap]m|\d{1,2}\s?[ap]m)`)
)

// Monday-based weekday indices, matching the resolution arithmetic.
var weekdayIndex = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

var monthByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// clockKeywords maps time-of-day words to a clock value. Scanned in
// order; the first word found in the text wins.
var clockKeywords = []struct {
	word  string
	clock string
}{
	{"morning", "09:00 AM"},
	{"afternoon", "12:00 PM"},
	{"evening", "07:00 PM"},
	{"night", "08:00 PM"},
	{"noon", "12:00 PM"},
}

// ExtractDateTime resolves a calendar date and a time of day from text,
// relative to now. It is a pure function of its arguments.
func ExtractDateTime(text string, now time.Time) Extraction {
	lower := strings.ToLower(text)

	date, weekday, hasDate, hasWeekday := resolveDate(lower, now)

	// A resolved date before today is pushed forward by a week-aligned
	// offset, but only when a weekday rule produced it; the other rules
	// have no weekday to align to and keep their date as computed.
	if hasDate && hasWeekday {
		today := startOfDay(now)
		if startOfDay(date).Before(today) {
			date = now.AddDate(0, 0, 7-mod7(mondayWeekday(now)-weekday))
		}
	}

	clock, hasClock := resolveClock(lower)

	var out Extraction
	if hasDate {
		out.Date = date.Format(dateFormat)
		out.HasDate = true
	}
	if hasClock {
		out.Clock = clock
		out.HasClock = true
	}
	return out
}

// resolveDate tries each resolution rule in a fixed order; the first
// rule that matches wins. The weekday return reports which weekday the
// matched rule used, when it used one.
func resolveDate(lower string, now time.Time) (date time.Time, weekday int, hasDate, hasWeekday bool) {
	if strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1), 0, true, false
	}

	if m := nextWeekdayRe.FindStringSubmatch(lower); m != nil {
		if idx, ok := weekdayIndex[m[1]]; ok {
			days := mod7(idx - mondayWeekday(now))
			if days == 0 {
				days = 7 // "next <today's weekday>" never means today
			}
			return now.AddDate(0, 0, days), idx, true, true
		}
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		idx := weekdayIndex[m[1]]
		days := mod7(idx - mondayWeekday(now))
		if days == 0 {
			days = 7
		}
		return now.AddDate(0, 0, days), idx, true, true
	}

	if strings.Contains(lower, "end of this week") {
		return now.AddDate(0, 0, mod7(6-mondayWeekday(now))), 0, true, false
	}

	if strings.Contains(lower, "1st of next month") {
		month := int(now.Month())%12 + 1
		year := now.Year()
		if month == 1 {
			year++
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location()), 0, true, false
	}

	if m := ordinalRe.FindStringSubmatch(lower); m != nil {
		if month, ok := monthByName[m[2]]; ok {
			day, _ := strconv.Atoi(m[1])
			return time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location()), 0, true, false
		}
	}

	return time.Time{}, 0, false, false
}

// resolveClock finds an explicit time token first and falls back to the
// time-of-day keyword table. A token that matches but fails to parse
// (e.g. "13pm") yields no clock and suppresses the keyword scan.
func resolveClock(lower string) (string, bool) {
	if m := clockTokenRe.FindStringSubmatch(lower); m != nil {
		token := strings.ReplaceAll(m[1], " ", "")
		for _, layout := range []string{"3:04pm", "3pm"} {
			if t, err := time.Parse(layout, token); err == nil {
				return t.Format("03:04 PM"), true
			}
		}
		return "", false
	}

	for _, kw := range clockKeywords {
		if strings.Contains(lower, kw.word) {
			return kw.clock, true
		}
	}
	return "", false
}

// mondayWeekday returns the weekday of t with Monday as 0 and Sunday
// as 6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// mod7 is a modulo that is never negative.
func mod7(n int) int {
	return ((n % 7) + 7) % 7
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
