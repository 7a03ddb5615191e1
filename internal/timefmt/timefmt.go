// Package timefmt converts the ISO-8601 instants used by the schedule feed
// and the rating store into display strings.
package timefmt

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Formatter renders instants in a fixed location against a clock.
type Formatter struct {
	Location *time.Location
	Now      func() time.Time
}

// Default uses the process time zone and the wall clock.
var Default = Formatter{Location: time.Local, Now: time.Now}

// NewFormatter returns a formatter for loc. A nil now means time.Now.
func NewFormatter(loc *time.Location, now func() time.Time) Formatter {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return Formatter{Location: loc, Now: now}
}

func (f Formatter) loc() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f Formatter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// ParseInstant parses an RFC 3339 instant or a zone-less local date-time.
// Zone-less values are read in the formatter's location.
func (f Formatter) ParseInstant(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, raw, f.loc()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timefmt: unrecognised instant %q", raw)
}

// FormatTime drops the trailing ":SS" of an "HH:MM:SS" string. Everything
// after the last colon is removed, so "14:30" becomes "14".
func FormatTime(raw string) string {
	i := strings.LastIndex(raw, ":")
	if i < 0 {
		return raw
	}
	return raw[:i]
}

// FormatTimeDetailed renders a 24-hour zero-padded "HH:MM".
func (f Formatter) FormatTimeDetailed(raw string) string {
	t, err := f.ParseInstant(raw)
	if err != nil {
		return ""
	}
	return t.In(f.loc()).Format("15:04")
}

// FormatDate renders "Weekday, Month D".
func (f Formatter) FormatDate(raw string) string {
	t, err := f.ParseInstant(raw)
	if err != nil {
		return ""
	}
	return t.In(f.loc()).Format("Monday, January 2")
}

// FormatDateTimeDetailed renders "Month D, YYYY, HH:MM".
func (f Formatter) FormatDateTimeDetailed(raw string) string {
	t, err := f.ParseInstant(raw)
	if err != nil {
		return ""
	}
	return t.In(f.loc()).Format("January 2, 2006, 15:04")
}

// CalculateSessionDuration returns end minus start in minutes. The result is
// not clamped and is NaN when either instant cannot be parsed.
func (f Formatter) CalculateSessionDuration(startsAt, endsAt string) float64 {
	start, err := f.ParseInstant(startsAt)
	if err != nil {
		return math.NaN()
	}
	end, err := f.ParseInstant(endsAt)
	if err != nil {
		return math.NaN()
	}
	return end.Sub(start).Minutes()
}

// HasSessionStarted reports start <= now.
func (f Formatter) HasSessionStarted(startsAt string) bool {
	start, err := f.ParseInstant(startsAt)
	if err != nil {
		return false
	}
	return !start.After(f.now())
}

// HasSessionEnded reports end <= now.
func (f Formatter) HasSessionEnded(endsAt string) bool {
	end, err := f.ParseInstant(endsAt)
	if err != nil {
		return false
	}
	return !end.After(f.now())
}

// FormatRelativeTime labels a past instant as "just now", "{m}m ago",
// "{h}h ago" or "{d}d ago", falling back to a calendar date after a week.
func (f Formatter) FormatRelativeTime(past time.Time) string {
	diff := f.now().Sub(past)
	mins := int64(math.Floor(diff.Minutes()))
	hours := int64(math.Floor(diff.Hours()))
	days := int64(math.Floor(diff.Hours() / 24))

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}
	return past.In(f.loc()).Format("1/2/2006")
}

// ParseInstant parses raw with the default formatter.
func ParseInstant(raw string) (time.Time, error) { return Default.ParseInstant(raw) }

func FormatTimeDetailed(raw string) string { return Default.FormatTimeDetailed(raw) }

func FormatDate(raw string) string { return Default.FormatDate(raw) }

func FormatDateTimeDetailed(raw string) string { return Default.FormatDateTimeDetailed(raw) }

func HasSessionStarted(startsAt string) bool { return Default.HasSessionStarted(startsAt) }

func HasSessionEnded(endsAt string) bool { return Default.HasSessionEnded(endsAt) }

func FormatRelativeTime(past time.Time) string { return Default.FormatRelativeTime(past) }

func CalculateSessionDuration(startsAt, endsAt string) float64 {
	return Default.CalculateSessionDuration(startsAt, endsAt)
}
