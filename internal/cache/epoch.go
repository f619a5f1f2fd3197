package cache

import (
	"fmt"
	"strings"
	"time"
)

// Window is a cache epoch: a coarse time bucket that bounds freshness.
type Window struct {
	Label     string    // morning, afternoon, evening, or day
	Date      string    // calendar date the window starts on, YYYY-MM-DD
	Start     time.Time // inclusive
	ExpiresAt time.Time // start of the next window
}

// Key identifies the window inside fingerprints.
func (w Window) Key() string {
	return w.Date + "/" + w.Label
}

// News windows: morning [06:00,12:00), afternoon [12:00,18:00), evening [18:00,06:00 next day).
const (
	Morning   = "morning"
	Afternoon = "afternoon"
	Evening   = "evening"
	Day       = "day"
)

// NewsWindow returns the news window containing t, evaluated in t's location.
// Times between midnight and 06:00 belong to the previous day's evening window.
func NewsWindow(t time.Time) Window {
	y, m, d := t.Date()
	loc := t.Location()
	at := func(day, hour int) time.Time { return time.Date(y, m, day, hour, 0, 0, 0, loc) }

	switch h := t.Hour(); {
	case h < 6:
		start := at(d-1, 18)
		return Window{Label: Evening, Date: start.Format(time.DateOnly), Start: start, ExpiresAt: at(d, 6)}
	case h < 12:
		return Window{Label: Morning, Date: t.Format(time.DateOnly), Start: at(d, 6), ExpiresAt: at(d, 12)}
	case h < 18:
		return Window{Label: Afternoon, Date: t.Format(time.DateOnly), Start: at(d, 12), ExpiresAt: at(d, 18)}
	default:
		return Window{Label: Evening, Date: t.Format(time.DateOnly), Start: at(d, 18), ExpiresAt: at(d+1, 6)}
	}
}

// DayWindow returns the calendar day containing t; it expires at the next local midnight.
func DayWindow(t time.Time) Window {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return Window{Label: Day, Date: start.Format(time.DateOnly), Start: start, ExpiresAt: time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())}
}

// Fingerprint builds a deterministic cache key from a request kind, its parameters,
// and the window. Parameters are lower-cased and trimmed so cosmetic differences share a key.
func Fingerprint(kind string, w Window, params ...string) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range params {
		b.WriteByte(':')
		b.WriteString(strings.ToLower(strings.TrimSpace(p)))
	}
	fmt.Fprintf(&b, "@%s", w.Key())
	return b.String()
}
