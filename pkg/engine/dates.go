package engine

import (
	"math"
	"strings"
	"time"
)

// instantLayouts is the prioritized list of accepted date formats; the first
// successful parse wins. Ambiguous numeric dates such as 01/02/2025 resolve
// month-first (US convention) to match the source export format. This is a
// documented assumption, not inferred from the data.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"01/02/2006 3:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006/01/02",
}

// ParseInstant parses a heterogeneous date/time string into a normalized UTC
// instant. The boolean reports success; an unparseable value is a per-field
// condition for the caller to handle, never a process-ending error.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// wholeDaysSince returns now - t in whole days with floor semantics: 23 hours
// is 0 days, and a future-dated t yields a negative count.
func wholeDaysSince(now, t time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}
