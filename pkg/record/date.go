package record

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the canonical date representation used by form inputs,
// table cells and request bodies.
const DateLayout = "2006-01-02"

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateLayouts lists the representations backends are known to emit, most
// specific first. The long forms are what gson produces for java.util.Date.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006, 3:04:05 PM",
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006",
	"01/02/2006",
}

// ParseDate parses s using the known layouts.
func ParseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, "\u202f", " "))
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("record: empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("record: unrecognised date %q", s)
}

// FormatDate renders s as YYYY-MM-DD. Strings already in that shape pass
// through untouched, anything unparsable becomes the empty string.
func FormatDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if isoDatePattern.MatchString(trimmed) {
		return trimmed
	}
	t, err := ParseDate(trimmed)
	if err != nil {
		return ""
	}
	return t.Format(DateLayout)
}
