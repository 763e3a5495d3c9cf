package osmxml

import (
	"fmt"
	"strings"
	"time"
)

// DateParsers is the injectable pair of timestamp parsers named in §6/§9:
// the original binds two Python callables at module load
// (datetime.fromisoformat and app.lib.date_utils.parse_date); this module
// re-expresses that as a struct of function fields captured at Parse call
// time instead of process-wide globals, per the §9 design note.
type DateParsers struct {
	// FromISOFormat parses a plain ISO-8601 timestamp, e.g.
	// "2021-01-01T00:00:00Z".
	FromISOFormat func(string) (time.Time, error)
	// ParseDate parses the variant "YYYY-MM-DD HH:MM:SS ..." form used by
	// some OSM changeset/note feeds.
	ParseDate func(string) (time.Time, error)
}

// defaultDateParsers backs both entry points with stdlib time.Parse. No
// third-party date-parsing library appears anywhere in the retrieved
// example pack, so this is the one scalarizer built on the standard
// library rather than a groundable dependency (see DESIGN.md).
func defaultDateParsers() DateParsers {
	return DateParsers{
		FromISOFormat: fromISOFormat,
		ParseDate:     parseDateVariant,
	}
}

func fromISOFormat(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var firstErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("osmxml: invalid ISO-8601 timestamp %q: %w", s, firstErr)
}

func parseDateVariant(s string) (time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05 MST",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05",
	}
	var firstErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("osmxml: invalid timestamp %q: %w", s, firstErr)
}

// parseTimestamp routes to ParseDate when raw contains a space, else
// FromISOFormat, per §4.1's coercion table.
func (p DateParsers) parseTimestamp(raw string) (time.Time, error) {
	if strings.Contains(raw, " ") {
		return p.ParseDate(raw)
	}
	return p.FromISOFormat(raw)
}
