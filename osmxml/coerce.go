package osmxml

import (
	"strconv"
	"strings"
)

// scalarizer converts raw element/attribute text to a typed Value. It
// reports ok=false if the text could not be converted to that kind.
type scalarizer func(raw string, dates DateParsers) (any, bool)

// coercionTable is the key->scalarizer lookup of §4.1, grounded on
// original_source/speedup/xml_parse.c's value_postprocessor_map (there a
// sorted array walked by bsearch; here a map, since Go has a builtin hash
// table and nothing is gained by reproducing the bsearch a second time).
var coercionTable = buildCoercionTable()

func buildCoercionTable() map[string]scalarizer {
	t := make(map[string]scalarizer)
	for _, k := range []string{"id", "ref", "uid", "changeset", "changes_count", "num_changes", "comments_count"} {
		t[k] = coerceInt
	}
	for _, k := range []string{"lat", "lon", "ele", "min_lat", "min_lon", "max_lat", "max_lon"} {
		t[k] = coerceFloat
	}
	for _, k := range []string{"open", "pending", "visible"} {
		t[k] = coerceBool
	}
	for _, k := range []string{"timestamp", "time", "date", "created_at", "updated_at", "closed_at"} {
		t[k] = coerceTimestamp
	}
	t["version"] = coerceVersion
	return t
}

func coerceInt(raw string, _ DateParsers) (any, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

func coerceFloat(raw string, _ DateParsers) (any, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

func coerceBool(raw string, _ DateParsers) (any, bool) {
	switch raw {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return nil, false
	}
}

func coerceTimestamp(raw string, dates DateParsers) (any, bool) {
	t, err := dates.parseTimestamp(raw)
	if err != nil {
		return nil, false
	}
	return t, true
}

// coerceVersion implements §4.1's "version" rule: float if raw contains a
// '.', else integer.
func coerceVersion(raw string, dates DateParsers) (any, bool) {
	if strings.Contains(raw, ".") {
		return coerceFloat(raw, dates)
	}
	return coerceInt(raw, dates)
}

// coerce implements the §4.1 contract: coerce(key, raw) -> Value. If key
// is absent from the coercion table, the raw text is returned unchanged as
// a string. A *BadValueError is returned when the key is present but the
// named scalarizer cannot parse raw.
func coerce(key, raw string, dates DateParsers) (any, error) {
	fn, ok := coercionTable[key]
	if !ok {
		return raw, nil
	}
	v, ok := fn(raw, dates)
	if !ok {
		return nil, &BadValueError{Key: key, Raw: raw}
	}
	return v, nil
}
