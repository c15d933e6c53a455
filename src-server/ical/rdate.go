package ical

import (
	"strings"
	"unicode"
)

// decodeRecurrenceDates decodes the remainder of an RDATE line, leading
// ':' or ';' included, against the ambient timezone.
//
// The bare form `:value,value` decodes every value as a DATE-TIME/DATE
// literal with no period end. The parameterized form `;params:values`
// splits at the last ':', takes an optional TZID= override and dispatches
// on the VALUE= type: PERIOD yields start/end pairs split on '/',
// DATE-TIME and DATE yield end-absent entries, and any other (or missing)
// type yields an empty sequence without error. Entry order follows the
// comma-separated source order.
func decodeRecurrenceDates(rest string, ambientTZ string) ([]RDateEntry, *ParseError) {
	sanitized := sanitizeRDate(rest)

	switch {
	case strings.HasPrefix(sanitized, ":"):
		return decodeDateList(sanitized[1:], ambientTZ)

	case strings.HasPrefix(sanitized, ";"):
		cut := strings.LastIndex(sanitized, ":")
		if cut == -1 {
			return nil, NewParseError("recurrence dates are missing the ':' between parameters and values", map[string]any{
				"rest": rest,
			})
		}
		params := sanitized[1:cut]
		values := sanitized[cut+1:]

		tzid, err := paramLookup(params, "TZID")
		if err != nil {
			return nil, err
		}
		if tzid == "" {
			tzid = ambientTZ
		}
		valueType, err := paramLookup(params, "VALUE")
		if err != nil {
			return nil, err
		}

		switch valueType {
		case "PERIOD":
			return decodePeriodList(values, tzid)
		case "DATE-TIME", "DATE":
			return decodeDateList(values, tzid)
		default:
			return []RDateEntry{}, nil
		}

	default:
		return nil, NewParseError("recurrence dates must continue with ':' or ';'", map[string]any{
			"rest": rest,
		})
	}
}

// sanitizeRDate strips whitespace and residual `\n` fold artifacts from
// the raw remainder before any structural split.
func sanitizeRDate(rest string) string {
	rest = strings.ReplaceAll(rest, `\n`, "")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, rest)
}

// decodeDateList decodes comma-separated DATE-TIME/DATE literals into
// entries with no period end.
func decodeDateList(values string, tzid string) ([]RDateEntry, *ParseError) {
	entries := make([]RDateEntry, 0)
	for _, value := range strings.Split(values, ",") {
		start, err := ResolveDateTime(value, tzid)
		if err != nil {
			return nil, err
		}
		entries = append(entries, RDateEntry{Start: *start})
	}
	return entries, nil
}

// decodePeriodList decodes comma-separated `start/end` pairs into entries
// with both instants set.
func decodePeriodList(values string, tzid string) ([]RDateEntry, *ParseError) {
	entries := make([]RDateEntry, 0)
	for _, pair := range strings.Split(values, ",") {
		startRaw, endRaw, found := strings.Cut(pair, "/")
		if !found {
			return nil, NewParseError("period entry is missing '/'", map[string]any{
				"entry": pair,
			})
		}
		start, err := ResolveDateTime(startRaw, tzid)
		if err != nil {
			return nil, err
		}
		end, err := ResolveDateTime(endRaw, tzid)
		if err != nil {
			return nil, err
		}
		entries = append(entries, RDateEntry{Start: *start, End: end})
	}
	return entries, nil
}
