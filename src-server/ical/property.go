package ical

import (
	"strconv"
	"strings"
	"time"
)

// The recognized content-line kinds. propUnknown is an explicit variant so
// the assembler matches it deliberately instead of falling through.
type propertyKind int

const (
	propUnknown propertyKind = iota
	propBeginEvent
	propDateStart
	propDateEnd
	propDateStamp
	propSummary
	propDescription
	propUID
	propRRule
	propRDate
	propTimezone
	propCategories
)

// Ordered so the most specific prefix wins; BEGIN:VEVENT must come before
// any shorter token could shadow it.
var propertyPrefixes = []struct {
	prefix string
	kind   propertyKind
}{
	{"BEGIN:VEVENT", propBeginEvent},
	{"DTSTART", propDateStart},
	{"DTEND", propDateEnd},
	{"DTSTAMP", propDateStamp},
	{"SUMMARY:", propSummary},
	{"DESCRIPTION:", propDescription},
	{"UID:", propUID},
	{"RRULE:", propRRule},
	{"RDATE", propRDate},
	{"TZID:", propTimezone},
	{"CATEGORIES:", propCategories},
}

// classifyLine matches the leading token of one logical line against the
// fixed property table and returns the kind plus the remainder after the
// matched prefix. Date-bearing kinds and RDATE keep their leading ':' or
// ';' in the remainder since their extractors branch on it.
func classifyLine(line string) (propertyKind, string) {
	line = strings.TrimSpace(line)
	for _, entry := range propertyPrefixes {
		if strings.HasPrefix(line, entry.prefix) {
			return entry.kind, line[len(entry.prefix):]
		}
	}
	return propUnknown, ""
}

// unescapeText resolves the two escape sequences the parser cares about:
// `\,` back to a comma and `\n` back to a real newline. Tabs and
// backslashes stay as-is.
func unescapeText(value string) string {
	value = strings.ReplaceAll(value, `\,`, ",")
	value = strings.ReplaceAll(value, `\n`, "\n")
	return value
}

// extractDateField handles the two syntactic forms of a date-bearing
// property remainder:
//
// - `:value` — no parameters; the value resolves against the ambient
//   timezone.
// - `;params:value` — a TZID= parameter overrides the timezone for this
//   one field; without one the value is treated as already qualified
//   (e.g. a trailing Z) and resolves with no timezone at all.
func extractDateField(rest string, ambientTZ string) (*time.Time, *ParseError) {
	switch {
	case strings.HasPrefix(rest, ":"):
		return ResolveDateTime(rest[1:], ambientTZ)
	case strings.HasPrefix(rest, ";"):
		params, value, found := strings.Cut(rest[1:], ":")
		if !found {
			return nil, NewParseError("date property is missing its value", map[string]any{
				"rest": rest,
			})
		}
		tzid, err := paramLookup(params, "TZID")
		if err != nil {
			return nil, err
		}
		return ResolveDateTime(value, tzid)
	default:
		return nil, NewParseError("date property must continue with ':' or ';'", map[string]any{
			"rest": rest,
		})
	}
}

// paramLookup scans a semicolon-delimited parameter list for one key and
// returns its value, or an empty string when absent. A parameter without
// '=' is a structural error.
func paramLookup(params string, key string) (string, *ParseError) {
	for _, param := range strings.Split(params, ";") {
		name, value, found := strings.Cut(param, "=")
		if !found {
			return "", NewParseError("property parameter is missing '='", map[string]any{
				"param": param,
			})
		}
		if strings.EqualFold(name, key) {
			return value, nil
		}
	}
	return "", nil
}

// extractRecurrenceRule splits an RRULE remainder into rule parts and
// keeps the recognized ones: FREQ verbatim, INTERVAL and COUNT as
// integers, UNTIL through the date resolver with the ambient timezone.
// Unrecognized keys are dropped without error.
func extractRecurrenceRule(rest string, ambientTZ string) (*RecurrenceRule, *ParseError) {
	rule := &RecurrenceRule{}
	for _, part := range strings.Split(rest, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return nil, NewParseError("rule part is missing '='", map[string]any{
				"part": part,
			})
		}
		switch strings.ToLower(key) {
		case "freq":
			rule.Freq = value
		case "interval":
			interval, err := strconv.Atoi(value)
			if err != nil {
				return nil, NewParseError("rule interval is not an integer", map[string]any{
					"value": value,
					"err":   err,
				})
			}
			rule.Interval = &interval
		case "count":
			count, err := strconv.Atoi(value)
			if err != nil {
				return nil, NewParseError("rule count is not an integer", map[string]any{
					"value": value,
					"err":   err,
				})
			}
			rule.Count = &count
		case "until":
			until, err := ResolveDateTime(value, ambientTZ)
			if err != nil {
				return nil, err
			}
			rule.Until = until
		}
	}
	return rule, nil
}
