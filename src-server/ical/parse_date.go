package ical

import (
	"strings"
	"time"
)

// ResolveDateTime converts an iCal date or date-time literal into an
// instant.
//
// - `20060102` — date-only, midnight in the named timezone (UTC when tzid
//   is empty)
// - `20060102T150405Z` — UTC date-time; a set tzid is ignored since the
//   value is already qualified
// - `20060102T150405` — local wall-clock time in the named timezone, or a
//   floating UTC value when tzid is empty
func ResolveDateTime(value string, tzid string) (*time.Time, *ParseError) {
	if strings.HasSuffix(value, "Z") {
		result, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return nil, NewParseError("can't parse UTC date-time", map[string]any{
				"value": value,
				"err":   err,
			})
		}
		return &result, nil
	}

	location := time.UTC
	if tzid != "" {
		var err error
		location, err = time.LoadLocation(tzid)
		if err != nil {
			return nil, NewParseError("invalid TZID", map[string]any{
				"tzid": tzid,
				"err":  err,
			})
		}
	}

	layout := "20060102T150405"
	if len(value) == 8 {
		layout = "20060102"
	}
	result, err := time.ParseInLocation(layout, value, location)
	if err != nil {
		return nil, NewParseError("can't parse date-time", map[string]any{
			"value": value,
			"tzid":  tzid,
			"err":   err,
		})
	}
	return &result, nil
}
