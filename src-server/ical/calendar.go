// The `ical` package parses iCalendar text into an ordered list of events.
//
// # References:
// - RFC5545: https://datatracker.ietf.org/doc/html/rfc5545
//
// # Notes:
// - Only a fixed set of VEVENT properties is recognized (DTSTART, DTEND,
//   DTSTAMP, SUMMARY, DESCRIPTION, UID, RRULE, RDATE, CATEGORIES); every
//   other line is ignored without error.
// - VTODO, VALARM, VFREEBUSY and VTIMEZONE bodies are not parsed. A
//   standalone TZID line sets the ambient timezone used to resolve every
//   later date-bearing property until the next TZID line overwrites it.
// - Events come out in the order their BEGIN:VEVENT lines appear in the
//   source. END:VEVENT is not treated specially; the next BEGIN:VEVENT
//   simply starts the next event. VEVENT blocks never nest.
// - RRULE values are kept as structured rule parts, never expanded into
//   occurrence instances.
//
// # Example usage:
//
// Parse from a string
//	events, err := ical.FromText(rawText)
//
// Parse from a file
//	events, err := ical.FromFile("path/to/calendar.ics")
//
// Parse from an URL
//	events, err := ical.FromUrl("https://example.com/calendar.ics")

package ical

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// parseContext is the accumulator threaded through the line fold: the
// events assembled so far plus the ambient timezone set by the last
// standalone TZID line. Each step returns a new context instead of
// mutating shared state.
type parseContext struct {
	events   []Event
	location string
}

// Unmarshal iCalendar text into an ordered list of Event{} structs.
func FromText(text string) ([]Event, *ParseError) {
	ctx := parseContext{events: make([]Event, 0)}
	for _, line := range unfoldLines(text) {
		next, err := ctx.applyLine(line)
		if err != nil {
			return nil, err
		}
		ctx = next
	}
	return ctx.events, nil
}

// Unmarshal an iCalendar file into an ordered list of Event{} structs.
func FromFile(path string) ([]Event, *ParseError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError("can't read file", map[string]any{
			"path": path,
			"err":  err,
		})
	}
	return FromText(string(data))
}

// Unmarshal an iCalendar URL into an ordered list of Event{} structs.
func FromUrl(url_ string) ([]Event, *ParseError) {
	validUrl, err := url.ParseRequestURI(url_)
	if err != nil {
		return nil, NewParseError("can't parse URL", map[string]any{
			"url": url_,
			"err": err,
		})
	}

	resp, err := http.Get(validUrl.String())
	if err != nil {
		return nil, NewParseError("can't make HTTP request", map[string]any{
			"url": url_,
			"err": err,
		})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewParseError("can't read HTTP response body", map[string]any{
			"url": url_,
			"err": err,
		})
	}

	return FromText(string(body))
}

// applyLine folds one logical line into the context. Unrecognized lines
// leave the context untouched; a recognized property line seen before any
// BEGIN:VEVENT has no event to mutate and is dropped.
func (ctx parseContext) applyLine(line string) (parseContext, *ParseError) {
	kind, rest := classifyLine(line)

	switch kind {
	case propBeginEvent:
		ctx.events = append(ctx.events, Event{})
		return ctx, nil
	case propTimezone:
		ctx.location = rest
		return ctx, nil
	case propUnknown:
		return ctx, nil
	}

	if len(ctx.events) == 0 {
		return ctx, nil
	}
	current := &ctx.events[len(ctx.events)-1]

	switch kind {
	case propDateStart:
		date, err := extractDateField(rest, ctx.location)
		if err != nil {
			return ctx, err
		}
		current.StartDate = date
	case propDateEnd:
		date, err := extractDateField(rest, ctx.location)
		if err != nil {
			return ctx, err
		}
		current.EndDate = date
	case propDateStamp:
		date, err := extractDateField(rest, ctx.location)
		if err != nil {
			return ctx, err
		}
		current.Stamp = date
	case propSummary:
		current.Summary = unescapeText(rest)
	case propDescription:
		current.Description = unescapeText(rest)
	case propUID:
		current.UID = rest
	case propRRule:
		rule, err := extractRecurrenceRule(rest, ctx.location)
		if err != nil {
			return ctx, err
		}
		current.RRule = rule
	case propRDate:
		entries, err := decodeRecurrenceDates(rest, ctx.location)
		if err != nil {
			return ctx, err
		}
		current.RDates = entries
	case propCategories:
		current.Categories = strings.Split(rest, ",")
	}

	return ctx, nil
}
