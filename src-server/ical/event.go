package ical

import (
	"fmt"
	"strings"
	"time"
)

// One parsed VEVENT block. A nil pointer field means the source never set
// that property on the event.
type Event struct {
	StartDate *time.Time
	EndDate   *time.Time
	Stamp     *time.Time

	Summary     string
	Description string
	UID         string

	RRule      *RecurrenceRule
	RDates     []RDateEntry
	Categories []string
}

// The recognized parts of an RRULE property. Freq keeps the raw value
// verbatim; unrecognized rule-part keys are dropped during extraction.
type RecurrenceRule struct {
	Freq     string
	Interval *int
	Count    *int
	Until    *time.Time
}

// One entry of an RDATE property. End is only set for the PERIOD value
// type; DATE-TIME and DATE entries carry a start instant only.
type RDateEntry struct {
	Start time.Time
	End   *time.Time
}

// Render the rule back into iCalendar rule-part syntax, e.g.
// "FREQ=WEEKLY;INTERVAL=2". Returns an empty string when no frequency is
// set.
func (r *RecurrenceRule) String() string {
	if r == nil || r.Freq == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("FREQ=" + r.Freq)
	if r.Interval != nil {
		sb.WriteString(fmt.Sprintf(";INTERVAL=%d", *r.Interval))
	}
	if r.Count != nil {
		sb.WriteString(fmt.Sprintf(";COUNT=%d", *r.Count))
	}
	if r.Until != nil {
		sb.WriteString(";UNTIL=" + r.Until.UTC().Format("20060102T150405Z"))
	}
	return sb.String()
}
