package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTextBasicEvent(t *testing.T) {
	events, err := FromText(strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"UID:event-1@calfeed",
		"SUMMARY:Team sync\\, weekly",
		"DESCRIPTION:agenda\\nnotes",
		"DTSTAMP:20230120T080000Z",
		"DTSTART;TZID=Europe/Berlin:20230126T110000",
		"DTEND;TZID=Europe/Berlin:20230126T130000",
		"CATEGORIES:work,meeting",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\n"))
	require.Nil(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, "event-1@calfeed", event.UID)
	assert.Equal(t, "Team sync, weekly", event.Summary)
	assert.Equal(t, "agenda\nnotes", event.Description)
	assert.Equal(t, []string{"work", "meeting"}, event.Categories)

	berlin, _ := time.LoadLocation("Europe/Berlin")
	require.NotNil(t, event.StartDate)
	require.NotNil(t, event.EndDate)
	require.NotNil(t, event.Stamp)
	assert.True(t, event.StartDate.Equal(time.Date(2023, 1, 26, 11, 0, 0, 0, berlin)))
	assert.True(t, event.EndDate.Equal(time.Date(2023, 1, 26, 13, 0, 0, 0, berlin)))
	assert.True(t, event.Stamp.Equal(time.Date(2023, 1, 20, 8, 0, 0, 0, time.UTC)))
}

func TestFromTextPreservesEventOrder(t *testing.T) {
	events, err := FromText(strings.Join([]string{
		"BEGIN:VEVENT",
		"SUMMARY:first",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:second",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:third",
		"END:VEVENT",
	}, "\n"))
	require.Nil(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "first", events[0].Summary)
	assert.Equal(t, "second", events[1].Summary)
	assert.Equal(t, "third", events[2].Summary)
}

func TestFromTextAmbientTimezoneScoping(t *testing.T) {
	events, err := FromText(strings.Join([]string{
		"TZID:Europe/Berlin",
		"BEGIN:VEVENT",
		"DTSTART:20230126T110000",
		"END:VEVENT",
		"TZID:America/New_York",
		"BEGIN:VEVENT",
		"DTSTART:20230126T110000",
		"END:VEVENT",
	}, "\n"))
	require.Nil(t, err)
	require.Len(t, events, 2)

	berlin, _ := time.LoadLocation("Europe/Berlin")
	newYork, _ := time.LoadLocation("America/New_York")
	require.NotNil(t, events[0].StartDate)
	require.NotNil(t, events[1].StartDate)
	assert.True(t, events[0].StartDate.Equal(time.Date(2023, 1, 26, 11, 0, 0, 0, berlin)))
	assert.True(t, events[1].StartDate.Equal(time.Date(2023, 1, 26, 11, 0, 0, 0, newYork)))
}

func TestFromTextIgnoresUnknownProperties(t *testing.T) {
	base := []string{
		"BEGIN:VEVENT",
		"SUMMARY:hello",
		"UID:1",
		"END:VEVENT",
	}
	withCustom := []string{
		"BEGIN:VEVENT",
		"SUMMARY:hello",
		"UID:1",
		"END:VEVENT",
		"X-CUSTOM:foo",
	}

	expected, err := FromText(strings.Join(base, "\n"))
	require.Nil(t, err)
	actual, err := FromText(strings.Join(withCustom, "\n"))
	require.Nil(t, err)

	assert.Equal(t, expected, actual)
}

func TestFromTextPropertyBeforeFirstEvent(t *testing.T) {
	events, err := FromText(strings.Join([]string{
		"SUMMARY:orphaned",
		"BEGIN:VEVENT",
		"SUMMARY:real",
		"END:VEVENT",
	}, "\n"))
	require.Nil(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "real", events[0].Summary)
}

func TestFromTextRecurrenceRule(t *testing.T) {
	events, err := FromText(strings.Join([]string{
		"TZID:Europe/Berlin",
		"BEGIN:VEVENT",
		"RRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=5;UNTIL=20231231T000000;BYDAY=MO",
		"END:VEVENT",
	}, "\n"))
	require.Nil(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].RRule)

	rule := events[0].RRule
	assert.Equal(t, "WEEKLY", rule.Freq)
	require.NotNil(t, rule.Interval)
	assert.Equal(t, 2, *rule.Interval)
	require.NotNil(t, rule.Count)
	assert.Equal(t, 5, *rule.Count)

	berlin, _ := time.LoadLocation("Europe/Berlin")
	require.NotNil(t, rule.Until)
	assert.True(t, rule.Until.Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, berlin)))
}

func TestFromTextMalformedRulePart(t *testing.T) {
	_, err := FromText(strings.Join([]string{
		"BEGIN:VEVENT",
		"RRULE:FREQWEEKLY",
		"END:VEVENT",
	}, "\n"))

	assert.NotNil(t, err)
}

func TestFromTextBadTimezoneFailsDocument(t *testing.T) {
	_, err := FromText(strings.Join([]string{
		"BEGIN:VEVENT",
		"DTSTART;TZID=Not/AZone:20230126T110000",
		"END:VEVENT",
	}, "\n"))

	assert.NotNil(t, err)
}

func TestFromTextFoldedDescription(t *testing.T) {
	// an escaped newline followed by folding whitespace plus continuation
	// text joins into one string with real newlines and no indentation
	events, err := FromText("BEGIN:VEVENT\nDESCRIPTION:first\\n\tsecond\\n third\nEND:VEVENT")
	require.Nil(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "first\nsecond\nthird", events[0].Description)
}

func TestRecurrenceRuleString(t *testing.T) {
	interval := 2
	count := 5
	until := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	rule := RecurrenceRule{
		Freq:     "WEEKLY",
		Interval: &interval,
		Count:    &count,
		Until:    &until,
	}

	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;COUNT=5;UNTIL=20231231T000000Z", rule.String())
	assert.Equal(t, "", (&RecurrenceRule{}).String())
}
