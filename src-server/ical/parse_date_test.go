package ical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDateTime(t *testing.T) {
	berlin, _ := time.LoadLocation("Europe/Berlin")

	for _, testCase := range []struct {
		name  string
		value string
		tzid  string
		want  time.Time
	}{
		{"date only, no timezone", "20230126", "", time.Date(2023, 1, 26, 0, 0, 0, 0, time.UTC)},
		{"date only, in timezone", "20230126", "Europe/Berlin", time.Date(2023, 1, 26, 0, 0, 0, 0, berlin)},
		{"utc date-time", "20230126T110000Z", "", time.Date(2023, 1, 26, 11, 0, 0, 0, time.UTC)},
		{"utc date-time ignores tzid", "20230126T110000Z", "Europe/Berlin", time.Date(2023, 1, 26, 11, 0, 0, 0, time.UTC)},
		{"local date-time", "20230126T110000", "Europe/Berlin", time.Date(2023, 1, 26, 11, 0, 0, 0, berlin)},
		{"floating date-time", "20230126T110000", "", time.Date(2023, 1, 26, 11, 0, 0, 0, time.UTC)},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := ResolveDateTime(testCase.value, testCase.tzid)
			require.Nil(t, err)
			assert.True(t, got.Equal(testCase.want), "got %v, want %v", got, testCase.want)
		})
	}
}

func TestResolveDateTimeErrors(t *testing.T) {
	_, err := ResolveDateTime("20230126T110000", "Not/AZone")
	assert.NotNil(t, err)

	_, err = ResolveDateTime("not-a-date", "")
	assert.NotNil(t, err)

	_, err = ResolveDateTime("20231301", "")
	assert.NotNil(t, err)
}
