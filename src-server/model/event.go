package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/xyedo/rrule"
)

// One parsed VEVENT persisted for a calendar feed. Date fields hold unix
// seconds in UTC; a zero value means the source never set the property.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk"` // required
	UID         string `bun:"uid"`
	Summary     string `bun:"summary"`
	Description string `bun:"description"`

	StartDateUnixUTC int64 `bun:"start_date"`
	EndDateUnixUTC   int64 `bun:"end_date"`
	StampUnixUTC     int64 `bun:"stamp"`
	IsWholeDay       bool  `bun:"is_whole_day"`

	// raw iCalendar rule parts, e.g. "FREQ=WEEKLY;INTERVAL=2"
	RRuleRaw string `bun:"rrule_raw"`
	// comma-joined category list
	Categories string `bun:"categories"`

	CalendarID string `bun:"calendar_id,notnull"` // required

	RDates   []*RDate  `bun:"rel:has-many,join:id=event_id"`
	Calendar *Calendar `bun:"rel:belongs-to,join:calendar_id=id"`
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return fmt.Errorf("(*Event).Upsert: db is nil")
	}

	// validate
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.CalendarID == "":
		return fmt.Errorf("(*Event).Upsert: calendar id is blank")
	case e.StartDateUnixUTC != 0 && e.EndDateUnixUTC != 0 && e.StartDateUnixUTC > e.EndDateUnixUTC:
		return fmt.Errorf("(*Event).Upsert: start date must be before end date")
	}
	if e.RRuleRaw != "" {
		if _, err := rrule.StrToRRule(e.RRuleRaw); err != nil {
			return fmt.Errorf("(*Event).Upsert: rrule is invalid: %w", err)
		}
	}

	if e.StartDateUnixUTC != 0 {
		startDate := time.Unix(e.StartDateUnixUTC, 0).UTC()
		if startDate.Hour() == 0 &&
			startDate.Minute() == 0 &&
			startDate.Second() == 0 {
			e.IsWholeDay = true
		}
	}

	// upsert
	if _, err := db.NewInsert().
		Model(e).
		On("CONFLICT (id) DO UPDATE").
		Set("uid = EXCLUDED.uid").
		Set("summary = EXCLUDED.summary").
		Set("description = EXCLUDED.description").
		Set("start_date = EXCLUDED.start_date").
		Set("end_date = EXCLUDED.end_date").
		Set("stamp = EXCLUDED.stamp").
		Set("is_whole_day = EXCLUDED.is_whole_day").
		Set("rrule_raw = EXCLUDED.rrule_raw").
		Set("categories = EXCLUDED.categories").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Event).Upsert: can't upsert event: %w", err)
	}

	return nil
}
