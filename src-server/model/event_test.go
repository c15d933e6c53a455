package model_test

import (
	"calfeed/src-server/model"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestEvent(t *testing.T) {
	// init db
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Error(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())

	// init tables
	for _, model := range []interface{}{
		(*model.Calendar)(nil),
		(*model.Event)(nil),
		(*model.RDate)(nil),
	} {
		if _, err := bundb.NewCreateTable().Model(model).IfNotExists().Exec(context.Background()); err != nil {
			t.Error(err)
		}
	}

	// create models
	calendarModel := model.Calendar{
		ID:   uuid.NewString(),
		Name: "calendar name test",
		Url:  "https://example.com/calendar.ics",
	}
	eventModel := model.Event{
		ID:               uuid.NewString(),
		CalendarID:       calendarModel.ID,
		UID:              "event-1@test",
		Summary:          "test",
		StartDateUnixUTC: time.Date(2023, 1, 26, 11, 0, 0, 0, time.UTC).Unix(),
		EndDateUnixUTC:   time.Date(2023, 1, 26, 13, 0, 0, 0, time.UTC).Unix(),
		RRuleRaw:         "FREQ=WEEKLY;INTERVAL=2",
		Categories:       "work,meeting",
	}
	rdateModel := model.RDate{
		EventID:          eventModel.ID,
		StartDateUnixUTC: time.Date(2023, 2, 2, 11, 0, 0, 0, time.UTC).Unix(),
		EndDateUnixUTC:   time.Date(2023, 2, 2, 13, 0, 0, 0, time.UTC).Unix(),
	}

	// insert models
	if err := calendarModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}
	if _, err := bundb.NewInsert().
		Model(&rdateModel).
		Exec(context.Background()); err != nil {
		t.Error(err)
	}

	// case: event exists with its recurrence dates
	func() {
		eventModelTest := new(model.Event)
		if err := bundb.NewSelect().
			Model(eventModelTest).
			Relation("RDates").
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if len(eventModelTest.RDates) != 1 {
			t.Error("recurrence date not found")
			return
		}
		if eventModelTest.RDates[0].StartDateUnixUTC != rdateModel.StartDateUnixUTC {
			t.Error("recurrence date start mismatch")
		}
	}()

	// case: upsert updates in place instead of duplicating
	func() {
		eventModel.Summary = "renamed"
		if err := eventModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		count, err := bundb.NewSelect().
			Model((*model.Event)(nil)).
			Where("calendar_id = ?", calendarModel.ID).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 1 {
			t.Error("event should have been updated, not duplicated", count)
		}
	}()

	// case: invalid rrule is rejected
	func() {
		badEventModel := model.Event{
			ID:         uuid.NewString(),
			CalendarID: calendarModel.ID,
			Summary:    "bad rrule",
			RRuleRaw:   "not-a-rule",
		}
		if err := badEventModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected an error for invalid rrule")
		}
	}()

	// case: start date after end date is rejected
	func() {
		badEventModel := model.Event{
			ID:               uuid.NewString(),
			CalendarID:       calendarModel.ID,
			Summary:          "bad dates",
			StartDateUnixUTC: 200,
			EndDateUnixUTC:   100,
		}
		if err := badEventModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected an error for inverted dates")
		}
	}()
}
