package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// One subscribed iCalendar feed.
type Calendar struct {
	bun.BaseModel `bun:"table:calendars"`

	ID   string `bun:"id,pk"`        // required
	Name string `bun:"name,notnull"` // required
	Url  string `bun:"url,unique"`   // required
	Hash string `bun:"hash"`

	Events []*Event `bun:"rel:has-many,join:id=calendar_id"`
}

func (c *Calendar) Upsert(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return fmt.Errorf("(*Calendar).Upsert: db is nil")
	}

	// validate
	switch {
	case c.ID == "":
		return fmt.Errorf("(*Calendar).Upsert: calendar id is blank")
	case c.Name == "":
		return fmt.Errorf("(*Calendar).Upsert: calendar name is blank")
	case c.Url == "":
		return fmt.Errorf("(*Calendar).Upsert: calendar url is blank")
	}

	// upsert
	if _, err := db.NewInsert().
		Model(c).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("url = EXCLUDED.url").
		Set("hash = EXCLUDED.hash").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Calendar).Upsert: can't upsert calendar: %w", err)
	}

	return nil
}
