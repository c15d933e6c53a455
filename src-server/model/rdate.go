package model

import "github.com/uptrace/bun"

// Recurrence dates from RDATE lines of master events. EndDateUnixUTC is
// zero unless the source entry was a PERIOD pair.
type RDate struct {
	bun.BaseModel `bun:"table:rdates"`

	EventID          string `bun:"event_id,notnull"`
	StartDateUnixUTC int64  `bun:"start_date,notnull"`
	EndDateUnixUTC   int64  `bun:"end_date"`
}
