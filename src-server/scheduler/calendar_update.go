package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"calfeed/src-server/ical"
	"calfeed/src-server/model"
	"calfeed/src-server/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const (
	WORKER_COUNT  = 4
	FETCH_TIMEOUT = time.Minute * 5
)

// Start schedules a full refresh pass on the configured cron expression.
// The returned cron keeps running until stopped.
func Start(as *utils.AppState) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(as.Config.GetRefreshCron(), func() {
		CalendarUpdate(as)
	}); err != nil {
		return nil, fmt.Errorf("scheduler.Start: %w", err)
	}
	c.Start()
	return c, nil
}

// CalendarUpdate runs one refresh pass: every stored calendar feed is
// fetched and re-parsed by a fixed worker pool, and feeds whose content
// hash changed get their rows replaced in one transaction. Documents are
// independent, so workers run in parallel; line order within one document
// stays sequential inside the parser.
func CalendarUpdate(as *utils.AppState) {
	calendarModels := []model.Calendar{}
	if err := as.BunDB.
		NewSelect().
		Model(&calendarModels).
		Where("url LIKE ?", "https://%").
		Scan(context.Background()); err != nil {
		slog.Error("CalendarUpdate: can't get calendars", "error", err)
		return
	}
	if len(calendarModels) == 0 {
		return
	}

	jobs := make(chan model.Calendar, len(calendarModels))
	var wg sync.WaitGroup

	for range WORKER_COUNT {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for calendarModel := range jobs {
				type fetchResult struct {
					body   []byte
					events []ical.Event
				}
				resultCh := make(chan fetchResult, 1)
				errCh := make(chan error, 1)

				go func() {
					fetchTimer := time.Now()
					body, err := fetchFeed(calendarModel.Url)
					if err != nil {
						errCh <- err
						return
					}
					as.MetricChans.FeedFetch <- float64(time.Since(fetchTimer).Microseconds())

					parseTimer := time.Now()
					events, perr := ical.FromText(string(body))
					if perr != nil {
						errCh <- perr
						return
					}
					as.MetricChans.FeedParse <- float64(time.Since(parseTimer).Microseconds())

					resultCh <- fetchResult{body: body, events: events}
				}()

				select {
				case <-time.After(FETCH_TIMEOUT):
					slog.Warn("CalendarUpdate: timed out waiting for calendar to be fetched & parsed", "url", calendarModel.Url)
				case err := <-errCh:
					slog.Warn("CalendarUpdate: can't refresh calendar", "url", calendarModel.Url, "error", err)
				case result := <-resultCh:
					hash := utils.GetContentHash(result.body)
					if hash == calendarModel.Hash {
						slog.Debug("CalendarUpdate: calendar unchanged", "id", calendarModel.ID)
						continue
					}
					if err := replaceCalendarEvents(as, calendarModel, hash, result.events); err != nil {
						slog.Error("CalendarUpdate: can't replace calendar events", "id", calendarModel.ID, "error", err)
						continue
					}
					slog.Info("CalendarUpdate: calendar refreshed", "id", calendarModel.ID, "events", len(result.events))
				}
			}
		}()
	}

	for _, calendarModel := range calendarModels {
		jobs <- calendarModel
	}
	close(jobs)
	wg.Wait()
}

func fetchFeed(url string) ([]byte, error) {
	client := &http.Client{Timeout: FETCH_TIMEOUT}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetchFeed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchFeed: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetchFeed: %w", err)
	}
	return body, nil
}

// replaceCalendarEvents swaps a feed's stored rows for freshly parsed
// ones inside one transaction.
func replaceCalendarEvents(as *utils.AppState, calendarModel model.Calendar, hash string, events []ical.Event) error {
	return as.BunDB.RunInTx(context.Background(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		eventIDs := make([]string, 0)
		if err := tx.NewSelect().
			Model((*model.Event)(nil)).
			Column("id").
			Where("calendar_id = ?", calendarModel.ID).
			Scan(ctx, &eventIDs); err != nil {
			return fmt.Errorf("can't get old event ids: %w", err)
		}
		if len(eventIDs) > 0 {
			if _, err := tx.NewDelete().
				Model((*model.RDate)(nil)).
				Where("event_id IN (?)", bun.In(eventIDs)).
				Exec(ctx); err != nil {
				return fmt.Errorf("can't delete old recurrence dates: %w", err)
			}
			if _, err := tx.NewDelete().
				Model((*model.Event)(nil)).
				Where("calendar_id = ?", calendarModel.ID).
				Exec(ctx); err != nil {
				return fmt.Errorf("can't delete old events: %w", err)
			}
		}

		calendarModel.Hash = hash
		if err := calendarModel.Upsert(ctx, tx); err != nil {
			return err
		}

		for _, event := range events {
			eventModel := eventToModel(event, calendarModel.ID)
			if err := eventModel.Upsert(ctx, tx); err != nil {
				return err
			}

			if len(event.RDates) == 0 {
				continue
			}
			rdateModels := make([]model.RDate, 0, len(event.RDates))
			for _, entry := range event.RDates {
				rdateModel := model.RDate{
					EventID:          eventModel.ID,
					StartDateUnixUTC: entry.Start.UTC().Unix(),
				}
				if entry.End != nil {
					rdateModel.EndDateUnixUTC = entry.End.UTC().Unix()
				}
				rdateModels = append(rdateModels, rdateModel)
			}
			if _, err := tx.NewInsert().
				Model(&rdateModels).
				Exec(ctx); err != nil {
				return fmt.Errorf("can't insert recurrence dates: %w", err)
			}
		}
		return nil
	})
}

func eventToModel(event ical.Event, calendarID string) model.Event {
	uid := event.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	eventModel := model.Event{
		ID:          fmt.Sprintf("%s-%s", uid, calendarID),
		UID:         event.UID,
		Summary:     event.Summary,
		Description: event.Description,
		RRuleRaw:    event.RRule.String(),
		Categories:  strings.Join(event.Categories, ","),
		CalendarID:  calendarID,
	}
	if event.StartDate != nil {
		eventModel.StartDateUnixUTC = event.StartDate.UTC().Unix()
	}
	if event.EndDate != nil {
		eventModel.EndDateUnixUTC = event.EndDate.UTC().Unix()
	}
	if event.Stamp != nil {
		eventModel.StampUnixUTC = event.Stamp.UTC().Unix()
	}
	return eventModel
}
