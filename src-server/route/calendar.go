package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"calfeed/src-server/model"
	"calfeed/src-server/utils"
)

func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	type OneCalendarRespBody struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Url  string `json:"url"`
	}

	type OneRDateRespBody struct {
		StartDateUnixUTC int64 `json:"startDateUnixUTC"`
		EndDateUnixUTC   int64 `json:"endDateUnixUTC,omitempty"`
	}

	type OneEventRespBody struct {
		ID               string             `json:"id"`
		UID              string             `json:"uid"`
		Summary          string             `json:"summary"`
		Description      string             `json:"description"`
		StartDateUnixUTC int64              `json:"startDateUnixUTC"`
		EndDateUnixUTC   int64              `json:"endDateUnixUTC"`
		StampUnixUTC     int64              `json:"stampUnixUTC"`
		IsWholeDay       bool               `json:"isWholeDay"`
		RRule            string             `json:"rrule,omitempty"`
		RDates           []OneRDateRespBody `json:"rdates,omitempty"`
		Categories       []string           `json:"categories,omitempty"`
	}

	// list all subscribed calendar feeds
	muxer.HandleFunc("GET /calendars", func(w http.ResponseWriter, r *http.Request) {
		calendarModels := make([]model.Calendar, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&calendarModels).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get calendars"))
			slog.Error("can't get calendars", "error", err)
			return
		}

		respBody := make([]OneCalendarRespBody, 0)
		for _, calendarModel := range calendarModels {
			respBody = append(respBody, OneCalendarRespBody{
				ID:   calendarModel.ID,
				Name: calendarModel.Name,
				Url:  calendarModel.Url,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(respBody); err != nil {
			slog.Warn("can't write to response", "where", "route/calendar.go", "err", err)
		}
	})

	// list all events of one calendar feed, in source declaration order
	muxer.HandleFunc("GET /calendars/{calendar_id}/events", func(w http.ResponseWriter, r *http.Request) {
		calendarID := r.PathValue("calendar_id")

		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Calendar)(nil)).
			Where("id = ?", calendarID).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if calendar exists"))
			slog.Error("can't check if calendar exists", "error", err)
			return
		case !exists:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Calendar not found"))
			return
		}

		eventModels := make([]model.Event, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&eventModels).
			Where("calendar_id = ?", calendarID).
			Relation("RDates").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get events"))
			slog.Error("can't get events", "error", err)
			return
		}

		respBody := make([]OneEventRespBody, 0)
		for _, eventModel := range eventModels {
			rdates := make([]OneRDateRespBody, 0, len(eventModel.RDates))
			for _, rdateModel := range eventModel.RDates {
				rdates = append(rdates, OneRDateRespBody{
					StartDateUnixUTC: rdateModel.StartDateUnixUTC,
					EndDateUnixUTC:   rdateModel.EndDateUnixUTC,
				})
			}
			categories := []string{}
			if eventModel.Categories != "" {
				categories = strings.Split(eventModel.Categories, ",")
			}
			respBody = append(respBody, OneEventRespBody{
				ID:               eventModel.ID,
				UID:              eventModel.UID,
				Summary:          eventModel.Summary,
				Description:      eventModel.Description,
				StartDateUnixUTC: eventModel.StartDateUnixUTC,
				EndDateUnixUTC:   eventModel.EndDateUnixUTC,
				StampUnixUTC:     eventModel.StampUnixUTC,
				IsWholeDay:       eventModel.IsWholeDay,
				RRule:            eventModel.RRuleRaw,
				RDates:           rdates,
				Categories:       categories,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(respBody); err != nil {
			slog.Warn("can't write to response", "where", "route/calendar.go", "err", err)
		}
	})
}
