package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calfeed/src-server/metric"
	"calfeed/src-server/model"
	"calfeed/src-server/route"
	"calfeed/src-server/scheduler"
	"calfeed/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	// register the subscribed feeds from the sources file; without one the
	// app keeps serving whatever feeds are already in the database
	sources, err := utils.LoadSources(as.Config.GetSourcesFile())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Error("can't load sources", "error", err)
			os.Exit(1)
		}
		slog.Warn("sources file not found, keeping existing feeds", "path", as.Config.GetSourcesFile())
	}
	for _, source := range sources {
		calendarModel := model.Calendar{
			ID:   source.ID,
			Name: source.Name,
			Url:  source.URL,
		}
		if err := calendarModel.Upsert(context.Background(), as.BunDB); err != nil {
			slog.Error("can't register calendar feed", "id", source.ID, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("calendar feeds registered", "feeds", len(sources))

	go metric.Init(as)

	// first refresh pass right away, then on the cron schedule
	go scheduler.CalendarUpdate(as)
	cronScheduler, err := scheduler.Start(as)
	if err != nil {
		slog.Error("can't start the refresh scheduler", "error", err)
		os.Exit(1)
	}
	defer cronScheduler.Stop()

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		route.Calendar(muxer, as)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), muxer); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}
