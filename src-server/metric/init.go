package metric

import (
	"log/slog"
	"time"

	"calfeed/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("calfeed_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("calfeed_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func feedFetch(as *utils.AppState, clearTickerInterval *time.Duration) {
	feedFetch := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_feed_fetch_microsec",
		Help: "The latency of the last calendar feed fetch in microseconds",
	})
	good := true
	if err := prometheus.Register(feedFetch); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_feed_fetch_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_feed_fetch_microsec metric registered")
		feedFetch.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(feedFetch) {
				case true:
					slog.Debug("calfeed_feed_fetch_microsec metric unregistered")
				case false:
					slog.Warn("calfeed_feed_fetch_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.FeedFetch:
				feedFetch.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				feedFetch.Set(0)
			}
		}
	}()
}

func feedParse(as *utils.AppState, clearTickerInterval *time.Duration) {
	feedParse := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calfeed_feed_parse_microsec",
		Help: "The latency of the last calendar feed parse in microseconds",
	})
	good := true
	if err := prometheus.Register(feedParse); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calfeed_feed_parse_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calfeed_feed_parse_microsec metric registered")
		feedParse.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(feedParse) {
				case true:
					slog.Debug("calfeed_feed_parse_microsec metric unregistered")
				case false:
					slog.Warn("calfeed_feed_parse_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.FeedParse:
				feedParse.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				feedParse.Set(0)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	feedFetch(as, &clearTickerInterval)
	feedParse(as, &clearTickerInterval)
}
