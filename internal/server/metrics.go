package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/theirongolddev/habits/internal/store"
)

var (
	mutationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habits",
		Subsystem: "store",
		Name:      "changes_total",
		Help:      "Number of applied store changes by kind and whether they were persisted.",
	}, []string{"kind", "persisted"})

	habitGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "habits",
		Subsystem: "store",
		Name:      "habits",
		Help:      "Number of habits currently tracked.",
	})

	lastPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "habits",
		Subsystem: "store",
		Name:      "last_persist_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful write.",
	})

	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habits",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests by route and status code.",
	}, []string{"method", "route", "code"})
)

func init() {
	prometheus.MustRegister(mutationCounter, habitGauge, lastPersistGauge, requestCounter)
}

func recordChange(c store.Change, habits int, saved time.Time) {
	mutationCounter.WithLabelValues(string(c.Kind), strconv.FormatBool(c.Persisted)).Inc()
	setHabitCount(habits)
	if !saved.IsZero() {
		lastPersistGauge.Set(float64(saved.Unix()))
	}
}

func setHabitCount(n int) {
	habitGauge.Set(float64(n))
}

func recordRequest(method, route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	requestCounter.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
