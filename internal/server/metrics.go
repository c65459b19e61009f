package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Tiliavir/remylog/internal/model"
)

// otherTypeLabel is the metric label for activity types outside the known set.
const otherTypeLabel = "other"

type metrics struct {
	eventsLogged  *prometheus.CounterVec
	eventsDeleted prometheus.Counter
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		eventsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remylog",
			Name:      "events_logged_total",
			Help:      "Events appended, by activity type. Unknown types count as \"other\".",
		}, []string{"type"}),
		eventsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "remylog",
			Name:      "events_deleted_total",
			Help:      "Delete requests handled, including ids that did not exist.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remylog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "remylog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	for _, c := range []prometheus.Collector{m.eventsLogged, m.eventsDeleted, m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) logged(t model.ActivityType) {
	label := otherTypeLabel
	if t.Known() {
		label = string(t)
	}
	m.eventsLogged.WithLabelValues(label).Inc()
}
