package blog

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mariddleh/blog/analytics"
)

const metricsSubsystem = "blog"

// metrics are the content counters exported next to echo's request metrics.
type metrics struct {
	pageViews      *prometheus.CounterVec
	contentFetches *prometheus.CounterVec
	loadFailures   prometheus.Counter
	postNotFound   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: metricsSubsystem,
			Name:      "page_views_total",
			Help:      "Full page views by page kind, client (human or bot name), device and referrer source.",
		}, []string{"page", "client", "device", "source"}),
		contentFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: metricsSubsystem,
			Name:      "content_fetches_total",
			Help:      "Successful post content fetches by cache result.",
		}, []string{"cache"}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: metricsSubsystem,
			Name:      "content_load_failures_total",
			Help:      "Post views that ended in the load failure page.",
		}),
		postNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: metricsSubsystem,
			Name:      "post_not_found_total",
			Help:      "Post views for a missing or unknown id.",
		}),
	}
	reg.MustRegister(m.pageViews, m.contentFetches, m.loadFailures, m.postNotFound)
	return m
}

func (m *metrics) observeFetch(_ string, _ int, hit bool) {
	if hit {
		m.contentFetches.WithLabelValues("hit").Inc()
		return
	}
	m.contentFetches.WithLabelValues("miss").Inc()
}

func (m *metrics) observeView(kind PageKind, v analytics.Visit) {
	m.pageViews.WithLabelValues(kind.String(), v.Client(), v.Device, v.Source).Inc()
}
