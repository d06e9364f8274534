package docs

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsDocs holds Prometheus metrics for page fetching and type resolution.
type metricsDocs struct {
	once sync.Once

	fetchOK     prometheus.Counter
	fetchFailed prometheus.Counter
	fetchTime   prometheus.Histogram

	layoutMatched *prometheus.CounterVec
	notFound      prometheus.Counter
}

var docsMetrics metricsDocs

func (m *metricsDocs) init() {
	m.once.Do(func() {
		m.fetchOK = prometheus.NewCounter(prometheus.CounterOpts{Name: "docsrs_fetch_ok_total", Help: "Pages fetched successfully"})
		m.fetchFailed = prometheus.NewCounter(prometheus.CounterOpts{Name: "docsrs_fetch_failed_total", Help: "Page fetches that failed"})
		m.fetchTime = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "docsrs_fetch_seconds",
			Help:    "Page fetch latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		})
		m.layoutMatched = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docsrs_resolve_layout_total",
			Help: "Type lookups resolved, by all-items layout",
		}, []string{"layout"})
		m.notFound = prometheus.NewCounter(prometheus.CounterOpts{Name: "docsrs_resolve_not_found_total", Help: "Type lookups that matched no layout"})

		prometheus.MustRegister(m.fetchOK, m.fetchFailed, m.fetchTime, m.layoutMatched, m.notFound)
	})
}

func observeFetch(err error, d time.Duration) {
	docsMetrics.init()
	docsMetrics.fetchTime.Observe(d.Seconds())
	if err != nil {
		docsMetrics.fetchFailed.Inc()
		return
	}
	docsMetrics.fetchOK.Inc()
}

func recordLayoutMatch(layout string) {
	docsMetrics.init()
	docsMetrics.layoutMatched.WithLabelValues(layout).Inc()
}

func recordNotFound() { docsMetrics.init(); docsMetrics.notFound.Inc() }
