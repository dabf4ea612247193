package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellness_chat_messages_sent_total",
		Help: "Chat messages accepted by the send path.",
	})

	SnapshotsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellness_chat_snapshots_delivered_total",
		Help: "Full conversation snapshots delivered to subscribers.",
	})

	FeedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wellness_chat_feed_subscribers",
		Help: "Currently attached conversation feed subscribers.",
	})
)

// Handler returns an http.Handler for Prometheus scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
