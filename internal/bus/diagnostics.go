package bus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AaronLay10/PuzzleMaster/internal/events"
)

var (
	publishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "puzzlemaster_bus_published_total",
		Help: "Total bus publishes by channel",
	}, []string{"channel"})

	subscriberFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "puzzlemaster_bus_subscriber_failures_total",
		Help: "Total subscriber failures isolated during dispatch, by channel",
	}, []string{"channel"})
)

// reportFailure is the default failure path: a bus.subscriber_failed journal event.
func reportFailure(f Failure) {
	events.Emit("error", "bus.subscriber_failed", f.Err.Error(), map[string]interface{}{
		"channel":         string(f.Channel),
		"subscription_id": f.SubscriptionID,
	})
}
