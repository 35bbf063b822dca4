package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AaronLay10/PuzzleMaster/internal/events"
	"github.com/AaronLay10/PuzzleMaster/internal/version"
)

func init() {
	promauto.NewCounterFunc(prometheus.CounterOpts{
		Name: "puzzlemaster_journal_events_total",
		Help: "Total number of journal events emitted since startup.",
	}, func() float64 { return float64(events.TotalCount()) })

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "puzzlemaster_ws_clients",
		Help: "Number of live journal stream connections.",
	}, func() float64 { return float64(events.SubscriberCount()) })

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "puzzlemaster_build_info",
		Help:        "Build information.",
		ConstLabels: prometheus.Labels{"version": version.Version},
	}, func() float64 { return 1 })
}
