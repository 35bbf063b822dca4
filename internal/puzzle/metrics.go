package puzzle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eliminated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "puzzlemaster_targets_eliminated_total",
		Help: "Total targets removed from an active puzzle",
	})

	ignoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "puzzlemaster_eliminations_ignored_total",
		Help: "Total elimination reports ignored, by reason",
	}, []string{"reason"})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "puzzlemaster_state_transitions_total",
		Help: "Total controller state transitions, by target state",
	}, []string{"state"})
)
