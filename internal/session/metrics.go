package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/crossword/internal/game"
)

// unrecognizedKind labels every action type the engine does not know, so
// client-chosen types cannot grow the label set.
const unrecognizedKind = "unrecognized"

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crossword_actions_total",
		Help: "Actions dispatched to sessions, by action kind",
	}, []string{"kind"})

	transitionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crossword_transition_duration_seconds",
		Help:    "Time spent in the state transition for one action",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})

	sessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crossword_sessions_created_total",
		Help: "Sessions created, by mode",
	}, []string{"mode"})

	sessionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crossword_sessions_live",
		Help: "Sessions currently held in memory",
	})

	persistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossword_persist_errors_total",
		Help: "Session saves that failed after a transition",
	})

	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crossword_solves_total",
		Help: "Solving sessions that reached success, by whether any cell was revealed",
	}, []string{"revealed"})
)

func kindLabel(a game.Action) string {
	if _, ok := a.(game.Unrecognized); ok {
		return unrecognizedKind
	}
	return string(a.Kind())
}
