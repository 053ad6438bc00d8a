package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exports decision and game metrics to Prometheus.
type Recorder struct {
	decisions      *prometheus.CounterVec
	fallbacks      prometheus.Counter
	overruns       prometheus.Counter
	iterations     prometheus.Histogram
	searchDuration prometheus.Histogram
	treeNodes      prometheus.Histogram
	games          *prometheus.CounterVec
	score          prometheus.Histogram
	ticks          prometheus.Histogram
}

// NewRecorder registers the metrics with reg. A nil reg leaves them
// unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pacman_decisions_total",
			Help: "Total decisions by whether a search was run",
		}, []string{"searched"}),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "pacman_search_fallbacks_total",
			Help: "Total searches that played the fallback move",
		}),
		overruns: factory.NewCounter(prometheus.CounterOpts{
			Name: "pacman_search_overruns_total",
			Help: "Total searches that finished after their deadline",
		}),
		iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pacman_search_iterations",
			Help:    "Iterations completed per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 9), // 1 to ~65k
		}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pacman_search_duration_seconds",
			Help:    "Search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~500ms
		}),
		treeNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pacman_search_tree_nodes",
			Help:    "Tree size at the end of a search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		games: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pacman_games_total",
			Help: "Total games played by layout",
		}, []string{"layout"}),
		score: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pacman_game_score",
			Help:    "Final score per game",
			Buckets: prometheus.LinearBuckets(0, 1000, 10),
		}),
		ticks: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pacman_game_ticks",
			Help:    "Ticks played per game",
			Buckets: prometheus.ExponentialBuckets(50, 2, 8),
		}),
	}
}

func (r *Recorder) ObserveMove(mm MoveMetric) {
	r.decisions.WithLabelValues(strconv.FormatBool(mm.Searched)).Inc()
	if !mm.Searched {
		return
	}
	if mm.Fallback {
		r.fallbacks.Inc()
	}
	if mm.Overrun > 0 {
		r.overruns.Inc()
	}
	r.iterations.Observe(float64(mm.Iterations))
	r.searchDuration.Observe(mm.Duration.Seconds())
	r.treeNodes.Observe(float64(mm.Nodes))
}

func (r *Recorder) ObserveGame(gm GameMetric) {
	r.games.WithLabelValues(gm.Layout).Inc()
	r.score.Observe(float64(gm.Score))
	r.ticks.Observe(float64(gm.Ticks))
}
