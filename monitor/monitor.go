package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	ActiveGames      prometheus.Gauge
	ConnectedClients prometheus.Gauge
	AnswersAccepted  prometheus.Counter
	AnswersRejected  prometheus.Counter
	TurnTimeouts     prometheus.Counter
	TurnDuration     prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ActiveGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Number of active game sessions",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_clients",
			Help:      "Number of connected websocket clients",
		}),
		AnswersAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_accepted_total",
			Help:      "Total number of accepted answers",
		}),
		AnswersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_rejected_total",
			Help:      "Total number of rejected answers",
		}),
		TurnTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_timeouts_total",
			Help:      "Total number of turns lost to the clock",
		}),
		TurnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Wall-clock duration of turn resolution",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.ActiveGames,
		m.ConnectedClients,
		m.AnswersAccepted,
		m.AnswersRejected,
		m.TurnTimeouts,
		m.TurnDuration,
	)

	return m
}

// Monitor exposes the metrics endpoint and implements game.Recorder.
type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/vars", expvar.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	go http.ListenAndServe(addr, mux)
}

// Uptime reports how long the process has been serving.
func (m *Monitor) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// --- game.Recorder ---

func (m *Monitor) GameCreated()  { m.metrics.ActiveGames.Inc() }
func (m *Monitor) GameReleased() { m.metrics.ActiveGames.Dec() }

func (m *Monitor) AnswerAccepted() { m.metrics.AnswersAccepted.Inc() }
func (m *Monitor) AnswerRejected() { m.metrics.AnswersRejected.Inc() }
func (m *Monitor) TurnTimeout()    { m.metrics.TurnTimeouts.Inc() }

func (m *Monitor) ObserveTurn(d time.Duration) {
	m.metrics.TurnDuration.Observe(d.Seconds())
}

// --- client connection tracking ---

func (m *Monitor) IncConnectedClients() { m.metrics.ConnectedClients.Inc() }
func (m *Monitor) DecConnectedClients() { m.metrics.ConnectedClients.Dec() }
