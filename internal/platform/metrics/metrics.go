package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the shell. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	CommandsTotal    *prometheus.CounterVec
	CommandDuration  *prometheus.HistogramVec
	SessionsOpened   prometheus.Counter
	SessionsRejected prometheus.Counter
	CountriesRemoved prometheus.Counter
	GuestQueries     prometheus.Counter
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "geoshell_commands_total",
			Help: "Commands executed, by command and outcome code",
		}, []string{"command", "outcome"}),
		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geoshell_command_duration_seconds",
			Help:    "Duration of command execution including the store transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"command"}),
		SessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "geoshell_admin_sessions_opened_total",
			Help: "Successful administrator sign-ins",
		}),
		SessionsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "geoshell_admin_sessions_rejected_total",
			Help: "Sign-ins refused because the access level's session cap was reached",
		}),
		CountriesRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "geoshell_countries_removed_total",
			Help: "Countries deleted after their last city was transferred away",
		}),
		GuestQueries: factory.NewCounter(prometheus.CounterOpts{
			Name: "geoshell_guest_queries_total",
			Help: "Describe queries charged to a guest quota",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCommand records one command's outcome and duration.
// Call with time.Now() taken before the command started.
func (m *Metrics) ObserveCommand(command, outcome string, start time.Time) {
	m.CommandsTotal.WithLabelValues(command, outcome).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementSessionsOpened() {
	m.SessionsOpened.Inc()
}

func (m *Metrics) IncrementSessionsRejected() {
	m.SessionsRejected.Inc()
}

func (m *Metrics) IncrementCountriesRemoved() {
	m.CountriesRemoved.Inc()
}

func (m *Metrics) IncrementGuestQueries() {
	m.GuestQueries.Inc()
}

// WriteTextfile dumps the current values in the text exposition format, for
// pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
