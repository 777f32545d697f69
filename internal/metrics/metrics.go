package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "typerace_sessions",
		Help: "A gauge of currently connected player sessions.",
	})

	RoomsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "typerace_rooms",
		Help: "A gauge of live rooms.",
	})

	RacesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "typerace_races_finished_total",
		Help: "A counter of races that delivered a final result.",
	})

	ProtocolErrorsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "typerace_protocol_errors_total",
		Help: "A counter of malformed or unexpected client messages.",
	})
)

func init() {
	prometheus.MustRegister(
		SessionsGauge,
		RoomsGauge,
		RacesCounter,
		ProtocolErrorsCounter,
	)
}
