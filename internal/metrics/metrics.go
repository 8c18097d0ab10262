package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// OpenSessions tracks currently connected sessions.
	OpenSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roomchat_open_sessions",
		Help: "Number of currently open chat sessions",
	})

	// CommandsTotal counts actor commands by kind.
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roomchat_commands_total",
		Help: "Total commands processed by the chat actor",
	}, []string{"kind"})

	// CommandDuration observes per-command processing time.
	CommandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roomchat_command_seconds",
		Help:    "Time the actor spends processing each command kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// DroppedReplies counts replies abandoned by their sessions.
	DroppedReplies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roomchat_dropped_replies_total",
		Help: "Replies dropped because the requesting session was gone",
	})
)

func init() {
	prometheus.MustRegister(OpenSessions)
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(DroppedReplies)
}
