package realtime

import "github.com/prometheus/client_golang/prometheus"

var (
	connectionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_connections",
			Help: "Currently registered websocket connections",
		},
	)
	inboundMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_inbound_messages_total",
			Help: "Inbound envelope messages by discriminator",
		},
		[]string{"type"},
	)
	gameUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_game_updates_total",
			Help: "Game state updates pushed to participants",
		},
	)
	gamesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_games_finished_total",
			Help: "Games that reached the finished state",
		},
	)
)

func init() {
	prometheus.MustRegister(connectionsGauge, inboundMessages, gameUpdates, gamesFinished)
}
