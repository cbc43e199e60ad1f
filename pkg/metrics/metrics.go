// Package metrics holds the prometheus collectors shared across the bot,
// the lifecycle engine and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal counts processed bot commands by command name.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftbot_commands_total",
		Help: "Number of bot commands processed.",
	}, []string{"command"})

	// CallbacksTotal counts processed inline-keyboard callbacks by action.
	CallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftbot_callbacks_total",
		Help: "Number of callback queries processed.",
	}, []string{"action"})

	// GiftTransitionsTotal counts gift lifecycle transitions by operation.
	GiftTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftbot_gift_transitions_total",
		Help: "Number of gift lifecycle transitions applied.",
	}, []string{"operation"})

	// BroadcastsDelivered counts broadcast messages delivered to
	// participants.
	BroadcastsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftbot_broadcasts_delivered_total",
		Help: "Number of broadcast messages delivered.",
	})
)
