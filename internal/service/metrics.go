package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamlog_messages_created_total",
			Help: "Messages persisted, by message type",
		},
		[]string{"message_type"},
	)

	messageRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamlog_message_rejections_total",
			Help: "Message writes rejected by validation, by offending field",
		},
		[]string{"field"},
	)

	messagesMarkedReadTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teamlog_messages_marked_read_total",
			Help: "Messages transitioned to read, single and bulk",
		},
	)
)
