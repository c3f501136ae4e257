package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transfer_uploads_total",
		Help: "Total number of completed uploads.",
	})

	downloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transfer_downloads_total",
		Help: "Total number of completed downloads.",
	})

	sweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transfer_expired_swept_total",
		Help: "Total number of expired transfers removed by the sweeper.",
	})
)
