package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "itemlist"

var ItemsInserted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      "items_inserted_total",
		Help:      "Items inserted into the store",
		Namespace: Namespace,
	},
)

var ItemsDeleted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      "items_deleted_total",
		Help:      "Items removed from the store",
		Namespace: Namespace,
	},
)

var Items = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name:      "items",
		Help:      "Items currently stored",
		Namespace: Namespace,
	},
)

var LiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name:      "live_sessions",
		Help:      "Open live list view sessions",
		Namespace: Namespace,
	},
)
