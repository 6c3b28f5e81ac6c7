package checker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uptime_monitor_checks_total",
		Help: "Number of completed health checks by service type and result.",
	}, []string{"type", "result"})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uptime_monitor_transitions_total",
		Help: "Number of up/down status transitions by new status.",
	}, []string{"to"})

	servicesTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "uptime_monitor_services",
		Help: "Number of services currently registered.",
	})
)
