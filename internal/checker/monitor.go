package checker

import (
	"time"

	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
)

// runChecks performs one pass over the registry in insertion order.
// Probes run synchronously, so a slow probe delays the services after
// it within the same tick; tick cadence simply slips.
func (m *Monitor) runChecks(now time.Time) {
	services := m.registry.List()
	servicesTracked.Set(float64(len(services)))

	for i := range services {
		svc := &services[i]
		if !m.due(svc, now) {
			continue
		}
		m.checkService(svc, now)
	}
}

// due reports whether the service's own interval has elapsed. A service
// that has never been checked is always due.
func (m *Monitor) due(svc *pkg.Service, now time.Time) bool {
	if svc.LastCheckAt.IsZero() {
		return true
	}
	return now.Sub(svc.LastCheckAt) >= time.Duration(svc.CheckInterval)*time.Second
}

func (m *Monitor) checkService(svc *pkg.Service, now time.Time) {
	chk, ok := m.checkers[svc.Type]
	if !ok {
		// Unknown types are rejected at creation; nothing to do here.
		return
	}

	// Stamp the check time first so a hung probe is not retried on the
	// very next tick. The service may have been deleted mid-pass.
	if err := m.registry.MarkCheckStarted(svc.ID, now); err != nil {
		return
	}

	res := chk.Check(m.ctx, svc)

	wasUp, err := m.registry.ApplyCheckResult(svc.ID, res.Up, res.Message, now)
	if err != nil {
		return
	}

	result := "down"
	if res.Up {
		result = "up"
	}
	checksTotal.WithLabelValues(svc.Type.String(), result).Inc()

	if !res.Up {
		m.logger.WithFields(logrus.Fields{
			"service_name": svc.Name,
			"error":        res.Message,
		}).Debug("Check failed")
	}

	if wasUp != res.Up {
		transitionsTotal.WithLabelValues(result).Inc()
		m.logger.WithFields(logrus.Fields{
			"service_name": svc.Name,
			"status":       result,
		}).Infof("Service '%s' is now %s", svc.Name, statusWord(res.Up))
	}
}

func statusWord(up bool) string {
	if up {
		return "UP"
	}
	return "DOWN"
}
