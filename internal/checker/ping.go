package checker

import (
	"context"
	"time"

	"github.com/gyengus/uptime-monitor/pkg"
	probing "github.com/prometheus-community/pro-bing"
)

// PingChecker sends a short burst of ICMP echo probes; one reply is
// enough to count the host as up.
type PingChecker struct {
	count   int
	timeout time.Duration
}

func (c *PingChecker) Check(ctx context.Context, service *pkg.Service) Result {
	pinger, err := probing.NewPinger(service.Host)
	if err != nil {
		return Result{Message: "Ping timeout"}
	}

	pinger.Count = c.count
	pinger.Timeout = c.timeout
	// Raw ICMP sockets; the agent runs privileged on its device.
	pinger.SetPrivileged(true)

	if err := pinger.RunWithContext(ctx); err != nil {
		return Result{Message: "Ping timeout"}
	}

	if pinger.Statistics().PacketsRecv == 0 {
		return Result{Message: "Ping timeout"}
	}

	return Result{Up: true}
}
