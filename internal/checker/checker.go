package checker

import (
	"context"
	"net/http"
	"time"

	"github.com/gyengus/uptime-monitor/internal"
	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of a single probe.
type Result struct {
	Up      bool
	Message string
}

// Checker performs one synchronous probe against a service. A checker
// must honor the context deadline and must not mutate configuration
// fields.
type Checker interface {
	Check(ctx context.Context, service *pkg.Service) Result
}

// Registry interface for check scheduling operations.
type Registry interface {
	List() []pkg.Service
	MarkCheckStarted(id string, now time.Time) error
	ApplyCheckResult(id string, up bool, errMsg string, now time.Time) (bool, error)
}

// Monitor drives the periodic check pass. It runs on its own goroutine;
// the registry lock serializes its mutations against the API handlers.
type Monitor struct {
	registry Registry
	checkers map[pkg.ServiceType]Checker
	logger   *logrus.Logger
	tick     time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewMonitor(registry Registry, logger *logrus.Logger, cfg internal.MonitorConfig) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	client := &http.Client{
		Timeout: cfg.ProbeTimeout,
	}

	return &Monitor{
		registry: registry,
		checkers: map[pkg.ServiceType]Checker{
			pkg.TypeHomeAssistant: &HomeAssistantChecker{client: client},
			pkg.TypeJellyfin:      &JellyfinChecker{client: client},
			pkg.TypeHTTPGet:       &HTTPGetChecker{client: client},
			pkg.TypePing:          &PingChecker{count: cfg.PingCount, timeout: cfg.ProbeTimeout},
		},
		logger: logger,
		tick:   cfg.TickInterval,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the scheduling loop.
func (m *Monitor) Start() {
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.runChecks(time.Now())
		}
	}
}

// Close shuts down the monitor.
func (m *Monitor) Close() error {
	m.cancel()
	return nil
}
