package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gyengus/uptime-monitor/pkg"
)

// HomeAssistantChecker probes GET /api/. Home Assistant answers 404
// there without auth, so any completed response at all counts as up;
// only a connection-level failure is down. This detects "something is
// listening", not "this is actually Home Assistant".
type HomeAssistantChecker struct {
	client *http.Client
}

func (c *HomeAssistantChecker) Check(ctx context.Context, service *pkg.Service) Result {
	url := fmt.Sprintf("http://%s:%d/api/", service.Host, service.Port)

	resp, err := get(ctx, c.client, url)
	if err != nil {
		return Result{Message: "Connection failed: " + err.Error()}
	}
	resp.Body.Close()

	return Result{Up: true}
}

// JellyfinChecker probes the built-in GET /health endpoint; only an
// exact 200 counts as up.
type JellyfinChecker struct {
	client *http.Client
}

func (c *JellyfinChecker) Check(ctx context.Context, service *pkg.Service) Result {
	url := fmt.Sprintf("http://%s:%d/health", service.Host, service.Port)

	resp, err := get(ctx, c.client, url)
	if err != nil {
		return Result{Message: "Connection failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	return Result{Up: true}
}

// HTTPGetChecker probes an arbitrary path. On 200 the body must contain
// the expected response as a case-sensitive substring, unless the "*"
// sentinel matches anything.
type HTTPGetChecker struct {
	client *http.Client
}

func (c *HTTPGetChecker) Check(ctx context.Context, service *pkg.Service) Result {
	url := fmt.Sprintf("http://%s:%d%s", service.Host, service.Port, service.Path)

	resp, err := get(ctx, c.client, url)
	if err != nil {
		return Result{Message: "Connection failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	if service.ExpectedResponse == "*" {
		return Result{Up: true}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Message: "Connection failed: " + err.Error()}
	}

	if !strings.Contains(string(body), service.ExpectedResponse) {
		return Result{Message: "Response mismatch"}
	}

	return Result{Up: true}
}

func get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}
