package pkg

import (
	"fmt"
	"time"
)

// MaxServices bounds the registry. The limit is a policy decision kept
// from the original device firmware, not a storage artifact.
const MaxServices = 20

// ServiceType selects the probe strategy for a service.
type ServiceType int

const (
	TypeHomeAssistant ServiceType = iota
	TypeJellyfin
	TypeHTTPGet
	TypePing
)

// Valid reports whether the type is one of the known variants. Persisted
// discriminants are bounds-checked with this on load.
func (t ServiceType) Valid() bool {
	return t >= TypeHomeAssistant && t <= TypePing
}

func (t ServiceType) String() string {
	switch t {
	case TypeHomeAssistant:
		return "home_assistant"
	case TypeJellyfin:
		return "jellyfin"
	case TypeHTTPGet:
		return "http_get"
	case TypePing:
		return "ping"
	default:
		return "unknown"
	}
}

// ParseServiceType maps the API string form to a ServiceType. Unknown
// strings are rejected, never coerced.
func ParseServiceType(s string) (ServiceType, error) {
	switch s {
	case "home_assistant":
		return TypeHomeAssistant, nil
	case "jellyfin":
		return TypeJellyfin, nil
	case "http_get":
		return TypeHTTPGet, nil
	case "ping":
		return TypePing, nil
	default:
		return 0, fmt.Errorf("unknown service type: %q", s)
	}
}

// Service is the unit of monitoring. Configuration fields are immutable
// after creation and are the only durable fields; runtime state is
// mutated exclusively by the check scheduler and never persisted.
type Service struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Type             ServiceType `json:"type"`
	Host             string      `json:"host"`
	Port             int         `json:"port"`
	Path             string      `json:"path"`
	ExpectedResponse string      `json:"expectedResponse"`
	CheckInterval    int         `json:"checkInterval"` // seconds

	IsUp         bool      `json:"isUp"`
	LastCheckAt  time.Time `json:"lastCheckAt"`
	LastUptimeAt time.Time `json:"lastUptimeAt"`
	LastError    string    `json:"lastError"`
}

// CreateServiceRequest is the POST /api/services body. Zero values for
// the optional fields take the documented defaults.
type CreateServiceRequest struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Path             string `json:"path"`
	ExpectedResponse string `json:"expectedResponse"`
	CheckInterval    int    `json:"checkInterval"`
}

// ServiceView is the API-facing snapshot of a service.
type ServiceView struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Type                  string `json:"type"`
	Host                  string `json:"host"`
	Port                  int    `json:"port"`
	Path                  string `json:"path"`
	ExpectedResponse      string `json:"expectedResponse"`
	CheckInterval         int    `json:"checkInterval"`
	IsUp                  bool   `json:"isUp"`
	SecondsSinceLastCheck int    `json:"secondsSinceLastCheck"`
	LastError             string `json:"lastError"`
}

// NewServiceView derives the presentation record for a service at the
// given instant without touching stored state. A service that has never
// been checked reports -1 for secondsSinceLastCheck.
func NewServiceView(s *Service, now time.Time) ServiceView {
	seconds := -1
	if !s.LastCheckAt.IsZero() {
		seconds = int(now.Sub(s.LastCheckAt).Seconds())
	}

	return ServiceView{
		ID:                    s.ID,
		Name:                  s.Name,
		Type:                  s.Type.String(),
		Host:                  s.Host,
		Port:                  s.Port,
		Path:                  s.Path,
		ExpectedResponse:      s.ExpectedResponse,
		CheckInterval:         s.CheckInterval,
		IsUp:                  s.IsUp,
		SecondsSinceLastCheck: seconds,
		LastError:             s.LastError,
	}
}
