package integration

import (
	"time"

	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// HealthChecks holds the individual probe results of a connectivity
// check.
type HealthChecks struct {
	Authentication bool `json:"authentication"`
	APIAccess      bool `json:"apiAccess"`
	Permissions    bool `json:"permissions"`
}

// HealthCheck is the result of TestConnection. Status derivation:
// healthy iff all three checks pass, unhealthy iff authentication
// fails, degraded otherwise.
type HealthCheck struct {
	Status    types.HealthStatus `json:"status"`
	Checks    HealthChecks       `json:"checks"`
	Timestamp time.Time          `json:"timestamp"`
	Details   map[string]string  `json:"details,omitempty"`
}

// NewHealthCheck derives the overall status from the probe results.
func NewHealthCheck(checks HealthChecks) *HealthCheck {
	status := types.HealthDegraded
	switch {
	case !checks.Authentication:
		status = types.HealthUnhealthy
	case checks.APIAccess && checks.Permissions:
		status = types.HealthHealthy
	}

	return &HealthCheck{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	}
}

// WithDetail attaches a diagnostic note and returns the check for
// chaining.
func (h *HealthCheck) WithDetail(key, value string) *HealthCheck {
	if h.Details == nil {
		h.Details = make(map[string]string)
	}
	h.Details[key] = value
	return h
}
