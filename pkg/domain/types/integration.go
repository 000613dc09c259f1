package types

import "github.com/m-mizutani/goerr/v2"

// IntegrationID identifies an integration adapter type within the registry.
type IntegrationID string

const (
	// IntegrationSlack is the chat-service adapter backed by the Nango proxy.
	IntegrationSlack IntegrationID = "slack"
)

// Validate checks if the integration ID is usable as a registry key.
func (x IntegrationID) Validate() error {
	if x == "" {
		return goerr.New("integration ID is empty")
	}
	return nil
}

// String returns the string representation of the integration ID.
func (x IntegrationID) String() string {
	return string(x)
}

// IntegrationState tracks the adapter lifecycle. State reflects
// configuration presence, not live health: a Ready adapter stays Ready
// even when a health check reports unhealthy.
type IntegrationState string

const (
	StateUninitialized IntegrationState = "uninitialized"
	StateInitializing  IntegrationState = "initializing"
	StateReady         IntegrationState = "ready"
	StateFailed        IntegrationState = "failed"
)

// String returns the string representation of the state.
func (x IntegrationState) String() string {
	return string(x)
}

// HealthStatus is the overall result of an adapter connectivity check.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// String returns the string representation of the health status.
func (x HealthStatus) String() string {
	return string(x)
}
