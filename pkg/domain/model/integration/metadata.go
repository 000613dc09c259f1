package integration

import "github.com/secmon-lab/hermes/pkg/domain/types"

// ConfigField describes one configuration field of an adapter.
type ConfigField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// Metadata is the static self-description of an adapter type. It is
// fixed per adapter type, deterministic, and involves no I/O.
type Metadata struct {
	ID           types.IntegrationID `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	Version      string              `json:"version"`
	Operations   []string            `json:"operations"`
	Scopes       []string            `json:"scopes,omitempty"`
	ConfigFields []ConfigField       `json:"configFields,omitempty"`
}
