package integration

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// Config is an adapter instance configuration. It is created once at
// initialization and immutable for the adapter's lifetime;
// re-initializing replaces it wholesale.
type Config struct {
	// ConnectionID references a pre-authenticated session managed by the
	// external connector service. Token storage and refresh happen there,
	// never here.
	ConnectionID string `json:"connectionId"`

	// DefaultChannel is an optional provider-specific override used when
	// a send request omits the channel.
	DefaultChannel string `json:"defaultChannel,omitempty"`

	// Options is an open bag for provider-specific settings.
	Options map[string]string `json:"options,omitempty"`
}

// Validate checks the configuration before an adapter accepts it.
func (x *Config) Validate() error {
	if x == nil {
		return goerr.New("integration config is required",
			types.WithCode(types.ErrConfigurationError))
	}
	if x.ConnectionID == "" {
		return goerr.New("connection ID is required",
			types.WithCode(types.ErrConfigurationError))
	}
	return nil
}
