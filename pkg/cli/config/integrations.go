package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/hermes/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// IntegrationSetting is one [[integration]] entry of the integrations
// TOML file.
type IntegrationSetting struct {
	ID             string `toml:"id"`
	Enabled        *bool  `toml:"enabled"`
	DefaultChannel string `toml:"default_channel"`
}

// Validate checks if the integration setting is valid.
func (x *IntegrationSetting) Validate() error {
	if err := types.IntegrationID(x.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid integration setting")
	}
	return nil
}

type integrationsFile struct {
	Integrations []IntegrationSetting `toml:"integration"`
}

// Integrations configures per-integration defaults from an optional
// TOML file.
type Integrations struct {
	path string
}

func (x *Integrations) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "integrations-config",
			Usage:       "Path to the integrations TOML file",
			Category:    "Integrations",
			Sources:     cli.EnvVars("HERMES_INTEGRATIONS_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the integration settings. A missing path yields an
// empty set.
func (x *Integrations) Configure() ([]IntegrationSetting, error) {
	if x.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read integrations config", goerr.V("path", x.path))
	}

	var file integrationsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse integrations config", goerr.V("path", x.path))
	}

	seen := make(map[string]bool)
	for i := range file.Integrations {
		s := &file.Integrations[i]
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.ID] {
			return nil, goerr.New("duplicate integration ID in config",
				goerr.V("id", s.ID), goerr.V("path", x.path))
		}
		seen[s.ID] = true
	}

	return file.Integrations, nil
}

// Lookup returns the setting for an integration ID if present.
func Lookup(settings []IntegrationSetting, id types.IntegrationID) (*IntegrationSetting, bool) {
	for i := range settings {
		if settings[i].ID == id.String() {
			return &settings[i], true
		}
	}
	return nil, false
}
