package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hermes/pkg/cli/config"
	"github.com/secmon-lab/hermes/pkg/domain/types"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "integrations.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644)).Required()
	return path
}

func TestIntegrations_Configure(t *testing.T) {
	t.Run("missing path yields an empty set", func(t *testing.T) {
		var cfg config.Integrations
		settings, err := cfg.Configure()
		gt.NoError(t, err)
		gt.A(t, settings).Length(0)
	})

	t.Run("valid file", func(t *testing.T) {
		var cfg config.Integrations
		cfg.SetPath(writeTOML(t, `
[[integration]]
id = "slack"
enabled = false
default_channel = "C_OPS"
`))

		settings, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.A(t, settings).Length(1)
		gt.S(t, settings[0].ID).Equal("slack")
		gt.V(t, settings[0].Enabled).NotNil()
		gt.B(t, *settings[0].Enabled).False()
		gt.S(t, settings[0].DefaultChannel).Equal("C_OPS")
	})

	t.Run("enabled defaults to unset", func(t *testing.T) {
		var cfg config.Integrations
		cfg.SetPath(writeTOML(t, `
[[integration]]
id = "slack"
`))

		settings, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.V(t, settings[0].Enabled).Nil()
	})

	t.Run("duplicate IDs are rejected", func(t *testing.T) {
		var cfg config.Integrations
		cfg.SetPath(writeTOML(t, `
[[integration]]
id = "slack"

[[integration]]
id = "slack"
`))

		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("empty ID is rejected", func(t *testing.T) {
		var cfg config.Integrations
		cfg.SetPath(writeTOML(t, `
[[integration]]
default_channel = "C_OPS"
`))

		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("unreadable path fails", func(t *testing.T) {
		var cfg config.Integrations
		cfg.SetPath(filepath.Join(t.TempDir(), "missing.toml"))

		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}

func TestLookup(t *testing.T) {
	settings := []config.IntegrationSetting{
		{ID: "slack", DefaultChannel: "C_OPS"},
	}

	t.Run("found", func(t *testing.T) {
		s, ok := config.Lookup(settings, types.IntegrationSlack)
		gt.B(t, ok).True()
		gt.S(t, s.DefaultChannel).Equal("C_OPS")
	})

	t.Run("absent", func(t *testing.T) {
		s, ok := config.Lookup(settings, types.IntegrationID("other"))
		gt.B(t, ok).False()
		gt.V(t, s).Nil()
	})
}
