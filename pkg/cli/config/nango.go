package config

import (
	"github.com/secmon-lab/hermes/pkg/service/nango"
	"github.com/urfave/cli/v3"
)

// Nango configures the connector bridge client. The secret key is the
// one credential this service holds; provider OAuth tokens stay on the
// Nango side. The masq tag keeps the key out of log output when the
// struct is logged.
type Nango struct {
	SecretKey         string `masq:"secret"`
	ProviderConfigKey string
	BaseURL           string
	DefaultChannel    string
}

func (x *Nango) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "nango-secret-key",
			Usage:       "Nango API secret key",
			Category:    "Nango",
			Sources:     cli.EnvVars("HERMES_NANGO_SECRET_KEY"),
			Destination: &x.SecretKey,
		},
		&cli.StringFlag{
			Name:        "nango-provider-config-key",
			Usage:       "Provider configuration key registered on the Nango side",
			Category:    "Nango",
			Value:       "slack",
			Sources:     cli.EnvVars("HERMES_NANGO_PROVIDER_CONFIG_KEY"),
			Destination: &x.ProviderConfigKey,
		},
		&cli.StringFlag{
			Name:        "nango-base-url",
			Usage:       "Nango API base URL (for self-hosted deployments)",
			Category:    "Nango",
			Sources:     cli.EnvVars("HERMES_NANGO_BASE_URL"),
			Destination: &x.BaseURL,
		},
		&cli.StringFlag{
			Name:        "slack-default-channel",
			Usage:       "Channel used when a send request omits one",
			Category:    "Slack",
			Sources:     cli.EnvVars("HERMES_SLACK_DEFAULT_CHANNEL"),
			Destination: &x.DefaultChannel,
		},
	}
}

// Configure builds the Nango client.
func (x *Nango) Configure() (nango.Client, error) {
	var opts []nango.Option
	if x.BaseURL != "" {
		opts = append(opts, nango.WithBaseURL(x.BaseURL))
	}
	return nango.New(x.SecretKey, x.ProviderConfigKey, opts...)
}
