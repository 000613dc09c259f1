package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hermes/pkg/cli/config"
	"github.com/secmon-lab/hermes/pkg/domain/model/integration"
	"github.com/secmon-lab/hermes/pkg/domain/types"
	"github.com/secmon-lab/hermes/pkg/integration/slackchat"
	"github.com/secmon-lab/hermes/pkg/utils/retry"
	"github.com/urfave/cli/v3"
)

func cmdDoctor() *cli.Command {
	var (
		connectionID string
		nangoCfg     config.Nango
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "connection-id",
			Usage:       "Nango connection ID to probe",
			Category:    "Doctor",
			Required:    true,
			Sources:     cli.EnvVars("HERMES_CONNECTION_ID"),
			Destination: &connectionID,
		},
	}
	flags = append(flags, nangoCfg.Flags()...)

	return &cli.Command{
		Name:  "doctor",
		Usage: "Probe Slack connectivity for a connection and report health",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := nangoCfg.Configure()
			if err != nil {
				return err
			}

			adapter, err := slackchat.New(client)
			if err != nil {
				return err
			}

			cfg := &integration.Config{
				ConnectionID:   connectionID,
				DefaultChannel: nangoCfg.DefaultChannel,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// Initialize already probes once, but transient network
			// hiccups should not fail a diagnostic run. Probe through
			// the retry helper and report whatever comes back.
			initErr := adapter.Initialize(ctx, cfg)
			if initErr != nil && types.CodeOf(initErr).Category() == types.CategoryConfiguration {
				return initErr
			}

			hc, err := retry.Do(ctx, retry.DefaultPolicy(), adapter.TestConnection)
			if err != nil {
				return goerr.Wrap(err, "connectivity probe failed")
			}

			printHealthReport(hc)

			if hc.Status != types.HealthHealthy {
				return goerr.New("slack connection is not healthy",
					goerr.V("status", hc.Status))
			}
			return nil
		},
	}
}

func printHealthReport(hc *integration.HealthCheck) {
	bold := color.New(color.Bold)
	_, _ = bold.Println("Slack connectivity report")
	fmt.Println()

	printCheck("Authentication", hc.Checks.Authentication, hc.Details["authentication"])
	printCheck("API access", hc.Checks.APIAccess, hc.Details["apiAccess"])
	printCheck("Permissions", hc.Checks.Permissions, hc.Details["permissions"])
	fmt.Println()

	statusColor := color.New(color.FgRed, color.Bold)
	switch hc.Status {
	case types.HealthHealthy:
		statusColor = color.New(color.FgGreen, color.Bold)
	case types.HealthDegraded:
		statusColor = color.New(color.FgYellow, color.Bold)
	}
	fmt.Printf("Status: %s\n", statusColor.Sprint(hc.Status.String()))
}

func printCheck(name string, ok bool, detail string) {
	mark := color.New(color.FgRed).Sprint("✗")
	if ok {
		mark = color.New(color.FgGreen).Sprint("✓")
	}
	fmt.Fprintf(os.Stdout, "  %s %s", mark, name)
	if detail != "" {
		fmt.Fprintf(os.Stdout, " (%s)", detail)
	}
	fmt.Fprintln(os.Stdout)
}
