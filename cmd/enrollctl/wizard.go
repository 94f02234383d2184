package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-enrollment-api/internal/client"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
	"github.com/noah-isme/academy-enrollment-api/internal/wizard"
)

func newWizardCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Run the five-step enrollment wizard against a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			fees, err := pricing.FromConfig(cfg.Fees)
			if err != nil {
				return err
			}
			if server == "" {
				server = fmt.Sprintf("http://localhost:%d", cfg.Port)
			}
			baseURL := strings.TrimRight(server, "/") + "/" + strings.Trim(cfg.APIPrefix, "/")

			api := client.New(baseURL, nil)
			machine := wizard.NewMachine(api, fees, log.WithOptions(zap.IncreaseLevel(zap.ErrorLevel)))
			runner := wizard.NewTerminalRunner(machine, api, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Fees.ProgramName, cfg.Mail.SupportAddress)

			fmt.Fprintf(cmd.OutOrStdout(), "Enrolling in %s\n", cfg.Fees.ProgramName)
			return runner.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "server root URL (default http://localhost:$PORT)")
	return cmd
}
