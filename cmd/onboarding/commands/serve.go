package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboarding/cmd/onboarding/handlers"
)

// Serve returns the command that runs the HTTP server.
func Serve() *cobra.Command {
	var opts handlers.ServeOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registration wizard and the company listing",
		Long: `Serve the onboarding pages over HTTP.

Routes:
  /onboarding/   registration wizard (GET renders, POST navigates or saves)
  /companies/    company listing (GET page, POST action=search)
  /assets/       embedded stylesheet
  /healthz       liveness check
  /metrics       prometheus metrics

Flags override values read from the configuration file.
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Overrides = changedFlags(cmd)
			return handlers.Serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: onboarding.yaml)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address")
	cmd.Flags().StringVar(&opts.SeedFile, "seed", "", "YAML file with companies to preload")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.Development, "dev", false, "Use the development logger")

	return cmd
}

func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	for _, name := range []string{"addr", "seed", "log-level", "dev"} {
		if cmd.Flags().Changed(name) {
			changed[name] = true
		}
	}
	return changed
}
