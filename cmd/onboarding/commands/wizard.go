package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboarding/cmd/onboarding/handlers"
)

// Wizard returns the command that runs the registration wizard in the
// terminal.
func Wizard() *cobra.Command {
	var opts handlers.WizardOptions

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Fill the registration wizard interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Wizard(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "json", "Output format (json, form, pretty)")
	cmd.Flags().StringVar(&opts.PrefillPath, "prefill", "", "YAML file with values to start from")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Log wizard navigation to stderr")

	return cmd
}
