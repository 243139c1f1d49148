package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboarding/cmd/onboarding/handlers"
)

// Tax returns the command that resolves SRI tax codes.
func Tax() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tax [code...]",
		Short: "Resolve SRI tax codes to VAT percentages",
		Long: `Resolve SRI tax codes to VAT percentages.

Without arguments every known code is listed. Unknown codes resolve to 0.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Tax(cmd.OutOrStdout(), args, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
