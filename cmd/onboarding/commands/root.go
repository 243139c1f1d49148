// Package commands defines the CLI command structure and flag bindings.
// Command execution is delegated to the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the onboarding CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "onboarding",
		Short:         "Company registration wizard and listing server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Serve())
	cmd.AddCommand(Wizard())
	cmd.AddCommand(Tax())
	cmd.AddCommand(Version())

	return cmd
}
