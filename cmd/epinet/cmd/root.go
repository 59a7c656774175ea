// Package cmd provides the command-line interface of epinet.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree. Flag defaults come from env.
func newRootCommand(env *envDefaults) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "epinet",
		Short: "epinet simulates the spread of an epidemic over a spatial population.",
		Long: `epinet simulates the spread of an epidemic over a spatial ` +
			`population with a discrete event SEIR model. Defaults of every ` +
			`flag can be set with EPINET_ variables, also read from a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return env.err
		},
	}

	rootCmd.AddCommand(newRunCommand(env))
	rootCmd.AddCommand(newTrialsCommand(env))
	rootCmd.AddCommand(newReportCommand())

	return rootCmd
}

// Execute loads the .env file, then runs the command given on the command
// line.
func Execute() error {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		return err
	}

	return newRootCommand(newEnvDefaults()).Execute()
}
