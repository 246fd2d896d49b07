package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "prsweep",
		Short: "Report and close stale pull requests across a GitHub organization",
		Long: `Scans every repository of a GitHub organization, reports open pull
requests older than DAYS_STALE days and closes those older than DAYS_CLOSE
days with an explanatory comment. Closures and the stale report can be
posted to a Microsoft Teams channel through TEAMS_WEBHOOK_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// `prsweep` and `prsweep run` behave identically
	addRunFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdRun(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
