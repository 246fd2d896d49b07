package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spiffcs/prsweep/config"
	"github.com/spiffcs/prsweep/internal/constants"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long: `Show configuration.

prsweep is configured entirely through environment variables. When run
without arguments, shows the configuration resolved from the current
environment. The GitHub token is never printed.

Subcommands:
  show      Show the resolved config (same as bare 'prsweep config')
  env       List the recognized environment variables and their defaults`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout(), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	cmd.AddCommand(NewCmdConfigShow())
	cmd.AddCommand(NewCmdConfigEnv())

	return cmd
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Long:  `Show the configuration after applying defaults to the current environment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout(), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

// NewCmdConfigEnv creates the config env subcommand.
func NewCmdConfigEnv() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List recognized environment variables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigEnv(cmd.OutOrStdout())
		},
	}
}

func runConfigShow(w io.Writer, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var rendered string
	switch format {
	case "yaml":
		rendered, err = cfg.ToYAML()
	case "json":
		rendered, err = cfg.ToJSON()
		rendered += "\n"
	default:
		return fmt.Errorf("invalid format: %s (must be yaml or json)", format)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

type envVar struct {
	name        string
	def         string
	description string
}

var envVars = []envVar{
	{config.EnvGitHubToken, "(required)", "GitHub token with repo scope"},
	{config.EnvOrgName, "(required)", "Organization to sweep"},
	{config.EnvDaysStale, fmt.Sprint(constants.DefaultDaysStale), "Report pull requests at least this many days old"},
	{config.EnvDaysClose, fmt.Sprint(constants.DefaultDaysClose), "Close pull requests more than this many days old"},
	{config.EnvWebhookURL, "", "Teams incoming webhook; notifications are off when empty"},
	{config.EnvAdmin, constants.DefaultAdmin, "Login mentioned on every stale pull request"},
	{config.EnvGitHubAPIURL, "", "GitHub Enterprise Server base URL"},
	{config.EnvPushgatewayURL, "", "Prometheus Pushgateway for run metrics"},
	{config.EnvHTTPTimeout, constants.DefaultHTTPTimeout.String(), "Timeout for each HTTP request"},
}

func runConfigEnv(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIABLE\tDEFAULT\tDESCRIPTION")
	for _, v := range envVars {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.name, v.def, v.description)
	}
	return tw.Flush()
}
