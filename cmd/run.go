package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spiffcs/prsweep/config"
	"github.com/spiffcs/prsweep/internal/ghclient"
	"github.com/spiffcs/prsweep/internal/log"
	"github.com/spiffcs/prsweep/internal/metrics"
	"github.com/spiffcs/prsweep/internal/notify"
	"github.com/spiffcs/prsweep/internal/output"
	"github.com/spiffcs/prsweep/internal/sweep"
)

var _ sweep.Source = (*ghclient.Client)(nil)

// NewCmdRun creates the run command.
func NewCmdRun(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one sweep over the organization (same as root prsweep)",
		Long: `Lists every repository of ORG_NAME and its open pull requests, prints
the stale ones as a markdown table, closes the ones past DAYS_CLOSE and
prints the number of closed pull requests.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, opts)
		},
	}

	addRunFlags(cmd, opts)
	return cmd
}

// addRunFlags adds the run-specific flags to a command.
func addRunFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print planned comments, closures and webhook payloads without sending them")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "text", "Log format (text, json)")
	cmd.Flags().StringVar(&opts.JSONReport, "json-report", "", "Also write the run report as JSON to this file")

	// Progress flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newProgressFlag(opts), "progress", "Enable/disable per-repository progress lines (default: auto-detect)")

	// Profiling flags
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
}

func runSweep(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if err := setupLogging(opts, errOut); err != nil {
		return err
	}

	prof := newProfiler(opts)
	if err := prof.start(); err != nil {
		return err
	}
	defer prof.stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := ghclient.NewClient(ctx, cfg.Token, clientOptions(cfg)...)
	if err != nil {
		return err
	}

	var teamsOpts []notify.Option
	var sweepOpts []sweep.Option
	if opts.DryRun {
		teamsOpts = append(teamsOpts, notify.WithDryRun(out))
		sweepOpts = append(sweepOpts, sweep.WithDryRun(out))
		fmt.Fprintln(errOut, color.CyanString("[DRY RUN] no pull request will be commented on or closed"))
	}
	teams := notify.NewTeams(cfg.WebhookURL, cfg.Timeout, teamsOpts...)
	if !teams.Enabled() {
		log.Info("no webhook configured, notifications disabled")
	}

	rec := metrics.NewRecorder()
	sweepOpts = append(sweepOpts, sweep.WithRecorder(rec))
	sweeper := sweep.New(cfg, client, teams, sweepOpts...)

	log.Info("starting sweep",
		"org", cfg.Org,
		"days_stale", cfg.DaysStale,
		"days_close", cfg.DaysClose,
		"dry_run", opts.DryRun)

	start := time.Now()
	sum, runErr := sweeper.Run(ctx)
	if err := sweeper.Finish(ctx, out, sum); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	printFailures(errOut, sum)

	if opts.JSONReport != "" {
		w := &output.JSONWriter{Pretty: true}
		if err := w.WriteFile(sum.Report(cfg.Org, opts.DryRun), opts.JSONReport); err != nil {
			log.Warn("failed to write JSON report", "error", err)
		}
	}

	if remaining, limit, resetAt := client.RateLimitState().Status(); limit > 0 {
		log.Debug("rate limit after sweep", "remaining", remaining, "limit", limit, "resets_at", resetAt.Format(time.RFC3339))
	}

	rec.RunFinished(time.Now(), time.Since(start))
	if cfg.PushURL != "" {
		if err := rec.Push(ctx, cfg.PushURL, cfg.Org, &http.Client{Timeout: cfg.Timeout}); err != nil {
			log.Warn("failed to push metrics", "url", cfg.PushURL, "error", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("sweep of %s aborted: %w", cfg.Org, runErr)
	}
	return nil
}

// setupLogging initializes the logger on w and decides on progress lines.
func setupLogging(opts *Options, w io.Writer) error {
	var format log.Format
	switch opts.LogFormat {
	case "", "text":
		format = log.FormatText
	case "json":
		format = log.FormatJSON
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", opts.LogFormat)
	}
	log.Initialize(opts.Verbosity, w, format)
	log.EnableProgress(shouldShowProgress(opts, os.LookupEnv, stderrFd()))
	return nil
}

func clientOptions(cfg *config.Config) []ghclient.Option {
	opts := []ghclient.Option{ghclient.WithTimeout(cfg.Timeout)}
	if cfg.APIURL != "" {
		opts = append(opts, ghclient.WithBaseURL(cfg.APIURL))
	}
	return opts
}

func printFailures(w io.Writer, sum *sweep.Summary) {
	failed := sum.Failed()
	if failed == 0 {
		return
	}
	fmt.Fprintln(w, color.YellowString("%d of %d repositories could not be processed:", failed, len(sum.Repos)))
	for _, r := range sum.Repos {
		if !r.OK() {
			fmt.Fprintf(w, "  %s %s: %v\n", color.RedString("✗"), r.Repo, r.Err)
		}
	}
}
