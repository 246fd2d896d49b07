package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ciEnvVars mark environments where carriage-return progress lines only
// clutter the job log.
var ciEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"JENKINS_URL",
	"GITLAB_CI",
	"BUILDKITE",
}

// progressFlag implements pflag.Value for the tri-state --progress flag.
type progressFlag struct {
	opts *Options
}

func newProgressFlag(opts *Options) *progressFlag {
	return &progressFlag{opts: opts}
}

func (f *progressFlag) String() string {
	if f.opts.Progress == nil {
		return "auto"
	}
	if *f.opts.Progress {
		return "true"
	}
	return "false"
}

func (f *progressFlag) Set(s string) error {
	switch s {
	case "true", "1", "yes":
		v := true
		f.opts.Progress = &v
	case "false", "0", "no":
		v := false
		f.opts.Progress = &v
	case "auto":
		f.opts.Progress = nil
	default:
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	return nil
}

func (f *progressFlag) Type() string {
	return "bool"
}

func (f *progressFlag) IsBoolFlag() bool {
	return true
}

// shouldShowProgress decides whether per-repository progress lines are drawn.
// They need -v to be visible at all.
func shouldShowProgress(opts *Options, lookup func(string) (string, bool), fd int) bool {
	if opts.LogFormat == "json" {
		return false
	}
	if opts.Progress != nil {
		return *opts.Progress
	}
	for _, v := range ciEnvVars {
		if _, ok := lookup(v); ok {
			return false
		}
	}
	return term.IsTerminal(fd)
}

func stderrFd() int {
	return int(os.Stderr.Fd())
}
