package cmd

// Options holds the shared command-line options for the prsweep CLI.
type Options struct {
	DryRun    bool
	Verbosity int
	LogFormat string
	Progress  *bool // nil = auto-detect, true = force, false = disable

	// JSONReport, when set, is where the run report is written as JSON.
	JSONReport string

	// Profiling options
	CPUProfile string // Write CPU profile to file
	MemProfile string // Write memory profile to file
	Trace      string // Write execution trace to file
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		LogFormat: "text",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDryRun reports planned comments, closures and webhook payloads
// without performing them.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithLogFormat sets the log format (text, json).
func WithLogFormat(format string) Option {
	return func(o *Options) {
		o.LogFormat = format
	}
}

// WithProgress controls progress lines (nil = auto-detect, true = force, false = disable).
func WithProgress(progress *bool) Option {
	return func(o *Options) {
		o.Progress = progress
	}
}

// WithJSONReport sets the path of the JSON run report.
func WithJSONReport(path string) Option {
	return func(o *Options) {
		o.JSONReport = path
	}
}

// WithCPUProfile sets the CPU profile output file.
func WithCPUProfile(path string) Option {
	return func(o *Options) {
		o.CPUProfile = path
	}
}

// WithMemProfile sets the memory profile output file.
func WithMemProfile(path string) Option {
	return func(o *Options) {
		o.MemProfile = path
	}
}

// WithTrace sets the execution trace output file.
func WithTrace(path string) Option {
	return func(o *Options) {
		o.Trace = path
	}
}
