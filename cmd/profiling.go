package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spiffcs/prsweep/internal/log"
)

// profiler captures CPU, heap and execution-trace profiles of a sweep.
// Empty paths disable the corresponding profile.
type profiler struct {
	cpuFile   *os.File
	traceFile *os.File

	cpuProfile string
	memProfile string
	tracePath  string
}

func newProfiler(opts *Options) *profiler {
	return &profiler{
		cpuProfile: opts.CPUProfile,
		memProfile: opts.MemProfile,
		tracePath:  opts.Trace,
	}
}

// start begins CPU profiling and execution tracing if configured.
func (p *profiler) start() error {
	if p.cpuProfile != "" {
		f, err := os.Create(p.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	if p.tracePath != "" {
		f, err := os.Create(p.tracePath)
		if err != nil {
			p.stopCPU()
			return fmt.Errorf("could not create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			p.stopCPU()
			return fmt.Errorf("could not start trace: %w", err)
		}
		p.traceFile = f
	}
	return nil
}

// stop ends all profiling and writes the heap profile if configured.
// Failures are logged; a broken profile never fails the sweep.
func (p *profiler) stop() {
	if p.traceFile != nil {
		trace.Stop()
		closeProfile(p.traceFile, "trace")
		p.traceFile = nil
	}

	p.stopCPU()

	if p.memProfile == "" {
		return
	}
	f, err := os.Create(p.memProfile)
	if err != nil {
		log.Warn("could not create memory profile", "path", p.memProfile, "error", err)
		return
	}
	defer closeProfile(f, "memory")
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Warn("could not write memory profile", "path", p.memProfile, "error", err)
	}
}

func (p *profiler) stopCPU() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		closeProfile(p.cpuFile, "cpu")
		p.cpuFile = nil
	}
}

func closeProfile(f *os.File, kind string) {
	if err := f.Close(); err != nil {
		log.Warn("could not close profile file", "kind", kind, "path", f.Name(), "error", err)
	}
}
