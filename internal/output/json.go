package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// RepoStatus is the per-repository part of a RunReport.
type RepoStatus struct {
	Repo     string `json:"repo"`
	Scanned  int    `json:"scanned"`
	Reported int    `json:"reported"`
	Closed   int    `json:"closed"`
	Error    string `json:"error,omitempty"`
}

// RunReport is the machine-readable record of one sweep.
type RunReport struct {
	Org     string       `json:"org"`
	Started time.Time    `json:"started"`
	DryRun  bool         `json:"dry_run"`
	Closed  int          `json:"closed"`
	Stale   []Row        `json:"stale"`
	Repos   []RepoStatus `json:"repositories"`
	ListErr string       `json:"list_error,omitempty"`
}

// JSONWriter writes a RunReport as JSON.
type JSONWriter struct {
	Pretty bool
}

// Write encodes report to w.
func (f *JSONWriter) Write(report RunReport, w io.Writer) error {
	if report.Stale == nil {
		report.Stale = []Row{}
	}
	if report.Repos == nil {
		report.Repos = []RepoStatus{}
	}
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}

// WriteFile encodes report to path, replacing any existing file.
func (f *JSONWriter) WriteFile(report RunReport, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if err := f.Write(report, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return file.Close()
}
