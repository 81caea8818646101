package render

import (
	"fmt"
	"time"
)

// Result tracks what rendering one application produced.
type Result struct {
	App      string        `json:"app" yaml:"app"`
	Files    []string      `json:"files" yaml:"files"`
	Links    []string      `json:"links,omitempty" yaml:"links,omitempty"`
	Skipped  []string      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Size     int64         `json:"size_bytes" yaml:"size_bytes"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Errors   []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
	Success  bool          `json:"success" yaml:"success"`
}

// NewResult creates an empty result for app.
func NewResult(app string) *Result {
	return &Result{
		App:    app,
		Files:  make([]string, 0),
		Errors: make([]string, 0),
	}
}

// AddFile records a written file.
func (r *Result) AddFile(path string, size int64) {
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddLink records a created or verified symlink.
func (r *Result) AddLink(path string) {
	r.Links = append(r.Links, path)
}

// AddSkipped records an artifact that was not written.
func (r *Result) AddSkipped(path string) {
	r.Skipped = append(r.Skipped, path)
}

// AddError records err; nil is ignored.
func (r *Result) AddError(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

// MarkSuccess marks the application as fully rendered.
func (r *Result) MarkSuccess() {
	r.Success = true
}

// Output aggregates the results of one apply run.
type Output struct {
	Results       []*Result     `json:"results" yaml:"results"`
	TotalFiles    int           `json:"total_files" yaml:"total_files"`
	TotalSize     int64         `json:"total_size_bytes" yaml:"total_size_bytes"`
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`
	DryRun        bool          `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// Add appends r and updates the totals.
func (o *Output) Add(r *Result) {
	o.Results = append(o.Results, r)
	o.TotalFiles += len(r.Files)
	o.TotalSize += r.Size
}

// HasErrors reports whether any application failed.
func (o *Output) HasErrors() bool {
	return o.FailureCount() > 0
}

// SuccessCount returns the number of fully rendered applications.
func (o *Output) SuccessCount() int {
	n := 0
	for _, r := range o.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// FailureCount returns the number of applications with errors.
func (o *Output) FailureCount() int {
	return len(o.Results) - o.SuccessCount()
}

// FailedApps returns the shortnames of failed applications.
func (o *Output) FailedApps() []string {
	var out []string
	for _, r := range o.Results {
		if !r.Success {
			out = append(out, r.App)
		}
	}
	return out
}

// ByApp indexes the results by shortname.
func (o *Output) ByApp() map[string]*Result {
	out := make(map[string]*Result, len(o.Results))
	for _, r := range o.Results {
		out[r.App] = r
	}
	return out
}

// Summary returns a one-line description of the run.
func (o *Output) Summary() string {
	verb := "Rendered"
	if o.DryRun {
		verb = "Planned"
	}
	return fmt.Sprintf("%s %d files (%s) in %.1fs. %d/%d applications succeeded.",
		verb, o.TotalFiles, formatBytes(o.TotalSize), o.TotalDuration.Seconds(),
		o.SuccessCount(), len(o.Results))
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
