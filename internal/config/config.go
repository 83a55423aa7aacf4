// Package config holds the shared option structs threaded between the CLI
// layer and the driver API, plus an optional .plsrc.yaml project config
// loader, following the same functional-options idiom used by the interp,
// optimizer and please packages.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// RunOptions configures a single run/interpret invocation.
type RunOptions struct {
	Optimize bool
	Trace    bool
	DumpAST  bool
	Output   io.Writer
}

// RunOption configures a RunOptions.
type RunOption func(*RunOptions)

// WithOptimize toggles the constant-fold/propagate pass before evaluation.
func WithOptimize(enabled bool) RunOption {
	return func(o *RunOptions) { o.Optimize = enabled }
}

// WithTrace toggles the evaluator's call-stack trace sink.
func WithTrace(enabled bool) RunOption {
	return func(o *RunOptions) { o.Trace = enabled }
}

// WithDumpAST toggles printing the parsed (and possibly optimized) AST
// before evaluation.
func WithDumpAST(enabled bool) RunOption {
	return func(o *RunOptions) { o.DumpAST = enabled }
}

// WithOutput overrides the evaluator's stdout sink (defaults to os.Stdout).
func WithOutput(w io.Writer) RunOption {
	return func(o *RunOptions) { o.Output = w }
}

// NewRunOptions builds a RunOptions populated from project defaults (if
// any) and overridden by opts, in that order — CLI flags win over a
// .plsrc.yaml project file.
func NewRunOptions(project *Project, opts ...RunOption) RunOptions {
	o := RunOptions{Optimize: true, Output: os.Stdout}
	if project != nil {
		o.Optimize = project.Optimize
		o.Trace = project.Trace
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CompileOptions configures a source → .cpls compilation invocation.
type CompileOptions struct {
	Optimize   bool
	OutputPath string
}

// CompileOption configures a CompileOptions.
type CompileOption func(*CompileOptions)

// WithCompileOptimize toggles running the optimizer before serialization.
func WithCompileOptimize(enabled bool) CompileOption {
	return func(o *CompileOptions) { o.Optimize = enabled }
}

// WithOutputPath overrides the default <input>.cpls output path.
func WithOutputPath(path string) CompileOption {
	return func(o *CompileOptions) { o.OutputPath = path }
}

func NewCompileOptions(project *Project, opts ...CompileOption) CompileOptions {
	o := CompileOptions{Optimize: true}
	if project != nil {
		o.Optimize = project.Optimize
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Project is the shape of an optional .plsrc.yaml project file: default
// optimizer/trace settings picked up by the CLI before flag overrides.
type Project struct {
	Optimize bool `yaml:"optimize"`
	Trace    bool `yaml:"trace"`
}

// LoadProject reads and parses a .plsrc.yaml file at path. A missing file
// is not an error: it returns (nil, nil) so callers fall back to defaults.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	p := &Project{Optimize: true}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return p, nil
}
