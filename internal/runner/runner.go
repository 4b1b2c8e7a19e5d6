// Package runner wires providers, analyses and renderers together for the
// gosurface subcommands.
package runner

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/1homsi/gosurface/internal/aggregate"
	"github.com/1homsi/gosurface/internal/analyzer"
	"github.com/1homsi/gosurface/internal/config"
	"github.com/1homsi/gosurface/internal/logging"
	"github.com/1homsi/gosurface/internal/report"
	"github.com/1homsi/gosurface/internal/symgraph"
)

// Flags are the options shared by every report subcommand.
type Flags struct {
	JSON    bool
	Source  string
	Prefix  string
	Workers int
	Out     string
	Tests   bool
	Verbose bool
	EnvFile string
	// ConfigFile is the YAML config; empty reads gosurface.yaml when present.
	ConfigFile string
}

// Register adds the shared flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.BoolVar(&f.JSON, "json", false, "JSON output")
	fs.StringVar(&f.Source, "source", "", "graph source: auto|go|doc")
	fs.StringVar(&f.Prefix, "prefix", "", "only analyse projects whose path starts with this prefix")
	fs.IntVar(&f.Workers, "workers", 0, "analyse projects concurrently with this many workers")
	fs.StringVar(&f.Out, "out", "", "write the report to this file instead of stdout")
	fs.BoolVar(&f.Tests, "tests", false, "include test packages (go source only)")
	fs.BoolVar(&f.Verbose, "verbose", false, "print progress to stderr")
	fs.StringVar(&f.EnvFile, "env", ".env", "read GOSURFACE_* settings from this file")
	fs.StringVar(&f.ConfigFile, "config", "", "config file (default gosurface.yaml when present)")
}

// Config layers the config file, the environment and f on top of the
// presets. Flags left at their zero value keep the setting below them.
func (f *Flags) Config() (*config.Config, error) {
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(f.EnvFile); err != nil {
		return nil, err
	}
	f.Apply(cfg)
	return cfg, nil
}

// Apply overrides cfg with every flag that was set.
func (f *Flags) Apply(cfg *config.Config) {
	if f.JSON {
		cfg.Format = "json"
	}
	if f.Source != "" {
		cfg.Source = f.Source
	}
	if f.Prefix != "" {
		cfg.Prefix = f.Prefix
	}
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	if f.Tests {
		cfg.Tests = true
	}
	if f.Verbose {
		cfg.Verbose = true
	}
	logging.SetVerbose(cfg.Verbose)
}

// LoadGraph builds the symbol graph for path with the provider cfg selects.
func LoadGraph(ctx context.Context, cfg *config.Config, path string) (*symgraph.Graph, error) {
	p, err := analyzer.ForSource(cfg.Source, path)
	if err != nil {
		return nil, err
	}
	if gp, ok := p.(*analyzer.GoProvider); ok {
		gp.Config.Tests = cfg.Tests
	}
	logging.Infof("Loading %s source: %s", p.Name(), path)
	g, err := p.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	return g, nil
}

// Analyze runs the analysis r describes.
func Analyze(g *symgraph.Graph, r config.Report, opts aggregate.Options) (*aggregate.Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	switch r.Mode {
	case aggregate.ModeNamedTypes:
		return aggregate.AnalyzeNamedTypes(g, r.Query, opts), nil
	case aggregate.ModeMembers:
		return aggregate.AnalyzeMatchingMembers(g, r.Query, r.IncludeInherited, opts), nil
	default:
		return aggregate.AnalyzeTypes(g, opts), nil
	}
}

// Build analyses g and builds the report model for r.
func Build(g *symgraph.Graph, r config.Report, opts aggregate.Options) (report.Report, error) {
	res, err := Analyze(g, r, opts)
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(res, r.MinBucketSize), nil
}

// Render writes rep in format (md or json) to w.
func Render(w io.Writer, rep report.Report, format string) error {
	switch format {
	case "json":
		return report.WriteJSON(w, rep)
	case "md", "":
		return report.WriteMarkdown(w, rep)
	default:
		return fmt.Errorf("unknown format %q; choose md|json", format)
	}
}

// Write renders rep to path, or to stdout when path is "" or "-".
func Write(stdout io.Writer, rep report.Report, format, path string) error {
	if path == "" || path == "-" {
		return Render(stdout, rep, format)
	}
	logging.Infof("Writing %d types from %d projects to file %s",
		rep.Summary.TypesMatched, rep.Summary.ProjectsWithMatches, path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Render(f, rep, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OutputPath places a report file under dir, swapping the extension for
// JSON output.
func OutputPath(dir string, r config.Report, format string) string {
	name := r.Output
	if name == "" {
		name = r.Name + ".md"
	}
	if format == "json" {
		name = name[:len(name)-len(filepath.Ext(name))] + ".json"
	}
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// PathArg returns the first positional argument of fs, or the working
// directory.
func PathArg(fs *flag.FlagSet) string {
	if fs.NArg() > 0 {
		return fs.Arg(0)
	}
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return "."
}

// Single loads path and produces the one report r, honouring f.
func Single(ctx context.Context, f *Flags, r config.Report, path string, stdout io.Writer) error {
	cfg, err := f.Config()
	if err != nil {
		return err
	}
	g, err := LoadGraph(ctx, cfg, path)
	if err != nil {
		return err
	}
	rep, err := Build(g, r, cfg.Options())
	if err != nil {
		return err
	}
	if err := Write(stdout, rep, cfg.Format, f.Out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
