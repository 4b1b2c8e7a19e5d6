package run

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1homsi/gosurface/internal/logging"
	"github.com/1homsi/gosurface/internal/runner"
)

// Run produces every report of the configuration from a single graph load.
func Run(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var f runner.Flags
	f.Register(fs)
	outDir := fs.String("out-dir", "", "directory for report files")
	fs.Parse(args)

	if err := execute(context.Background(), &f, *outDir, runner.PathArg(fs), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}

func execute(ctx context.Context, f *runner.Flags, outDir, path string, stdout io.Writer) error {
	if f.Out != "" {
		return errors.New("run writes one file per report; use --out-dir instead of --out")
	}
	cfg, err := f.Config()
	if err != nil {
		return err
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}

	g, err := runner.LoadGraph(ctx, cfg, path)
	if err != nil {
		return err
	}

	for _, r := range cfg.Reports {
		rep, err := runner.Build(g, r, cfg.Options())
		if err != nil {
			return err
		}
		out := runner.OutputPath(cfg.OutputDir, r, cfg.Format)
		if err := runner.Write(stdout, rep, cfg.Format, out); err != nil {
			return fmt.Errorf("report %s: %w", r.Name, err)
		}
		fmt.Fprintf(stdout, "%s: %d types from %d projects -> %s\n",
			r.Name, rep.Summary.TypesMatched, rep.Summary.ProjectsWithMatches, out)
	}
	logging.Infof("Wrote %d reports", len(cfg.Reports))
	return nil
}
