package dump

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/1homsi/gosurface/internal/runner"
	"github.com/1homsi/gosurface/internal/symgraph"
)

// Run writes the symbol graph of a module as a YAML document, the format
// the doc source reads back.
func Run(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	var f runner.Flags
	f.Register(fs)
	fs.Parse(args)

	cfg, err := f.Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	g, err := runner.LoadGraph(context.Background(), cfg, runner.PathArg(fs))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	out := os.Stdout
	if f.Out != "" && f.Out != "-" {
		file, err := os.Create(f.Out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		defer file.Close()
		out = file
	}
	if err := symgraph.Encode(out, g); err != nil {
		fmt.Fprintln(os.Stderr, "write output:", err)
		return 2
	}
	return 0
}
