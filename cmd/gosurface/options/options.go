package options

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/1homsi/gosurface/internal/config"
	"github.com/1homsi/gosurface/internal/runner"
)

func Run(args []string) int {
	fs := flag.NewFlagSet("options", flag.ExitOnError)
	var f runner.Flags
	f.Register(fs)
	suffix := fs.String("suffix", "", "type name suffix to match (default Options)")
	minSize := fs.Int("min", -1, "only list projects with more than this many types (default 1)")
	fs.Parse(args)

	r := config.MustLoadPreset("options")
	if *suffix != "" {
		r.Query = *suffix
	}
	if *minSize >= 0 {
		r.MinBucketSize = *minSize
	}

	if err := runner.Single(context.Background(), &f, r, runner.PathArg(fs), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}
