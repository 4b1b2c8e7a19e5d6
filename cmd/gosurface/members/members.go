package members

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/1homsi/gosurface/internal/config"
	"github.com/1homsi/gosurface/internal/runner"
)

func Run(args []string) int {
	fs := flag.NewFlagSet("members", flag.ExitOnError)
	var f runner.Flags
	f.Register(fs)
	match := fs.String("match", "", "case-insensitive member name substring (default subscribe)")
	own := fs.Bool("own", false, "only inspect members declared on the type itself")
	minSize := fs.Int("min", -1, "only list projects with more than this many types (default 0)")
	fs.Parse(args)

	r := config.MustLoadPreset("subscriptions")
	if *match != "" {
		r.Name = "members"
		r.Query = *match
	}
	r.IncludeInherited = !*own
	if *minSize >= 0 {
		r.MinBucketSize = *minSize
	}

	if err := runner.Single(context.Background(), &f, r, runner.PathArg(fs), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}
