package main

import (
	"fmt"
	"os"

	"github.com/1homsi/gosurface/cmd/gosurface/dump"
	"github.com/1homsi/gosurface/cmd/gosurface/members"
	"github.com/1homsi/gosurface/cmd/gosurface/options"
	"github.com/1homsi/gosurface/cmd/gosurface/run"
	"github.com/1homsi/gosurface/cmd/gosurface/types"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "types":
		os.Exit(types.Run(os.Args[2:]))
	case "options":
		os.Exit(options.Run(os.Args[2:]))
	case "members":
		os.Exit(members.Run(os.Args[2:]))
	case "run":
		os.Exit(run.Run(os.Args[2:]))
	case "dump":
		os.Exit(dump.Run(os.Args[2:]))
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `gosurface: public API surface reports

Usage:
  gosurface types   [--json] [--prefix p] [--min n] [--out file] [path]
  gosurface options [--json] [--prefix p] [--suffix Options] [--min n] [--out file] [path]
  gosurface members [--json] [--prefix p] [--match subscribe] [--own] [--min n] [--out file] [path]
  gosurface run     [--json] [--prefix p] [--out-dir dir] [path]
  gosurface dump    [--source auto|go|doc] [path]
  gosurface version

path is a Go module directory (default ".") or a YAML symbol-graph document.
Shared flags: --source auto|go|doc, --workers n, --tests, --verbose, --env file,
--config gosurface.yaml. run writes to --out-dir and rejects --out.`)
}
