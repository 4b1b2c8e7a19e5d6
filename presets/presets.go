// Package presets embeds the built-in report definitions. Each YAML file
// describes one report; adding a file here makes it available to
// "gosurface run" and to the single-report subcommands by name.
package presets

import "embed"

// FS is an embed.FS containing every *.yaml file in this directory.
//
//go:embed *.yaml
var FS embed.FS
