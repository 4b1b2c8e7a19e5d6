// Package config resolves which reports to produce and how.
//
// Values come from four layers, later ones winning: the embedded presets,
// an optional gosurface.yaml file, the environment (optionally seeded from a
// .env file) and finally command-line flags, which the commands apply
// themselves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/1homsi/gosurface/internal/aggregate"
	"github.com/1homsi/gosurface/presets"
)

// DefaultFile is read by Load when no path is given and it exists.
const DefaultFile = "gosurface.yaml"

// Report describes one report run.
type Report struct {
	Name             string         `yaml:"name"`
	Mode             aggregate.Mode `yaml:"mode"`
	Query            string         `yaml:"query,omitempty"`
	IncludeInherited bool           `yaml:"include_inherited,omitempty"`
	MinBucketSize    int            `yaml:"min_bucket_size"`
	Output           string         `yaml:"output,omitempty"`
}

// Config is the resolved configuration for a run.
type Config struct {
	// Source selects the graph provider: auto|go|doc.
	Source string `yaml:"source"`
	// Prefix restricts analysis to project keys starting with it.
	Prefix  string `yaml:"prefix"`
	Workers int    `yaml:"workers"`
	// Format is md or json.
	Format    string   `yaml:"format"`
	OutputDir string   `yaml:"output_dir"`
	Tests     bool     `yaml:"tests"`
	Verbose   bool     `yaml:"verbose"`
	Reports   []Report `yaml:"reports"`
}

// Validate checks r for a usable mode and query.
func (r Report) Validate() error {
	switch r.Mode {
	case aggregate.ModeTypes:
	case aggregate.ModeNamedTypes, aggregate.ModeMembers:
		if r.Query == "" {
			return fmt.Errorf("report %q: mode %s needs a query", r.Name, r.Mode)
		}
	default:
		return fmt.Errorf("report %q: unknown mode %q; choose types|options|members", r.Name, r.Mode)
	}
	return nil
}

// LoadPreset reads presets/<name>.yaml from the embedded FS.
func LoadPreset(name string) (Report, error) {
	data, err := presets.FS.ReadFile(name + ".yaml")
	if err != nil {
		return Report{}, fmt.Errorf("load preset %q: %w", name, err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("parse %s.yaml: %w", name, err)
	}
	if r.Name == "" {
		r.Name = name
	}
	if err := r.Validate(); err != nil {
		return Report{}, err
	}
	return r, nil
}

// MustLoadPreset is like LoadPreset but panics on error.
// Safe for the built-in names since the YAML is embedded at compile time.
func MustLoadPreset(name string) Report {
	r, err := LoadPreset(name)
	if err != nil {
		panic(fmt.Sprintf("gosurface: %v", err))
	}
	return r
}

// PresetNames lists the embedded presets in sorted order.
func PresetNames() []string {
	entries, err := fs.Glob(presets.FS, "*.yaml")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e, ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Default returns the configuration used when no file is present: every
// preset, Markdown output, sequential analysis.
func Default() (*Config, error) {
	cfg := &Config{Source: "auto", Format: "md", Workers: 1}
	for _, name := range PresetNames() {
		r, err := LoadPreset(name)
		if err != nil {
			return nil, err
		}
		cfg.Reports = append(cfg.Reports, r)
	}
	return cfg, nil
}

// Load builds the configuration from the defaults and the YAML file at path.
// An empty path reads DefaultFile when it exists. Reports in the file that
// reference a preset by name only ("- name: types") inherit the preset.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	defaults := cfg.Reports
	cfg.Reports = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Reports) == 0 {
		cfg.Reports = defaults
	}
	for i, r := range cfg.Reports {
		if r.Mode == "" {
			preset, err := LoadPreset(r.Name)
			if err != nil {
				return nil, fmt.Errorf("%s: report %d: %w", path, i, err)
			}
			cfg.Reports[i] = preset
			continue
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from GOSURFACE_* variables. Variables in envFile
// are used when not already set in the process environment; a missing
// envFile is not an error.
func (c *Config) ApplyEnv(envFile string) error {
	fileEnv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileEnv = m
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	if v, ok := lookup("GOSURFACE_SOURCE"); ok {
		c.Source = v
	}
	if v, ok := lookup("GOSURFACE_PREFIX"); ok {
		c.Prefix = v
	}
	if v, ok := lookup("GOSURFACE_FORMAT"); ok {
		c.Format = v
	}
	if v, ok := lookup("GOSURFACE_OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	if v, ok := lookup("GOSURFACE_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GOSURFACE_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v, ok := lookup("GOSURFACE_VERBOSE"); ok {
		c.Verbose = v == "1"
	}
	return nil
}

// Options converts the analysis settings of c.
func (c *Config) Options() aggregate.Options {
	return aggregate.Options{Prefix: c.Prefix, Workers: c.Workers}
}
