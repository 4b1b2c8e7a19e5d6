package runner

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/1homsi/gosurface/internal/aggregate"
	"github.com/1homsi/gosurface/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphDoc = `
source: bus
projects:
  - key: src/Bus
  - key: test/Bus.Tests
types:
  - id: ISource
    project: src/Bus
    name: ISource
    kind: interface
    visibility: public
    members:
      - {name: Subscribe, kind: method, visibility: public}
  - id: Bus
    project: src/Bus
    name: Bus
    kind: class
    visibility: public
    interfaces: [ISource]
  - id: BusOptions
    project: src/Bus
    name: BusOptions
    kind: class
    visibility: public
  - id: Fixture
    project: test/Bus.Tests
    name: Fixture
    kind: class
    visibility: public
`

func writeGraph(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(graphDoc), 0600))
	return path
}

func TestAnalyzeDispatch(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	g, err := LoadGraph(context.Background(), cfg, writeGraph(t))
	require.NoError(t, err)

	opts := aggregate.Options{Prefix: "src"}
	tests := []struct {
		preset string
		types  int
	}{
		{"types", 3},
		{"options", 1},
		{"subscriptions", 2},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			res, err := Analyze(g, config.MustLoadPreset(tt.preset), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.types, res.Counters.TypesMatched)
			assert.Equal(t, 1, res.Counters.ProjectsProcessed)
		})
	}

	_, err = Analyze(g, config.Report{Name: "bad", Mode: "nope"}, opts)
	assert.Error(t, err)
}

func TestRenderFormats(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	g, err := LoadGraph(context.Background(), cfg, writeGraph(t))
	require.NoError(t, err)
	rep, err := Build(g, config.MustLoadPreset("subscriptions"), aggregate.Options{})
	require.NoError(t, err)

	var md, js bytes.Buffer
	require.NoError(t, Render(&md, rep, "md"))
	assert.Contains(t, md.String(), "- `Subscribe` (inherited from `ISource`)")
	require.NoError(t, Render(&js, rep, "json"))
	assert.Contains(t, js.String(), `"inherited_from": "ISource"`)
	assert.ErrorContains(t, Render(&md, rep, "html"), "unknown format")
}

func TestWriteFile(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	g, err := LoadGraph(context.Background(), cfg, writeGraph(t))
	require.NoError(t, err)
	rep, err := Build(g, config.MustLoadPreset("types"), aggregate.Options{})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "reports", "types.md")
	var stdout bytes.Buffer
	require.NoError(t, Write(&stdout, rep, "md", out))
	assert.Zero(t, stdout.Len())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# src/Bus")
	assert.NotContains(t, string(data), "# test/Bus.Tests", "single-type buckets are suppressed")

	require.NoError(t, Write(&stdout, rep, "md", "-"))
	assert.Contains(t, stdout.String(), "- Source: bus")
}

func TestOutputPath(t *testing.T) {
	r := config.Report{Name: "types", Output: "public-types.md"}
	assert.Equal(t, "public-types.md", OutputPath("", r, "md"))
	assert.Equal(t, filepath.Join("out", "public-types.json"), OutputPath("out", r, "json"))
	assert.Equal(t, "custom.md", OutputPath("", config.Report{Name: "custom"}, "md"))
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("GOSURFACE_PREFIX", "lib")
	t.Setenv("GOSURFACE_WORKERS", "2")

	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse([]string{"--json", "--prefix", "src", "--env", ""}))

	cfg, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "src", cfg.Prefix, "flag wins over environment")
	assert.Equal(t, 2, cfg.Workers, "unset flag keeps environment value")
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, config.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestSingleReadsConfigFile(t *testing.T) {
	graph := writeGraph(t)
	cfgPath := writeConfig(t, t.TempDir(), "prefix: src\n")

	var out bytes.Buffer
	f := Flags{ConfigFile: cfgPath}
	require.NoError(t, Single(context.Background(), &f, config.MustLoadPreset("types"), graph, &out))
	assert.Contains(t, out.String(), "- Projects: 1\n")
	assert.Contains(t, out.String(), "# src/Bus")

	out.Reset()
	f = Flags{ConfigFile: cfgPath, Prefix: "test"}
	require.NoError(t, Single(context.Background(), &f, config.MustLoadPreset("types"), graph, &out))
	assert.Contains(t, out.String(), "- Projects: 1\n")
	assert.NotContains(t, out.String(), "# src/Bus", "flag wins over the config file")
}

func TestConfigReadsDefaultFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "prefix: src\nworkers: 3\n")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("GOSURFACE_WORKERS", "2")
	f := Flags{}
	cfg, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.Prefix)
	assert.Equal(t, 2, cfg.Workers, "environment wins over the config file")
}
