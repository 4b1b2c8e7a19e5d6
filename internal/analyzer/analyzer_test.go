package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(doc, []byte("types: []\n"), 0600))

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"yaml document", doc, "doc"},
		{"missing yaml", filepath.Join(dir, "nope.yml"), "go"},
		{"module dir", dir, "go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detect(tt.path))
		})
	}
}

func TestForSource(t *testing.T) {
	p, err := ForSource("go", ".")
	require.NoError(t, err)
	assert.Equal(t, "go", p.Name())

	p, err = ForSource("doc", "x.yaml")
	require.NoError(t, err)
	assert.Equal(t, "doc", p.Name())

	_, err = ForSource("java", ".")
	assert.ErrorContains(t, err, "unknown source")
}

func TestDocumentProviderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
projects:
  - key: src/a
types:
  - id: A
    project: src/a
    name: A
    visibility: public
`), 0600))

	p, err := ForSource("auto", path)
	require.NoError(t, err)
	g, err := p.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumTypes())
	assert.Equal(t, path, g.Source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
