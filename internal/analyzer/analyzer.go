package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/1homsi/gosurface/internal/loader"
	"github.com/1homsi/gosurface/internal/symgraph"
)

// Provider produces the symbol graph for a path.
type Provider interface {
	Name() string
	Load(ctx context.Context, path string) (*symgraph.Graph, error)
}

// ForSource returns a Provider for the given source specifier.
// source may be "auto", "go" or "doc".
// "auto" picks "doc" for *.yaml / *.yml files and "go" otherwise.
func ForSource(source, path string) (Provider, error) {
	if source == "auto" {
		source = detect(path)
	}
	switch source {
	case "go":
		return &GoProvider{}, nil
	case "doc":
		return &DocumentProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown source %q; choose auto|go|doc", source)
	}
}

func detect(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if fileExists(path) {
			return "doc"
		}
	}
	return "go"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GoProvider loads a Go module directory.
type GoProvider struct {
	Config loader.Config
}

func (p *GoProvider) Name() string { return "go" }

func (p *GoProvider) Load(ctx context.Context, path string) (*symgraph.Graph, error) {
	return loader.Load(ctx, path, p.Config)
}

// DocumentProvider reads a YAML symbol-graph document.
type DocumentProvider struct{}

func (p *DocumentProvider) Name() string { return "doc" }

func (p *DocumentProvider) Load(ctx context.Context, path string) (*symgraph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return symgraph.LoadFile(path)
}
