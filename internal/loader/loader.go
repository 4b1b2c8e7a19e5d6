// Package loader builds a symbol graph from a Go module using
// golang.org/x/tools/go/packages.
//
// Every loaded package is one project keyed by its path relative to the
// module path ("." for the module root package). Struct embedding supplies
// the hierarchy: the first embedded named type is the base, the remaining
// ones are listed as interfaces. Interface embedding lists the embedded
// interfaces. Types referenced from outside the loaded packages are added
// without a project so their members are still reachable.
package loader

import (
	"context"
	"fmt"
	"go/ast"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/1homsi/gosurface/internal/logging"
	"github.com/1homsi/gosurface/internal/symgraph"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedModule

// Config controls what Load reads.
type Config struct {
	// Patterns passed to go/packages; defaults to "./...".
	Patterns []string
	// Tests includes test packages.
	Tests bool
}

// Load type-checks the module rooted at dir and returns its symbol graph.
// Packages that fail to type-check are kept as projects with LoadErr set.
func Load(ctx context.Context, dir string, cfg Config) (*symgraph.Graph, error) {
	modPath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pcfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
		Tests:   cfg.Tests,
	}
	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].ID < pkgs[j].ID })

	b := newBuilder(symgraph.New(modPath))
	var loaded []*packages.Package
	for _, pkg := range pkgs {
		if isTestMain(pkg) {
			continue
		}
		key := projectKey(modPath, pkg.PkgPath)
		if cfg.Tests && pkg.ID != pkg.PkgPath {
			// test variants get their own project
			key += " [test]"
		}
		if _, dup := b.g.Project(key); dup {
			continue
		}
		project := b.g.AddProject(key, pkg.PkgPath)

		if pkg.Types == nil || pkg.TypesInfo == nil {
			project.LoadErr = firstError(pkg)
			continue
		}
		if len(pkg.Errors) > 0 {
			logging.Warnf("%s: %d errors, analysing partial type information", pkg.PkgPath, len(pkg.Errors))
		}
		b.declarePackage(project, pkg)
		loaded = append(loaded, pkg)
	}
	b.drain()

	logging.Debugf("loaded %d packages, %d types, %d members", len(loaded), b.g.NumTypes(), b.g.NumMembers())
	return b.g, nil
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("%s: no module directive", filepath.Join(dir, "go.mod"))
	}
	return path, nil
}

func projectKey(modPath, pkgPath string) string {
	if pkgPath == modPath {
		return "."
	}
	if rest, ok := strings.CutPrefix(pkgPath, modPath+"/"); ok {
		return rest
	}
	return pkgPath
}

// isTestMain reports whether pkg is the main package go test generates for
// a package under test.
func isTestMain(pkg *packages.Package) bool {
	return pkg.Name == "main" && strings.HasSuffix(pkg.PkgPath, ".test")
}

func firstError(pkg *packages.Package) error {
	if len(pkg.Errors) > 0 {
		return pkg.Errors[0]
	}
	return fmt.Errorf("%s: no type information", pkg.PkgPath)
}

// builder assigns arena IDs to type names and fills in members and edges.
// Identity is the qualified name, not the *types.TypeName pointer, so a type
// seen from export data and from source maps to the same node.
type builder struct {
	g       *symgraph.Graph
	ids     map[string]symgraph.TypeID
	pending []pendingType
}

type pendingType struct {
	id symgraph.TypeID
	tn *types.TypeName
}

func newBuilder(g *symgraph.Graph) *builder {
	return &builder{g: g, ids: make(map[string]symgraph.TypeID)}
}

func (b *builder) declarePackage(project *symgraph.Project, pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			spec, ok := n.(*ast.TypeSpec)
			if !ok {
				return true
			}
			tn, ok := pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
			if !ok || tn == nil {
				project.Unresolved++
				return true
			}
			b.declare(tn, project.Key)
			return true
		})
	}
}

// declare returns the node for tn, creating it under project if needed.
func (b *builder) declare(tn *types.TypeName, project string) symgraph.TypeID {
	key := typeKey(tn)
	if id, ok := b.ids[key]; ok {
		return id
	}
	id := b.g.AddType(symgraph.TypeNode{
		Project:    project,
		Name:       tn.Name(),
		Display:    types.TypeString(tn.Type(), nil),
		Kind:       kindOf(tn),
		Visibility: visibility(tn),
		Nested:     isLocal(tn),
	})
	b.ids[key] = id
	b.pending = append(b.pending, pendingType{id: id, tn: tn})
	return id
}

// drain fills members and edges for every declared type, including the
// external ones discovered along the way.
func (b *builder) drain() {
	for len(b.pending) > 0 {
		p := b.pending[0]
		b.pending = b.pending[1:]
		b.populate(p.id, p.tn)
	}
}

func (b *builder) populate(id symgraph.TypeID, tn *types.TypeName) {
	qual := types.RelativeTo(tn.Pkg())

	if tn.IsAlias() {
		if target, ok := namedOf(types.Unalias(tn.Type())); ok {
			b.link(id, target, true)
		}
		return
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return
	}

	switch under := named.Underlying().(type) {
	case *types.Struct:
		hasBase := false
		for i := 0; i < under.NumFields(); i++ {
			f := under.Field(i)
			if f.Embedded() {
				target, ok := namedOf(f.Type())
				switch {
				case ok:
					b.link(id, target, !hasBase)
				case isInvalid(f.Type()):
					b.link(id, nil, !hasBase)
				default:
					// predeclared types such as int carry no hierarchy
					b.addMember(id, f, symgraph.MemberField, qual)
					continue
				}
				hasBase = true
				continue
			}
			b.addMember(id, f, symgraph.MemberField, qual)
		}
	case *types.Interface:
		for i := 0; i < under.NumEmbeddeds(); i++ {
			if target, ok := namedOf(under.EmbeddedType(i)); ok {
				b.link(id, target, false)
			}
		}
		for i := 0; i < under.NumExplicitMethods(); i++ {
			b.addMember(id, under.ExplicitMethod(i), symgraph.MemberMethod, qual)
		}
		return
	}

	for i := 0; i < named.NumMethods(); i++ {
		b.addMember(id, named.Method(i), symgraph.MemberMethod, qual)
	}
}

// link adds an edge from id to target. A nil target is recorded as a
// dangling reference.
func (b *builder) link(id symgraph.TypeID, target *types.TypeName, asBase bool) {
	ref := symgraph.Dangling
	if target != nil {
		ref = b.declare(target, "")
	}
	if asBase {
		_ = b.g.SetBase(id, ref)
		return
	}
	_ = b.g.AddInterface(id, ref)
}

func (b *builder) addMember(owner symgraph.TypeID, obj types.Object, kind symgraph.MemberKind, qual types.Qualifier) {
	_, _ = b.g.AddMember(owner, symgraph.MemberNode{
		Name:       obj.Name(),
		Display:    types.ObjectString(obj, qual),
		Kind:       kind,
		Visibility: visibility(obj),
	})
}

func typeKey(tn *types.TypeName) string {
	if tn.Pkg() == nil {
		return tn.Name()
	}
	if isLocal(tn) {
		return fmt.Sprintf("%s.%s@%d", tn.Pkg().Path(), tn.Name(), tn.Pos())
	}
	return tn.Pkg().Path() + "." + tn.Name()
}

func isLocal(tn *types.TypeName) bool {
	return tn.Pkg() != nil && tn.Parent() != nil && tn.Parent() != tn.Pkg().Scope()
}

// namedOf strips pointers and instantiation and returns the declaring type
// name of t, if it has one.
func namedOf(t types.Type) (*types.TypeName, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	switch t := t.(type) {
	case *types.Named:
		return t.Origin().Obj(), true
	case *types.Alias:
		return t.Obj(), true
	}
	return nil, false
}

// isInvalid reports whether t failed to type-check.
func isInvalid(t types.Type) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Invalid
}

func kindOf(tn *types.TypeName) symgraph.Kind {
	if tn.IsAlias() {
		return symgraph.KindAlias
	}
	switch tn.Type().Underlying().(type) {
	case *types.Struct:
		return symgraph.KindStruct
	case *types.Interface:
		return symgraph.KindInterface
	}
	return symgraph.KindOther
}

func visibility(obj types.Object) symgraph.Visibility {
	if obj.Exported() {
		return symgraph.Public
	}
	return symgraph.Private
}
