// Package symgraph holds the declared-type graph analysed by gosurface.
//
// Types and members live in an arena and are addressed by integer IDs, so
// identity never depends on how a symbol renders. Providers (the Go loader,
// the YAML document codec) build a Graph once per run; everything downstream
// only reads it.
package symgraph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnresolved is returned when an ID does not name a node in the graph.
var ErrUnresolved = errors.New("node unresolved")

// TypeID identifies a TypeNode within one Graph.
type TypeID int

// MemberID identifies a MemberNode within one Graph.
type MemberID int

const (
	// NoType marks an absent base type.
	NoType TypeID = -1
	// Dangling marks a reference whose target could not be resolved by the
	// provider. Lookups on it fail with ErrUnresolved.
	Dangling TypeID = -2
)

type Visibility int

const (
	Private Visibility = iota
	Protected
	Internal
	Public
)

var visibilityNames = [...]string{"Private", "Protected", "Internal", "Public"}

func (v Visibility) String() string {
	if v < 0 || int(v) >= len(visibilityNames) {
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
	return visibilityNames[v]
}

// ParseVisibility accepts the lower- or title-case visibility names.
func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "public", "Public", "exported":
		return Public, nil
	case "internal", "Internal":
		return Internal, nil
	case "protected", "Protected":
		return Protected, nil
	case "private", "Private", "", "unexported":
		return Private, nil
	}
	return Private, fmt.Errorf("unknown visibility %q", s)
}

type Kind string

const (
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindClass     Kind = "class"
	KindRecord    Kind = "record"
	KindAlias     Kind = "alias"
	KindOther     Kind = "other"
)

type MemberKind string

const (
	MemberField    MemberKind = "field"
	MemberMethod   MemberKind = "method"
	MemberProperty MemberKind = "property"
	MemberEvent    MemberKind = "event"
	MemberOther    MemberKind = "other"
)

// TypeNode is one declared type.
type TypeNode struct {
	ID         TypeID
	Project    string // "" for types outside every analysed project
	Name       string
	Display    string
	Kind       Kind
	Visibility Visibility
	Nested     bool
	Static     bool
	Base       TypeID
	Interfaces []TypeID
	Members    []MemberID
}

// MemberNode is a field, method, property or event declared on a TypeNode.
type MemberNode struct {
	ID         MemberID
	Owner      TypeID
	Name       string
	Display    string
	Kind       MemberKind
	Visibility Visibility
	// Extension is set for members that extend a type other than Owner.
	Extension bool
}

// Project is one unit of analysis: a package, an assembly, a crate.
type Project struct {
	Key   string
	Name  string
	Types []TypeID
	// Unresolved counts declarations the provider could not resolve.
	Unresolved int
	// LoadErr is set when the provider failed to produce the project.
	LoadErr error
}

// Graph is the arena of types, members and projects for one run.
type Graph struct {
	Source string

	types    []TypeNode
	members  []MemberNode
	projects map[string]*Project
}

func New(source string) *Graph {
	return &Graph{
		Source:   source,
		projects: make(map[string]*Project),
	}
}

// AddProject returns the project for key, creating it on first use.
func (g *Graph) AddProject(key, name string) *Project {
	if p, ok := g.projects[key]; ok {
		return p
	}
	if name == "" {
		name = key
	}
	p := &Project{Key: key, Name: name}
	g.projects[key] = p
	return p
}

// Project looks up a project by key.
func (g *Graph) Project(key string) (*Project, bool) {
	p, ok := g.projects[key]
	return p, ok
}

// Projects returns every project sorted by key.
func (g *Graph) Projects() []*Project {
	out := make([]*Project, 0, len(g.projects))
	for _, p := range g.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// AddType stores t, assigns its ID and registers it with its project.
// Base, Interfaces and Members on t are ignored; edges are added with
// SetBase/AddInterface and members with AddMember.
func (g *Graph) AddType(t TypeNode) TypeID {
	id := TypeID(len(g.types))
	t.ID = id
	if t.Display == "" {
		t.Display = t.Name
	}
	if t.Kind == "" {
		t.Kind = KindOther
	}
	t.Base = NoType
	t.Interfaces = nil
	t.Members = nil
	g.types = append(g.types, t)
	if t.Project != "" {
		p := g.AddProject(t.Project, "")
		p.Types = append(p.Types, id)
	}
	return id
}

// AddMember declares m on owner and returns its ID.
func (g *Graph) AddMember(owner TypeID, m MemberNode) (MemberID, error) {
	if !g.valid(owner) {
		return 0, fmt.Errorf("add member %q: type %d: %w", m.Name, owner, ErrUnresolved)
	}
	id := MemberID(len(g.members))
	m.ID = id
	m.Owner = owner
	if m.Display == "" {
		m.Display = m.Name
	}
	if m.Kind == "" {
		m.Kind = MemberOther
	}
	g.members = append(g.members, m)
	g.types[owner].Members = append(g.types[owner].Members, id)
	return id, nil
}

// SetBase links id to its base type. base may be Dangling.
func (g *Graph) SetBase(id, base TypeID) error {
	if !g.valid(id) {
		return fmt.Errorf("set base of type %d: %w", id, ErrUnresolved)
	}
	g.types[id].Base = base
	return nil
}

// AddInterface appends iface to the direct interfaces of id. iface may be
// Dangling.
func (g *Graph) AddInterface(id, iface TypeID) error {
	if !g.valid(id) {
		return fmt.Errorf("add interface to type %d: %w", id, ErrUnresolved)
	}
	g.types[id].Interfaces = append(g.types[id].Interfaces, iface)
	return nil
}

func (g *Graph) valid(id TypeID) bool {
	return id >= 0 && int(id) < len(g.types)
}

func (g *Graph) NumTypes() int   { return len(g.types) }
func (g *Graph) NumMembers() int { return len(g.members) }

// Type returns a copy of the node for id.
func (g *Graph) Type(id TypeID) (TypeNode, error) {
	if !g.valid(id) {
		return TypeNode{}, fmt.Errorf("type %d: %w", id, ErrUnresolved)
	}
	return g.types[id], nil
}

// Member returns a copy of the node for id.
func (g *Graph) Member(id MemberID) (MemberNode, error) {
	if id < 0 || int(id) >= len(g.members) {
		return MemberNode{}, fmt.Errorf("member %d: %w", id, ErrUnresolved)
	}
	return g.members[id], nil
}

// Members returns the members declared on id, in declaration order.
func (g *Graph) Members(id TypeID) []MemberID {
	if !g.valid(id) {
		return nil
	}
	return g.types[id].Members
}

// BaseType returns the base type of id. The reference may itself be
// unresolved; callers check it with Type.
func (g *Graph) BaseType(id TypeID) (TypeID, bool) {
	if !g.valid(id) || g.types[id].Base == NoType {
		return NoType, false
	}
	return g.types[id].Base, true
}

// Interfaces returns the directly implemented interfaces of id in declared
// order.
func (g *Graph) Interfaces(id TypeID) []TypeID {
	if !g.valid(id) {
		return nil
	}
	return g.types[id].Interfaces
}

// IsTopLevelPublic reports whether id is public and not nested.
func (g *Graph) IsTopLevelPublic(id TypeID) bool {
	if !g.valid(id) {
		return false
	}
	t := g.types[id]
	return t.Visibility == Public && !t.Nested
}
