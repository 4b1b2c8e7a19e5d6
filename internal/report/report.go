package report

import (
	"sort"

	"github.com/1homsi/gosurface/internal/aggregate"
	"github.com/1homsi/gosurface/internal/symgraph"
)

type Report struct {
	Title         string         `json:"title"`
	Source        string         `json:"source"`
	Mode          aggregate.Mode `json:"mode"`
	Query         string         `json:"query,omitempty"`
	MinBucketSize int            `json:"min_bucket_size"`
	Summary       Summary        `json:"summary"`
	Sections      []Section      `json:"sections"`
}

type Summary struct {
	aggregate.Counters
	ProjectsWithMatches int `json:"projects_with_matches"`
}

// Section is one project bucket.
type Section struct {
	Project string      `json:"project"`
	Types   []TypeEntry `json:"types"`
}

type TypeEntry struct {
	Name       string `json:"name"`
	Display    string `json:"display"`
	Visibility string `json:"visibility"`
	// Extensions marks static types declaring public extension methods.
	Extensions bool          `json:"extension_methods,omitempty"`
	Members    []MemberEntry `json:"members,omitempty"`
}

func (e TypeEntry) Public() bool { return e.Visibility == symgraph.Public.String() }

type MemberEntry struct {
	Display string `json:"display"`
	// InheritedFrom names the declaring type when it is not the entry's own.
	InheritedFrom string `json:"inherited_from,omitempty"`
}

// Build turns r into an ordered report. Only buckets holding more than
// minBucketSize types become sections; negative sizes are treated as 0.
// Sections are ordered by project key, types and members by display string.
func Build(r *aggregate.Result, minBucketSize int) Report {
	if minBucketSize < 0 {
		minBucketSize = 0
	}
	rep := Report{
		Title:         title(r.Mode),
		Source:        r.Graph.Source,
		Mode:          r.Mode,
		Query:         r.Query,
		MinBucketSize: minBucketSize,
		Summary:       Summary{Counters: r.Counters},
		Sections:      []Section{},
	}

	for _, key := range r.Keys() {
		b := r.Buckets[key]
		if b.Len() > 0 {
			rep.Summary.ProjectsWithMatches++
		}
		if b.Len() <= minBucketSize {
			continue
		}
		sec := Section{Project: key}
		for _, id := range sortedTypes(r.Graph, b.Types()) {
			sec.Types = append(sec.Types, typeEntry(r, id))
		}
		rep.Sections = append(rep.Sections, sec)
	}
	return rep
}

func title(m aggregate.Mode) string {
	switch m {
	case aggregate.ModeNamedTypes:
		return "Option types"
	case aggregate.ModeMembers:
		return "Public members"
	default:
		return "Public types"
	}
}

func typeEntry(r *aggregate.Result, id symgraph.TypeID) TypeEntry {
	node, _ := r.Graph.Type(id)
	e := TypeEntry{
		Name:       node.Name,
		Display:    node.Display,
		Visibility: node.Visibility.String(),
		Extensions: r.Extensions[id],
	}

	mb, ok := r.Members[id]
	if !ok {
		return e
	}
	pms := mb.Members()
	sort.Slice(pms, func(i, j int) bool {
		a, _ := r.Graph.Member(pms[i].Member)
		b, _ := r.Graph.Member(pms[j].Member)
		if a.Display != b.Display {
			return a.Display < b.Display
		}
		return a.ID < b.ID
	})
	for _, pm := range pms {
		m, _ := r.Graph.Member(pm.Member)
		me := MemberEntry{Display: m.Display}
		if pm.DeclaredBy != id {
			decl, _ := r.Graph.Type(pm.DeclaredBy)
			me.InheritedFrom = decl.Name
		}
		e.Members = append(e.Members, me)
	}
	return e
}

func sortedTypes(g *symgraph.Graph, ids []symgraph.TypeID) []symgraph.TypeID {
	out := append([]symgraph.TypeID(nil), ids...)
	sort.Slice(out, func(i, j int) bool {
		a, _ := g.Type(out[i])
		b, _ := g.Type(out[j])
		if a.Display != b.Display {
			return a.Display < b.Display
		}
		return out[i] < out[j]
	})
	return out
}
