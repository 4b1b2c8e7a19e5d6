// Package aggregate runs the three report analyses over a symbol graph and
// collects their matches into per-project buckets.
package aggregate

import (
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/1homsi/gosurface/internal/filter"
	"github.com/1homsi/gosurface/internal/hierarchy"
	"github.com/1homsi/gosurface/internal/logging"
	"github.com/1homsi/gosurface/internal/symgraph"
)

type Mode string

const (
	ModeTypes      Mode = "types"
	ModeNamedTypes Mode = "options"
	ModeMembers    Mode = "members"
)

// Options controls which projects are analysed and how.
type Options struct {
	// Prefix restricts analysis to projects whose key starts with it.
	Prefix string
	// Workers > 1 analyses projects concurrently. Each project gets its own
	// partial result; partials are merged in project order once all are done.
	Workers int
}

type projectFunc func(r *Result, p *symgraph.Project)

// AnalyzeTypes records every public top-level type and tags static types
// that declare public extension methods.
func AnalyzeTypes(g *symgraph.Graph, opts Options) *Result {
	return run(g, opts, ModeTypes, "", func(r *Result, p *symgraph.Project) {
		r.Bucket(p.Key)
		for _, id := range p.Types {
			node, err := g.Type(id)
			if err != nil {
				r.Counters.UnresolvedNodes++
				continue
			}
			if !filter.IsPublicRoot(node) {
				continue
			}
			r.Record(p.Key, id)
			if filter.HasPublicExtensionMethod(g, node) {
				r.Extensions[id] = true
			}
		}
	})
}

// AnalyzeNamedTypes records every class-like type whose name ends with
// suffix, whatever its visibility.
func AnalyzeNamedTypes(g *symgraph.Graph, suffix string, opts Options) *Result {
	match := filter.AllTypes(filter.IsClassLike, filter.TypeNameSuffix(suffix))
	return run(g, opts, ModeNamedTypes, suffix, func(r *Result, p *symgraph.Project) {
		r.Bucket(p.Key)
		for _, id := range p.Types {
			node, err := g.Type(id)
			if err != nil {
				r.Counters.UnresolvedNodes++
				continue
			}
			if match(node) {
				r.Record(p.Key, id)
			}
		}
	})
}

// AnalyzeMatchingMembers records every public top-level type exposing a
// public member whose name contains substring. With includeInherited the
// members of base types and interfaces count too, attributed to the node
// that declares them.
func AnalyzeMatchingMembers(g *symgraph.Graph, substring string, includeInherited bool, opts Options) *Result {
	match := filter.AllMembers(filter.IsPublicMember, filter.MemberNameContains(substring))
	return run(g, opts, ModeMembers, substring, func(r *Result, p *symgraph.Project) {
		w := hierarchy.Walker{
			Graph: g,
			Skipped: func(from, ref symgraph.TypeID) {
				logging.Debugf("unresolved ancestor %d of type %d in %s", ref, from, p.Key)
				r.Counters.UnresolvedNodes++
			},
		}
		for _, id := range p.Types {
			if _, err := g.Type(id); err != nil {
				r.Counters.UnresolvedNodes++
				continue
			}
			if !g.IsTopLevelPublic(id) {
				continue
			}
			members := hierarchy.Own(g, id)
			if includeInherited {
				members = w.Members(id)
			}
			for mid, declaredBy := range members {
				m, err := g.Member(mid)
				if err != nil {
					r.Counters.UnresolvedNodes++
					continue
				}
				if !match(m) {
					continue
				}
				r.Record(p.Key, id)
				r.RecordMember(id, mid, declaredBy)
			}
		}
	})
}

func run(g *symgraph.Graph, opts Options, mode Mode, query string, fn projectFunc) *Result {
	var projects []*symgraph.Project
	for _, p := range g.Projects() {
		if strings.HasPrefix(p.Key, opts.Prefix) {
			projects = append(projects, p)
		}
	}

	if opts.Workers <= 1 {
		r := NewResult(g, mode, query)
		for _, p := range projects {
			analyzeProject(r, p, fn)
		}
		return r
	}

	partials := make([]*Result, len(projects))
	var eg errgroup.Group
	eg.SetLimit(opts.Workers)
	for i, p := range projects {
		eg.Go(func() error {
			pr := NewResult(g, mode, query)
			analyzeProject(pr, p, fn)
			partials[i] = pr
			return nil
		})
	}
	// Partials never fail; skip decisions are carried in their counters.
	_ = eg.Wait()

	r := NewResult(g, mode, query)
	for _, pr := range partials {
		r.merge(pr)
	}
	return r
}

func analyzeProject(r *Result, p *symgraph.Project, fn projectFunc) {
	if p.LoadErr != nil {
		logging.Warnf("Failed to load project: %s: %v", p.Key, p.LoadErr)
		r.Counters.ProjectsSkipped++
		return
	}
	logging.Infof("Processing project: %s", p.Key)
	r.Counters.ProjectsProcessed++
	r.Counters.UnresolvedNodes += p.Unresolved
	fn(r, p)
}
