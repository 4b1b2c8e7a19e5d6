package aggregate

import (
	"sort"

	"github.com/1homsi/gosurface/internal/symgraph"
)

// ProvenancedMember is a matched member and the node that declares it.
type ProvenancedMember struct {
	Member     symgraph.MemberID
	DeclaredBy symgraph.TypeID
}

// Bucket is the set of matched types for one project. Entries are never
// removed.
type Bucket struct {
	Key   string
	seen  map[symgraph.TypeID]struct{}
	order []symgraph.TypeID
}

func newBucket(key string) *Bucket {
	return &Bucket{Key: key, seen: make(map[symgraph.TypeID]struct{})}
}

// Add inserts id unless already present and reports whether it was new.
func (b *Bucket) Add(id symgraph.TypeID) bool {
	if _, ok := b.seen[id]; ok {
		return false
	}
	b.seen[id] = struct{}{}
	b.order = append(b.order, id)
	return true
}

func (b *Bucket) Contains(id symgraph.TypeID) bool {
	_, ok := b.seen[id]
	return ok
}

func (b *Bucket) Len() int { return len(b.order) }

// Types returns the entries in insertion order.
func (b *Bucket) Types() []symgraph.TypeID { return b.order }

// MemberBucket maps member identity to its provenance for one matched type.
// The first recorded provenance for a member wins.
type MemberBucket struct {
	byID  map[symgraph.MemberID]ProvenancedMember
	order []symgraph.MemberID
}

func newMemberBucket() *MemberBucket {
	return &MemberBucket{byID: make(map[symgraph.MemberID]ProvenancedMember)}
}

// Add records m unless its member is already present.
func (mb *MemberBucket) Add(m ProvenancedMember) bool {
	if _, ok := mb.byID[m.Member]; ok {
		return false
	}
	mb.byID[m.Member] = m
	mb.order = append(mb.order, m.Member)
	return true
}

func (mb *MemberBucket) Get(id symgraph.MemberID) (ProvenancedMember, bool) {
	m, ok := mb.byID[id]
	return m, ok
}

func (mb *MemberBucket) Len() int { return len(mb.order) }

// Members returns the entries in insertion order.
func (mb *MemberBucket) Members() []ProvenancedMember {
	out := make([]ProvenancedMember, len(mb.order))
	for i, id := range mb.order {
		out[i] = mb.byID[id]
	}
	return out
}

// Counters make every skip decision visible in the report header.
type Counters struct {
	ProjectsProcessed int `json:"projects_processed"`
	ProjectsSkipped   int `json:"projects_skipped"`
	UnresolvedNodes   int `json:"unresolved_nodes"`
	TypesMatched      int `json:"types_matched"`
	MembersMatched    int `json:"members_matched"`
}

func (c *Counters) add(o Counters) {
	c.ProjectsProcessed += o.ProjectsProcessed
	c.ProjectsSkipped += o.ProjectsSkipped
	c.UnresolvedNodes += o.UnresolvedNodes
}

// Result is everything one analysis run produced.
type Result struct {
	Graph *symgraph.Graph
	Mode  Mode
	// Query is the suffix or substring the run matched against.
	Query string

	Buckets    map[string]*Bucket
	Members    map[symgraph.TypeID]*MemberBucket
	Extensions map[symgraph.TypeID]bool
	Counters   Counters
}

func NewResult(g *symgraph.Graph, mode Mode, query string) *Result {
	return &Result{
		Graph:      g,
		Mode:       mode,
		Query:      query,
		Buckets:    make(map[string]*Bucket),
		Members:    make(map[symgraph.TypeID]*MemberBucket),
		Extensions: make(map[symgraph.TypeID]bool),
	}
}

// Bucket returns the bucket for key, creating an empty one on first use.
func (r *Result) Bucket(key string) *Bucket {
	b, ok := r.Buckets[key]
	if !ok {
		b = newBucket(key)
		r.Buckets[key] = b
	}
	return b
}

// Record adds id to the bucket of projectKey.
func (r *Result) Record(projectKey string, id symgraph.TypeID) bool {
	if !r.Bucket(projectKey).Add(id) {
		return false
	}
	r.Counters.TypesMatched++
	return true
}

// RecordMember adds member to the member bucket of id, keeping the first
// declaring node seen for it.
func (r *Result) RecordMember(id symgraph.TypeID, member symgraph.MemberID, declaredBy symgraph.TypeID) bool {
	mb, ok := r.Members[id]
	if !ok {
		mb = newMemberBucket()
		r.Members[id] = mb
	}
	if !mb.Add(ProvenancedMember{Member: member, DeclaredBy: declaredBy}) {
		return false
	}
	r.Counters.MembersMatched++
	return true
}

// Keys returns the bucket keys in sorted order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Buckets))
	for k := range r.Buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// merge folds a fully drained partial result into r.
func (r *Result) merge(o *Result) {
	for _, key := range o.Keys() {
		r.Bucket(key)
		for _, id := range o.Buckets[key].Types() {
			r.Record(key, id)
			if mb, ok := o.Members[id]; ok {
				for _, pm := range mb.Members() {
					r.RecordMember(id, pm.Member, pm.DeclaredBy)
				}
			}
		}
	}
	for id := range o.Extensions {
		r.Extensions[id] = true
	}
	r.Counters.add(o.Counters)
}
