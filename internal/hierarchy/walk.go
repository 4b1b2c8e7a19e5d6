// Package hierarchy walks the base-type and interface chain of a type.
//
// The visit order is part of the contract: a node's base type is visited
// before its interfaces, interfaces are visited in declared order, and the
// walk is depth-first. Every reachable node is visited exactly once, so the
// walk terminates on diamonds and on cyclic metadata.
package hierarchy

import (
	"iter"

	"github.com/1homsi/gosurface/internal/symgraph"
)

// Walker walks one Graph. The zero Skipped func ignores unresolved edges.
type Walker struct {
	Graph *symgraph.Graph
	// Skipped is called once for every base or interface reference that does
	// not resolve. The reference is not followed.
	Skipped func(from, ref symgraph.TypeID)
}

// Walk yields every member reachable from root, paired with the node that
// declares it.
func Walk(g *symgraph.Graph, root symgraph.TypeID) iter.Seq2[symgraph.MemberID, symgraph.TypeID] {
	return Walker{Graph: g}.Members(root)
}

// Own yields only the members declared on root.
func Own(g *symgraph.Graph, root symgraph.TypeID) iter.Seq2[symgraph.MemberID, symgraph.TypeID] {
	return func(yield func(symgraph.MemberID, symgraph.TypeID) bool) {
		for _, m := range g.Members(root) {
			if !yield(m, root) {
				return
			}
		}
	}
}

// Members yields (member, declaringNode) pairs for root and all of its
// ancestors in visit order.
func (w Walker) Members(root symgraph.TypeID) iter.Seq2[symgraph.MemberID, symgraph.TypeID] {
	return func(yield func(symgraph.MemberID, symgraph.TypeID) bool) {
		for node := range w.Ancestors(root) {
			for _, m := range w.Graph.Members(node) {
				if !yield(m, node) {
					return
				}
			}
		}
	}
}

// Ancestors yields root followed by every type reachable through base and
// interface edges, each exactly once.
func (w Walker) Ancestors(root symgraph.TypeID) iter.Seq[symgraph.TypeID] {
	return func(yield func(symgraph.TypeID) bool) {
		if _, err := w.Graph.Type(root); err != nil {
			return
		}
		visited := make(map[symgraph.TypeID]bool)
		stack := []symgraph.TypeID{root}

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[cur] {
				continue
			}
			visited[cur] = true

			if !yield(cur) {
				return
			}

			// Pushed in reverse so the base pops first, then the interfaces
			// in declared order.
			ifaces := w.Graph.Interfaces(cur)
			for i := len(ifaces) - 1; i >= 0; i-- {
				stack = w.push(stack, cur, ifaces[i], visited)
			}
			if base, ok := w.Graph.BaseType(cur); ok {
				stack = w.push(stack, cur, base, visited)
			}
		}
	}
}

func (w Walker) push(stack []symgraph.TypeID, from, ref symgraph.TypeID, visited map[symgraph.TypeID]bool) []symgraph.TypeID {
	if _, err := w.Graph.Type(ref); err != nil {
		if w.Skipped != nil {
			w.Skipped(from, ref)
		}
		return stack
	}
	if visited[ref] {
		return stack
	}
	return append(stack, ref)
}
