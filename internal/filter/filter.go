// Package filter holds the pure predicates used to select types and members.
package filter

import (
	"strings"

	"github.com/1homsi/gosurface/internal/symgraph"
)

// TypePredicate reports whether a type is selected.
type TypePredicate func(symgraph.TypeNode) bool

// MemberPredicate reports whether a member is selected.
type MemberPredicate func(symgraph.MemberNode) bool

// IsMatchingTypeName reports whether the declared name ends with suffix.
// The comparison is ordinal and case-sensitive.
func IsMatchingTypeName(t symgraph.TypeNode, suffix string) bool {
	return strings.HasSuffix(t.Name, suffix)
}

// IsMatchingMemberName reports whether the declared name contains substring,
// ignoring case.
func IsMatchingMemberName(m symgraph.MemberNode, substring string) bool {
	return strings.Contains(strings.ToLower(m.Name), strings.ToLower(substring))
}

// IsPublicRoot reports whether t is public and not nested in another type.
func IsPublicRoot(t symgraph.TypeNode) bool {
	return t.Visibility == symgraph.Public && !t.Nested
}

func IsPublicMember(m symgraph.MemberNode) bool {
	return m.Visibility == symgraph.Public
}

// IsClassLike reports whether t is a struct, class or record.
func IsClassLike(t symgraph.TypeNode) bool {
	switch t.Kind {
	case symgraph.KindStruct, symgraph.KindClass, symgraph.KindRecord:
		return true
	}
	return false
}

// HasPublicExtensionMethod reports whether t is static and declares at least
// one public extension method.
func HasPublicExtensionMethod(g *symgraph.Graph, t symgraph.TypeNode) bool {
	if !t.Static {
		return false
	}
	for _, id := range t.Members {
		m, err := g.Member(id)
		if err != nil {
			continue
		}
		if m.Kind == symgraph.MemberMethod && m.Extension && IsPublicMember(m) {
			return true
		}
	}
	return false
}

// TypeNameSuffix adapts IsMatchingTypeName to a TypePredicate.
func TypeNameSuffix(suffix string) TypePredicate {
	return func(t symgraph.TypeNode) bool { return IsMatchingTypeName(t, suffix) }
}

// MemberNameContains adapts IsMatchingMemberName to a MemberPredicate.
func MemberNameContains(substring string) MemberPredicate {
	return func(m symgraph.MemberNode) bool { return IsMatchingMemberName(m, substring) }
}

// AllTypes is true only when every predicate is true. No predicates selects
// everything.
func AllTypes(preds ...TypePredicate) TypePredicate {
	return func(t symgraph.TypeNode) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// AllMembers is the MemberPredicate counterpart of AllTypes.
func AllMembers(preds ...MemberPredicate) MemberPredicate {
	return func(m symgraph.MemberNode) bool {
		for _, p := range preds {
			if !p(m) {
				return false
			}
		}
		return true
	}
}
