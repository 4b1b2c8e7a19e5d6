package hierarchy

import (
	"testing"

	"github.com/1homsi/gosurface/internal/symgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	member string
	from   string
}

func collect(t *testing.T, g *symgraph.Graph, seq func(func(symgraph.MemberID, symgraph.TypeID) bool)) []pair {
	t.Helper()
	var out []pair
	for m, decl := range seq {
		mn, err := g.Member(m)
		require.NoError(t, err)
		tn, err := g.Type(decl)
		require.NoError(t, err)
		out = append(out, pair{mn.Name, tn.Name})
	}
	return out
}

func addType(t *testing.T, g *symgraph.Graph, name string, members ...string) symgraph.TypeID {
	t.Helper()
	id := g.AddType(symgraph.TypeNode{Project: "p", Name: name, Visibility: symgraph.Public})
	for _, m := range members {
		_, err := g.AddMember(id, symgraph.MemberNode{Name: m, Visibility: symgraph.Public})
		require.NoError(t, err)
	}
	return id
}

// diamond builds D : B, C with B : A and C : A.
func diamond(t *testing.T) (*symgraph.Graph, map[string]symgraph.TypeID) {
	g := symgraph.New("diamond")
	ids := map[string]symgraph.TypeID{
		"A": addType(t, g, "A", "Subscribe"),
		"B": addType(t, g, "B", "OnB"),
		"C": addType(t, g, "C", "OnC"),
		"D": addType(t, g, "D", "Own"),
	}
	require.NoError(t, g.AddInterface(ids["B"], ids["A"]))
	require.NoError(t, g.AddInterface(ids["C"], ids["A"]))
	require.NoError(t, g.AddInterface(ids["D"], ids["B"]))
	require.NoError(t, g.AddInterface(ids["D"], ids["C"]))
	return g, ids
}

func TestWalkDiamondVisitsAncestorOnce(t *testing.T) {
	g, ids := diamond(t)

	got := collect(t, g, Walk(g, ids["D"]))
	assert.Equal(t, []pair{
		{"Own", "D"},
		{"OnB", "B"},
		{"Subscribe", "A"},
		{"OnC", "C"},
	}, got)
}

func TestWalkCycleTerminates(t *testing.T) {
	g := symgraph.New("cycle")
	a := addType(t, g, "A", "FromA")
	b := addType(t, g, "B", "FromB")
	require.NoError(t, g.SetBase(a, b))
	require.NoError(t, g.SetBase(b, a))

	var visited []symgraph.TypeID
	for id := range (Walker{Graph: g}).Ancestors(a) {
		visited = append(visited, id)
	}
	assert.Equal(t, []symgraph.TypeID{a, b}, visited)

	got := collect(t, g, Walk(g, a))
	assert.Equal(t, []pair{{"FromA", "A"}, {"FromB", "B"}}, got)
}

func TestWalkSelfReference(t *testing.T) {
	g := symgraph.New("self")
	a := addType(t, g, "A", "M")
	require.NoError(t, g.AddInterface(a, a))
	require.NoError(t, g.SetBase(a, a))

	assert.Equal(t, []pair{{"M", "A"}}, collect(t, g, Walk(g, a)))
}

func TestWalkProvenanceIsDeclaringAncestor(t *testing.T) {
	g := symgraph.New("chain")
	a := addType(t, g, "A", "Subscribe")
	b := addType(t, g, "B")
	d := addType(t, g, "D")
	require.NoError(t, g.SetBase(d, b))
	require.NoError(t, g.SetBase(b, a))

	got := collect(t, g, Walk(g, d))
	require.Len(t, got, 1)
	assert.Equal(t, pair{"Subscribe", "A"}, got[0])
}

func TestWalkBaseBeforeInterfaces(t *testing.T) {
	g := symgraph.New("order")
	base := addType(t, g, "Base", "b")
	baseParent := addType(t, g, "BaseParent", "bp")
	i1 := addType(t, g, "I1", "i1")
	i2 := addType(t, g, "I2", "i2")
	root := addType(t, g, "Root")
	require.NoError(t, g.SetBase(base, baseParent))
	require.NoError(t, g.AddInterface(root, i1))
	require.NoError(t, g.AddInterface(root, i2))
	require.NoError(t, g.SetBase(root, base))

	var names []string
	for id := range (Walker{Graph: g}).Ancestors(root) {
		n, err := g.Type(id)
		require.NoError(t, err)
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Root", "Base", "BaseParent", "I1", "I2"}, names)
}

func TestWalkSkipsUnresolved(t *testing.T) {
	g := symgraph.New("dangling")
	a := addType(t, g, "A", "M")
	require.NoError(t, g.SetBase(a, symgraph.Dangling))
	require.NoError(t, g.AddInterface(a, symgraph.TypeID(99)))

	var skipped []symgraph.TypeID
	w := Walker{Graph: g, Skipped: func(from, ref symgraph.TypeID) {
		assert.Equal(t, a, from)
		skipped = append(skipped, ref)
	}}
	assert.Equal(t, []pair{{"M", "A"}}, collect(t, g, w.Members(a)))
	assert.ElementsMatch(t, []symgraph.TypeID{symgraph.Dangling, 99}, skipped)

	assert.Empty(t, collect(t, g, Walk(g, symgraph.Dangling)), "unresolved root yields nothing")
}

func TestWalkStopsEarly(t *testing.T) {
	g, ids := diamond(t)
	n := 0
	for range Walk(g, ids["D"]) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestOwnIgnoresAncestors(t *testing.T) {
	g, ids := diamond(t)
	assert.Equal(t, []pair{{"Own", "D"}}, collect(t, g, Own(g, ids["D"])))
}
