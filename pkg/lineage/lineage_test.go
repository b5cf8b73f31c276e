package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("orders", "")
	assert.Equal(t, "orders", n.Name)
	assert.Equal(t, DefaultAssetType, n.AssetType)
	assert.NotEmpty(t, n.ID())
	assert.False(t, n.IsReference())
}

func TestNodeIdentityIsNotName(t *testing.T) {
	a := NewNode("orders", "Table")
	b := NewNode("orders", "Table")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNodeFromID(t *testing.T) {
	n := NodeFromID("8e3f2a44-1111-2222-3333-444455556666", "legacy")
	assert.True(t, n.IsReference())
	assert.Equal(t, "legacy", n.Name)
}

func TestNodeHelpers(t *testing.T) {
	assert.Equal(t, "wh.sales.orders", Table("orders", "sales", "wh").Name)
	assert.Equal(t, "orders", Table("orders", "", "").Name)
	assert.Equal(t, "orders.total", Column("total", "orders").Name)
	assert.Equal(t, "Data Pipeline", Pipeline("etl").AssetType)
	assert.Equal(t, "Report", Report("weekly").AssetType)
	assert.Equal(t, "Dashboard", Dashboard("kpi").AssetType)
}

func TestNodeFluentSetters(t *testing.T) {
	n := NewNode("orders", "Table").
		WithDisplayName("Orders").
		WithDescription("fact table").
		WithAttribute("RowCount", 42)
	assert.Equal(t, "Orders", n.DisplayName)
	assert.Equal(t, "fact table", n.Description)
	assert.Equal(t, 42, n.Attributes["RowCount"])
}

func TestAddNodeIsIdempotent(t *testing.T) {
	b := NewBuilder(nil)
	n := NewNode("orders", "Table")
	b.AddNode(n).AddNode(n)
	assert.Len(t, b.Nodes(), 1)
}

func TestAddEdgeRegistersEndpoints(t *testing.T) {
	b := NewBuilder(nil)
	src := NewNode("raw", "Table")
	tgt := NewNode("clean", "Table")
	b.AddEdge(src, tgt)

	require.Len(t, b.Nodes(), 2)
	require.Len(t, b.Edges(), 1)
	edge := b.Edges()[0]
	assert.Equal(t, src.ID(), edge.SourceID)
	assert.Equal(t, tgt.ID(), edge.TargetID)
	assert.Equal(t, DefaultRelationType, edge.RelationType)
}

func TestAddEdgeTyped(t *testing.T) {
	b := NewBuilder(nil)
	b.AddEdge(NewNode("a", ""), NewNode("b", ""), Typed(RelationTransforms))
	assert.Equal(t, RelationTransforms, b.Edges()[0].RelationType)
}

func TestBuilderDefaultRelationOverride(t *testing.T) {
	b := NewBuilder(nil, WithDefaultRelationType(RelationProduces))
	b.AddEdge(NewNode("a", ""), NewNode("b", ""))
	assert.Equal(t, RelationProduces, b.Edges()[0].RelationType)
}

func TestFluentChaining(t *testing.T) {
	b := NewBuilder(nil)
	raw := Table("raw_orders", "", "")
	job := Pipeline("clean_orders")
	out := Table("orders", "", "")
	report := Report("orders_report")

	b.Source(raw).Through(job).Through(out).To(report)

	edges := b.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, raw.ID(), edges[0].SourceID)
	assert.Equal(t, job.ID(), edges[0].TargetID)
	assert.Equal(t, job.ID(), edges[1].SourceID)
	assert.Equal(t, out.ID(), edges[1].TargetID)
	assert.Equal(t, out.ID(), edges[2].SourceID)
	assert.Equal(t, report.ID(), edges[2].TargetID)
}

func TestToKeepsCursor(t *testing.T) {
	b := NewBuilder(nil)
	hub := Table("hub", "", "")
	b.Source(hub).To(Table("spoke1", "", "")).To(Table("spoke2", "", ""))

	edges := b.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, hub.ID(), edges[0].SourceID)
	assert.Equal(t, hub.ID(), edges[1].SourceID)
}

func TestThroughWithoutSourcePanics(t *testing.T) {
	b := NewBuilder(nil)
	assert.Panics(t, func() { b.Through(NewNode("x", "")) })
	assert.Panics(t, func() { b.To(NewNode("x", "")) })
}

func TestChain(t *testing.T) {
	b := NewBuilder(nil)
	n1, n2, n3, n4 := NewNode("a", ""), NewNode("b", ""), NewNode("c", ""), NewNode("d", "")
	b.Chain(n1, n2, n3, n4)

	edges := b.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, n1.ID(), edges[0].SourceID)
	assert.Equal(t, n2.ID(), edges[0].TargetID)
	assert.Equal(t, n2.ID(), edges[1].SourceID)
	assert.Equal(t, n3.ID(), edges[1].TargetID)
	assert.Equal(t, n3.ID(), edges[2].SourceID)
	assert.Equal(t, n4.ID(), edges[2].TargetID)
}

func TestChainSingleNodeAddsNothing(t *testing.T) {
	b := NewBuilder(nil)
	b.Chain(NewNode("solo", ""))
	assert.Empty(t, b.Edges())
	assert.Empty(t, b.Nodes())
}

func TestFanIn(t *testing.T) {
	b := NewBuilder(nil)
	sources := []*Node{NewNode("s1", ""), NewNode("s2", ""), NewNode("s3", "")}
	target := Pipeline("merge")
	b.FanIn(sources, target, Typed(RelationSourceFor))

	edges := b.Edges()
	require.Len(t, edges, 3)
	for i, e := range edges {
		assert.Equal(t, sources[i].ID(), e.SourceID)
		assert.Equal(t, target.ID(), e.TargetID)
	}
	assert.Len(t, b.Nodes(), 4)
}

func TestFanOut(t *testing.T) {
	b := NewBuilder(nil)
	source := Pipeline("split")
	targets := []*Node{NewNode("t1", ""), NewNode("t2", "")}
	b.FanOut(source, targets)

	edges := b.Edges()
	require.Len(t, edges, 2)
	for i, e := range edges {
		assert.Equal(t, source.ID(), e.SourceID)
		assert.Equal(t, targets[i].ID(), e.TargetID)
	}
}

func TestClear(t *testing.T) {
	b := NewBuilder(nil)
	b.Source(NewNode("a", "")).Through(NewNode("b", ""))
	b.Clear()

	assert.Empty(t, b.Nodes())
	assert.Empty(t, b.Edges())
	assert.Panics(t, func() { b.Through(NewNode("c", "")) })
}

func TestNodesPreservesInsertionOrder(t *testing.T) {
	b := NewBuilder(nil)
	names := []string{"e", "a", "z", "m"}
	for _, name := range names {
		b.AddNode(NewNode(name, ""))
	}
	got := b.Nodes()
	require.Len(t, got, len(names))
	for i, n := range got {
		assert.Equal(t, names[i], n.Name)
	}
}
