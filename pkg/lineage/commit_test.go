package lineage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossarium/dgc/internal/testutil"
	"github.com/glossarium/dgc/pkg/dgc"
)

type attrCall struct {
	assetID string
	typeID  string
	value   any
}

// fakeCatalog is an in-memory Catalog with per-call failure switches.
type fakeCatalog struct {
	mu sync.Mutex

	assetTypes    map[string]string
	relationTypes map[string]string

	createdAssets    []dgc.CreateAssetRequest
	createdRelations []dgc.CreateRelationRequest
	attrCalls        []attrCall

	failAssetName string
	failAttrs     bool
	failRelations bool
	lookupErr     error
	lookups       int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		assetTypes: map[string]string{
			"Table":         "at-table",
			"Column":        "at-column",
			"Data Pipeline": "at-pipeline",
			"Data Asset":    "at-generic",
		},
		relationTypes: map[string]string{
			"is source for": "rt-source",
			"transforms":    "rt-transforms",
		},
	}
}

func (f *fakeCatalog) CreateAsset(_ context.Context, req dgc.CreateAssetRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Name == f.failAssetName {
		return "", errors.New("boom")
	}
	f.createdAssets = append(f.createdAssets, req)
	return fmt.Sprintf("asset-%d", len(f.createdAssets)), nil
}

func (f *fakeCatalog) SetAssetAttribute(_ context.Context, assetID, attributeTypeID string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAttrs {
		return errors.New("attribute rejected")
	}
	f.attrCalls = append(f.attrCalls, attrCall{assetID, attributeTypeID, value})
	return nil
}

func (f *fakeCatalog) CreateRelation(_ context.Context, req dgc.CreateRelationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRelations {
		return "", errors.New("relation rejected")
	}
	f.createdRelations = append(f.createdRelations, req)
	return fmt.Sprintf("rel-%d", len(f.createdRelations)), nil
}

func (f *fakeCatalog) FindAssetTypeID(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.assetTypes[name], nil
}

func (f *fakeCatalog) FindRelationTypeID(_ context.Context, role string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.relationTypes[role], nil
}

func TestCommitHappyPath(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat, WithLogger(testutil.NewTestLogger(t)))
	src := Table("raw_orders", "", "")
	tgt := Table("orders", "", "")
	b.AddEdge(src, tgt)

	result := b.Commit(context.Background(), "dom-1")

	require.True(t, result.Success)
	assert.Equal(t, 2, result.AssetsCreated)
	assert.Equal(t, 1, result.RelationsCreated)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"rel-1"}, result.Relations)

	require.Len(t, cat.createdAssets, 2)
	assert.Equal(t, "raw_orders", cat.createdAssets[0].Name)
	assert.Equal(t, "dom-1", cat.createdAssets[0].DomainID)
	assert.Equal(t, "at-table", cat.createdAssets[0].TypeID)

	require.Len(t, cat.createdRelations, 1)
	assert.Equal(t, result.Assets[src.ID()], cat.createdRelations[0].SourceID)
	assert.Equal(t, result.Assets[tgt.ID()], cat.createdRelations[0].TargetID)
	assert.Equal(t, "rt-source", cat.createdRelations[0].TypeID)
}

func TestCommitDryRun(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	b.AddEdge(NewNode("a", "Table"), NewNode("b", "Table"))
	b.AddNode(NodeFromID("11111111-2222-3333-4444-555555555555", "existing"))

	result := b.Commit(context.Background(), "dom-1", WithDryRun())

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.AssetsCreated)
	assert.Equal(t, 1, result.RelationsCreated)
	assert.Zero(t, cat.lookups)
	assert.Empty(t, cat.createdAssets)
	assert.Empty(t, cat.createdRelations)
}

func TestCommitReferenceNodeNotCreated(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	ref := NodeFromID("11111111-2222-3333-4444-555555555555", "existing")
	fresh := Table("new_table", "", "")
	b.AddEdge(ref, fresh)

	result := b.Commit(context.Background(), "dom-1")

	require.True(t, result.Success)
	assert.Equal(t, 1, result.AssetsCreated)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", result.Assets[ref.ID()])
	require.Len(t, cat.createdAssets, 1)
	assert.Equal(t, "new_table", cat.createdAssets[0].Name)
	require.Len(t, cat.createdRelations, 1)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", cat.createdRelations[0].SourceID)
}

func TestCommitUnknownAssetTypePoisonsEdges(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	bad := NewNode("mystery", "No Such Type")
	good := Table("orders", "", "")
	b.AddEdge(bad, good)

	result := b.Commit(context.Background(), "dom-1")

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.AssetsCreated)
	assert.Equal(t, 0, result.RelationsCreated)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "Asset type not found: No Such Type for node mystery", result.Errors[0])
	assert.Equal(t, "Source asset not found for edge: mystery", result.Errors[1])
}

func TestCommitAssetCreateFailure(t *testing.T) {
	cat := newFakeCatalog()
	cat.failAssetName = "orders"
	b := NewBuilder(cat)
	b.AddNode(Table("orders", "", ""))

	result := b.Commit(context.Background(), "dom-1")

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Failed to create asset orders: boom", result.Errors[0])
}

func TestCommitUnknownRelationType(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	b.AddEdge(Table("a", "", ""), Table("b", "", ""), Typed("no such role"))

	result := b.Commit(context.Background(), "dom-1")

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.AssetsCreated)
	assert.Equal(t, 0, result.RelationsCreated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Relation type not found: no such role", result.Errors[0])
}

func TestCommitRelationCreateFailure(t *testing.T) {
	cat := newFakeCatalog()
	cat.failRelations = true
	b := NewBuilder(cat)
	b.AddEdge(Table("a", "", ""), Table("b", "", ""))

	result := b.Commit(context.Background(), "dom-1")

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Failed to create relation a -> b: relation rejected", result.Errors[0])
}

func TestCommitExplicitRelationTypeIDSkipsResolution(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	b.AddEdge(Table("a", "", ""), Table("b", "", ""), TypedID("rt-custom"))

	result := b.Commit(context.Background(), "dom-1")

	require.True(t, result.Success)
	require.Len(t, cat.createdRelations, 1)
	assert.Equal(t, "rt-custom", cat.createdRelations[0].TypeID)
	// Two asset type lookups, no relation role lookup.
	assert.Equal(t, 2, cat.lookups)
}

func TestCommitDecorationFailureIsSwallowed(t *testing.T) {
	cat := newFakeCatalog()
	cat.failAttrs = true
	b := NewBuilder(cat, WithLogger(testutil.NewTestLogger(t)))
	b.AddNode(Table("orders", "", "").
		WithDescription("fact table").
		WithAttribute("RowCount", 10))

	result := b.Commit(context.Background(), "dom-1")

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.AssetsCreated)
	assert.Empty(t, result.Errors)
}

func TestCommitDecoration(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	b.AddNode(Table("orders", "", "").WithDescription("fact table"))

	result := b.Commit(context.Background(), "dom-1")

	require.True(t, result.Success)
	require.Len(t, cat.attrCalls, 1)
	assert.Equal(t, "Description", cat.attrCalls[0].typeID)
	assert.Equal(t, "fact table", cat.attrCalls[0].value)
}

func TestCommitStatusID(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	b.AddNode(Table("orders", "", ""))

	b.Commit(context.Background(), "dom-1", WithStatusID("st-approved"))

	require.Len(t, cat.createdAssets, 1)
	assert.Equal(t, "st-approved", cat.createdAssets[0].StatusID)
}

func TestCommitTypeResolutionIsCached(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	for i := 0; i < 5; i++ {
		b.AddNode(Table(fmt.Sprintf("t%d", i), "", ""))
	}

	result := b.Commit(context.Background(), "dom-1")

	require.True(t, result.Success)
	assert.Equal(t, 1, cat.lookups)
}

func TestCommitLookupErrorTreatedAsUnknown(t *testing.T) {
	cat := newFakeCatalog()
	cat.lookupErr = errors.New("catalog down")
	b := NewBuilder(cat, WithLogger(testutil.NewTestLogger(t)))
	b.AddNode(Table("orders", "", ""))

	result := b.Commit(context.Background(), "dom-1")

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Asset type not found: Table for node orders", result.Errors[0])
}

func TestCommitErrorOrderMatchesInsertionOrder(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	b.AddNode(NewNode("first", "Nope"))
	b.AddNode(NewNode("second", "Nope"))
	b.AddEdge(Table("a", "", ""), Table("b", "", ""), Typed("missing role"))

	result := b.Commit(context.Background(), "dom-1")

	require.Len(t, result.Errors, 3)
	assert.Equal(t, "Asset type not found: Nope for node first", result.Errors[0])
	assert.Equal(t, "Asset type not found: Nope for node second", result.Errors[1])
	assert.Equal(t, "Relation type not found: missing role", result.Errors[2])
}

func TestCommitConcurrentMatchesSequential(t *testing.T) {
	build := func(cat Catalog) *Builder {
		b := NewBuilder(cat)
		var prev *Node
		for i := 0; i < 10; i++ {
			n := Table(fmt.Sprintf("t%d", i), "", "")
			if prev != nil {
				b.AddEdge(prev, n)
			}
			prev = n
		}
		b.AddNode(NewNode("odd one", "No Such Type"))
		return b
	}

	seq := build(newFakeCatalog()).Commit(context.Background(), "dom-1")
	par := build(newFakeCatalog()).Commit(context.Background(), "dom-1", WithConcurrency(4))

	assert.Equal(t, seq.Success, par.Success)
	assert.Equal(t, seq.AssetsCreated, par.AssetsCreated)
	assert.Equal(t, seq.RelationsCreated, par.RelationsCreated)
	assert.Equal(t, seq.Errors, par.Errors)
}

func TestCommitIsRepeatable(t *testing.T) {
	cat := newFakeCatalog()
	b := NewBuilder(cat)
	b.AddEdge(Table("a", "", ""), Table("b", "", ""))

	first := b.Commit(context.Background(), "dom-1")
	second := b.Commit(context.Background(), "dom-1")

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Len(t, cat.createdAssets, 4)
	assert.Len(t, cat.createdRelations, 2)
}
