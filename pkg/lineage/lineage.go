// Package lineage provides a declarative builder for technical data
// lineage. Nodes describe data assets (existing or to be created), edges
// describe directed relations between them, and Commit materializes the
// whole graph against a catalog in two phases, collecting partial failures
// instead of aborting.
package lineage

import (
	"log/slog"

	"github.com/google/uuid"
)

// DefaultRelationType is the relation role applied to edges that don't
// specify one.
const DefaultRelationType = "is source for"

// DefaultAssetType is the asset type applied to nodes that don't specify one.
const DefaultAssetType = "Data Asset"

// Common lineage relation roles.
const (
	RelationSourceFor   = "is source for"
	RelationTargetFor   = "is target for"
	RelationTransforms  = "transforms"
	RelationDerivedFrom = "is derived from"
	RelationContains    = "contains"
	RelationPartOf      = "is part of"
	RelationUses        = "uses"
	RelationProduces    = "produces"
)

// Node is one vertex of a lineage graph: a table, a file, an ETL job, a
// dashboard. A node either references an existing catalog asset by AssetID
// or specifies a new asset to create. Identity is the generated correlation
// id, never the name, so two nodes with the same name are distinct unless
// the same *Node is reused.
type Node struct {
	// id is the process-local correlation id, stable for the builder's
	// lifetime and never reused.
	id string

	// Name of the asset.
	Name string
	// AssetType is the symbolic asset type name, resolved at commit time.
	AssetType string
	// AssetID, when set, marks this node as a reference to an existing
	// asset; it is never submitted for creation.
	AssetID string
	// DisplayName is an optional display name for new assets.
	DisplayName string
	// Description is set as a best-effort Description attribute after
	// asset creation.
	Description string
	// Attributes maps attribute type public ids to values, set best-effort
	// after creation.
	Attributes map[string]any
	// Metadata carries free-form caller data. It is never sent to the
	// catalog.
	Metadata map[string]any
}

// NewNode creates a node for an asset to be created. An empty assetType
// defaults to DefaultAssetType.
func NewNode(name, assetType string) *Node {
	if assetType == "" {
		assetType = DefaultAssetType
	}
	return &Node{
		id:        uuid.NewString(),
		Name:      name,
		AssetType: assetType,
	}
}

// NodeFromID creates a node referencing an existing catalog asset. The
// name is only used for display and error messages.
func NodeFromID(assetID, name string) *Node {
	n := NewNode(name, "")
	n.AssetID = assetID
	return n
}

// Table creates a "Table" node. Schema and database, when non-empty, are
// prepended to the name dot-separated.
func Table(name, schema, database string) *Node {
	full := name
	if schema != "" {
		full = schema + "." + full
	}
	if database != "" {
		full = database + "." + full
	}
	return NewNode(full, "Table")
}

// Column creates a "Column" node, qualified by table when non-empty.
func Column(name, table string) *Node {
	if table != "" {
		name = table + "." + name
	}
	return NewNode(name, "Column")
}

// Pipeline creates a "Data Pipeline" node.
func Pipeline(name string) *Node { return NewNode(name, "Data Pipeline") }

// Report creates a "Report" node.
func Report(name string) *Node { return NewNode(name, "Report") }

// Dashboard creates a "Dashboard" node.
func Dashboard(name string) *Node { return NewNode(name, "Dashboard") }

// ID returns the node's correlation id.
func (n *Node) ID() string { return n.id }

// IsReference reports whether the node points at an existing asset.
func (n *Node) IsReference() bool { return n.AssetID != "" }

// WithDisplayName sets the display name and returns the node.
func (n *Node) WithDisplayName(name string) *Node {
	n.DisplayName = name
	return n
}

// WithDescription sets the description and returns the node.
func (n *Node) WithDescription(desc string) *Node {
	n.Description = desc
	return n
}

// WithAttribute adds one attribute value and returns the node.
func (n *Node) WithAttribute(typePublicID string, value any) *Node {
	if n.Attributes == nil {
		n.Attributes = make(map[string]any)
	}
	n.Attributes[typePublicID] = value
	return n
}

// Edge is a directed, typed relation between two nodes. Edges hold
// correlation ids rather than node pointers; the builder's node store owns
// the nodes.
type Edge struct {
	// SourceID and TargetID are node correlation ids.
	SourceID string
	TargetID string
	// RelationType is the symbolic relation role, resolved at commit time.
	RelationType string
	// RelationTypeID, when set, bypasses resolution.
	RelationTypeID string
	// Metadata carries free-form caller data.
	Metadata map[string]any
}

// Builder accumulates a lineage graph and commits it against a catalog.
// Construction methods are not safe for concurrent use; Commit may be
// configured to fan out internally.
type Builder struct {
	catalog             Catalog
	defaultRelationType string
	logger              *slog.Logger

	nodes     map[string]*Node
	nodeOrder []string
	edges     []Edge
	cursor    *Node

	resolver *typeResolver
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDefaultRelationType overrides the builder-wide default relation role.
func WithDefaultRelationType(role string) BuilderOption {
	return func(b *Builder) {
		if role != "" {
			b.defaultRelationType = role
		}
	}
}

// WithLogger sets the builder's structured logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder committing through the given catalog.
func NewBuilder(catalog Catalog, opts ...BuilderOption) *Builder {
	b := &Builder{
		catalog:             catalog,
		defaultRelationType: DefaultRelationType,
		logger:              slog.New(slog.DiscardHandler),
		nodes:               make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.resolver = newTypeResolver(catalog, b.logger)
	return b
}

// AddNode registers a node. Adding the same node twice is a no-op.
func (b *Builder) AddNode(node *Node) *Builder {
	if _, exists := b.nodes[node.id]; !exists {
		b.nodes[node.id] = node
		b.nodeOrder = append(b.nodeOrder, node.id)
	}
	return b
}

// EdgeOption configures a single edge.
type EdgeOption func(*Edge)

// Typed sets the edge's symbolic relation role.
func Typed(role string) EdgeOption {
	return func(e *Edge) { e.RelationType = role }
}

// TypedID sets an explicit relation type UUID, bypassing resolution.
func TypedID(typeID string) EdgeOption {
	return func(e *Edge) { e.RelationTypeID = typeID }
}

// AddEdge appends a directed edge and auto-registers both endpoints.
// Without a Typed option the builder's default relation role applies.
func (b *Builder) AddEdge(source, target *Node, opts ...EdgeOption) *Builder {
	b.AddNode(source)
	b.AddNode(target)

	edge := Edge{
		SourceID:     source.id,
		TargetID:     target.id,
		RelationType: b.defaultRelationType,
	}
	for _, opt := range opts {
		opt(&edge)
	}
	b.edges = append(b.edges, edge)
	return b
}

// Source sets the fluent cursor.
func (b *Builder) Source(node *Node) *Builder {
	b.AddNode(node)
	b.cursor = node
	return b
}

// Through adds an edge from the cursor to node and moves the cursor to
// node. It panics if Source was not called first.
func (b *Builder) Through(node *Node, opts ...EdgeOption) *Builder {
	if b.cursor == nil {
		panic("lineage: Through called before Source")
	}
	b.AddEdge(b.cursor, node, opts...)
	b.cursor = node
	return b
}

// To adds an edge from the cursor to node, leaving the cursor in place.
// It panics if Source was not called first.
func (b *Builder) To(node *Node, opts ...EdgeOption) *Builder {
	if b.cursor == nil {
		panic("lineage: To called before Source")
	}
	b.AddEdge(b.cursor, node, opts...)
	return b
}

// Chain adds pairwise edges between consecutive nodes.
func (b *Builder) Chain(nodes ...*Node) *Builder {
	return b.ChainTyped("", nodes...)
}

// ChainTyped is Chain with an explicit relation role for every edge.
func (b *Builder) ChainTyped(role string, nodes ...*Node) *Builder {
	for i := 0; i+1 < len(nodes); i++ {
		if role != "" {
			b.AddEdge(nodes[i], nodes[i+1], Typed(role))
		} else {
			b.AddEdge(nodes[i], nodes[i+1])
		}
	}
	return b
}

// FanIn adds one edge from every source into target.
func (b *Builder) FanIn(sources []*Node, target *Node, opts ...EdgeOption) *Builder {
	for _, src := range sources {
		b.AddEdge(src, target, opts...)
	}
	return b
}

// FanOut adds one edge from source into every target.
func (b *Builder) FanOut(source *Node, targets []*Node, opts ...EdgeOption) *Builder {
	for _, tgt := range targets {
		b.AddEdge(source, tgt, opts...)
	}
	return b
}

// Clear drops all nodes, edges, and the fluent cursor. The type resolver
// cache is kept; discard the builder to discard the cache.
func (b *Builder) Clear() *Builder {
	b.nodes = make(map[string]*Node)
	b.nodeOrder = nil
	b.edges = nil
	b.cursor = nil
	return b
}

// Nodes returns all nodes in insertion order.
func (b *Builder) Nodes() []*Node {
	out := make([]*Node, 0, len(b.nodeOrder))
	for _, id := range b.nodeOrder {
		out = append(out, b.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (b *Builder) Edges() []Edge {
	out := make([]Edge, len(b.edges))
	copy(out, b.edges)
	return out
}

// nodeName returns the display name of the node with the given correlation
// id, falling back to the id itself.
func (b *Builder) nodeName(id string) string {
	if n, ok := b.nodes[id]; ok {
		return n.Name
	}
	return id
}
