package lineage

import (
	"fmt"
	"sort"
	"strings"
)

// GraphDoc is the serializable form of a builder's graph. It round-trips
// through JSON and YAML with correlation ids preserved, so a graph can be
// exported, reviewed, and committed later.
type GraphDoc struct {
	Nodes []NodeDoc `json:"nodes" yaml:"nodes"`
	Edges []EdgeDoc `json:"edges" yaml:"edges"`
}

// NodeDoc is the serializable form of a Node.
type NodeDoc struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	AssetType   string         `json:"assetType" yaml:"assetType"`
	AssetID     string         `json:"assetId,omitempty" yaml:"assetId,omitempty"`
	DisplayName string         `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// EdgeDoc is the serializable form of an Edge.
type EdgeDoc struct {
	SourceID       string         `json:"sourceId" yaml:"sourceId"`
	TargetID       string         `json:"targetId" yaml:"targetId"`
	RelationType   string         `json:"relationType" yaml:"relationType"`
	RelationTypeID string         `json:"relationTypeId,omitempty" yaml:"relationTypeId,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ToStructured exports the graph in insertion order.
func (b *Builder) ToStructured() GraphDoc {
	doc := GraphDoc{
		Nodes: make([]NodeDoc, 0, len(b.nodeOrder)),
		Edges: make([]EdgeDoc, 0, len(b.edges)),
	}
	for _, id := range b.nodeOrder {
		n := b.nodes[id]
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:          n.id,
			Name:        n.Name,
			AssetType:   n.AssetType,
			AssetID:     n.AssetID,
			DisplayName: n.DisplayName,
			Description: n.Description,
			Attributes:  n.Attributes,
			Metadata:    n.Metadata,
		})
	}
	for _, e := range b.edges {
		doc.Edges = append(doc.Edges, EdgeDoc{
			SourceID:       e.SourceID,
			TargetID:       e.TargetID,
			RelationType:   e.RelationType,
			RelationTypeID: e.RelationTypeID,
			Metadata:       e.Metadata,
		})
	}
	return doc
}

// FromStructured replaces the builder's graph with the document's
// contents, preserving node correlation ids. Edges referencing ids absent
// from doc.Nodes are dropped. The type resolver cache is kept.
func (b *Builder) FromStructured(doc GraphDoc) *Builder {
	b.Clear()
	for _, nd := range doc.Nodes {
		node := &Node{
			id:          nd.ID,
			Name:        nd.Name,
			AssetType:   nd.AssetType,
			AssetID:     nd.AssetID,
			DisplayName: nd.DisplayName,
			Description: nd.Description,
			Attributes:  nd.Attributes,
			Metadata:    nd.Metadata,
		}
		if node.id == "" {
			node.id = NewNode(nd.Name, nd.AssetType).id
		}
		if node.AssetType == "" {
			node.AssetType = DefaultAssetType
		}
		b.AddNode(node)
	}
	for _, ed := range doc.Edges {
		if _, ok := b.nodes[ed.SourceID]; !ok {
			continue
		}
		if _, ok := b.nodes[ed.TargetID]; !ok {
			continue
		}
		role := ed.RelationType
		if role == "" {
			role = b.defaultRelationType
		}
		b.edges = append(b.edges, Edge{
			SourceID:       ed.SourceID,
			TargetID:       ed.TargetID,
			RelationType:   role,
			RelationTypeID: ed.RelationTypeID,
			Metadata:       ed.Metadata,
		})
	}
	return b
}

// Visualize renders the graph as indented text, one block per source node
// in first-seen edge order, isolated nodes listed last.
func (b *Builder) Visualize() string {
	var sb strings.Builder
	sb.WriteString("Lineage Graph\n")
	sb.WriteString(fmt.Sprintf("%d nodes, %d edges\n\n", len(b.nodeOrder), len(b.edges)))

	bySource := make(map[string][]Edge)
	var sourceOrder []string
	connected := make(map[string]bool)
	for _, e := range b.edges {
		if _, seen := bySource[e.SourceID]; !seen {
			sourceOrder = append(sourceOrder, e.SourceID)
		}
		bySource[e.SourceID] = append(bySource[e.SourceID], e)
		connected[e.SourceID] = true
		connected[e.TargetID] = true
	}

	for _, srcID := range sourceOrder {
		src := b.nodes[srcID]
		sb.WriteString(fmt.Sprintf("%s (%s)\n", src.Name, src.AssetType))
		for _, e := range bySource[srcID] {
			tgt := b.nodes[e.TargetID]
			sb.WriteString(fmt.Sprintf("  --[%s]--> %s (%s)\n",
				e.RelationType, tgt.Name, tgt.AssetType))
		}
	}

	var isolated []string
	for _, id := range b.nodeOrder {
		if !connected[id] {
			isolated = append(isolated, b.nodes[id].Name+" ("+b.nodes[id].AssetType+")")
		}
	}
	if len(isolated) > 0 {
		sort.Strings(isolated)
		sb.WriteString("\nIsolated nodes:\n")
		for _, line := range isolated {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}
