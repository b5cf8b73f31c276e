package lineage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/glossarium/dgc/pkg/dgc"
)

// descriptionAttribute is the public id of the attribute used for node
// descriptions.
const descriptionAttribute = "Description"

// Result reports the outcome of one Commit. A partial failure leaves
// Success false with one message per failed node or edge in Errors, while
// everything else is still created.
type Result struct {
	// Success is true when Errors is empty.
	Success bool `json:"success"`
	// AssetsCreated counts assets created this commit. Reference nodes and
	// dry runs of reference nodes are not counted.
	AssetsCreated int `json:"assetsCreated"`
	// RelationsCreated counts relations created this commit.
	RelationsCreated int `json:"relationsCreated"`
	// Assets maps node correlation ids to remote asset ids, including
	// reference nodes.
	Assets map[string]string `json:"assets"`
	// Relations holds created relation ids in edge insertion order.
	Relations []string `json:"relations"`
	// Errors holds one message per failure, node failures before edge
	// failures, each group in insertion order.
	Errors []string `json:"errors"`
}

type commitConfig struct {
	statusID    string
	dryRun      bool
	concurrency int
}

// CommitOption configures one Commit call.
type CommitOption func(*commitConfig)

// WithStatusID sets the status applied to every created asset.
func WithStatusID(statusID string) CommitOption {
	return func(c *commitConfig) { c.statusID = statusID }
}

// WithDryRun makes Commit report what it would create without touching the
// catalog.
func WithDryRun() CommitOption {
	return func(c *commitConfig) { c.dryRun = true }
}

// WithConcurrency bounds the number of in-flight catalog requests per
// phase. Values below 2 keep the sequential behavior.
func WithConcurrency(n int) CommitOption {
	return func(c *commitConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// Commit materializes the graph into domainID in two phases: all assets
// first, then all relations between the assets that exist. Failures are
// collected per node and per edge rather than aborting, so one bad type
// name poisons only its own subgraph. The builder itself is not mutated;
// committing again repeats all creations.
func (b *Builder) Commit(ctx context.Context, domainID string, opts ...CommitOption) *Result {
	cfg := commitConfig{concurrency: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := &Result{
		Assets: make(map[string]string),
	}

	if cfg.dryRun {
		for _, id := range b.nodeOrder {
			if !b.nodes[id].IsReference() {
				result.AssetsCreated++
			}
		}
		result.RelationsCreated = len(b.edges)
		result.Success = true
		b.logger.Info("dry run",
			"assets", result.AssetsCreated,
			"relations", result.RelationsCreated)
		return result
	}

	b.commitAssets(ctx, domainID, cfg, result)
	b.commitRelations(ctx, cfg, result)

	result.Success = len(result.Errors) == 0
	b.logger.Info("lineage committed",
		"assets_created", result.AssetsCreated,
		"relations_created", result.RelationsCreated,
		"errors", len(result.Errors))
	return result
}

// nodeOutcome is the result slot for one node, indexed by insertion
// position so concurrent execution reports in the sequential order.
type nodeOutcome struct {
	assetID string
	created bool
	errs    []string
}

func (b *Builder) commitAssets(ctx context.Context, domainID string, cfg commitConfig, result *Result) {
	outcomes := make([]nodeOutcome, len(b.nodeOrder))

	if cfg.concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.concurrency)
		for i := range b.nodeOrder {
			g.Go(func() error {
				outcomes[i] = b.commitNode(gctx, b.nodes[b.nodeOrder[i]], domainID, cfg)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range b.nodeOrder {
			outcomes[i] = b.commitNode(ctx, b.nodes[b.nodeOrder[i]], domainID, cfg)
		}
	}

	for i, id := range b.nodeOrder {
		out := outcomes[i]
		if out.assetID != "" {
			result.Assets[id] = out.assetID
		}
		if out.created {
			result.AssetsCreated++
		}
		result.Errors = append(result.Errors, out.errs...)
	}
}

func (b *Builder) commitNode(ctx context.Context, node *Node, domainID string, cfg commitConfig) nodeOutcome {
	if node.IsReference() {
		return nodeOutcome{assetID: node.AssetID}
	}

	typeID := b.resolver.assetTypeID(ctx, node.AssetType)
	if typeID == "" {
		return nodeOutcome{errs: []string{
			fmt.Sprintf("Asset type not found: %s for node %s", node.AssetType, node.Name),
		}}
	}

	assetID, err := b.catalog.CreateAsset(ctx, dgc.CreateAssetRequest{
		Name:        node.Name,
		DomainID:    domainID,
		DisplayName: node.DisplayName,
		TypeID:      typeID,
		StatusID:    cfg.statusID,
	})
	if err != nil {
		return nodeOutcome{errs: []string{
			fmt.Sprintf("Failed to create asset %s: %s", node.Name, err),
		}}
	}
	b.logger.Debug("asset created", "name", node.Name, "id", assetID)

	b.decorate(ctx, node, assetID)
	return nodeOutcome{assetID: assetID, created: true}
}

// decorate applies description and attributes after creation. The asset
// already exists, so failures here are logged and never surfaced.
func (b *Builder) decorate(ctx context.Context, node *Node, assetID string) {
	if node.Description != "" {
		if err := b.catalog.SetAssetAttribute(ctx, assetID, descriptionAttribute, node.Description); err != nil {
			b.logger.Debug("description not set", "asset", node.Name, "error", err)
		}
	}
	for typeID, value := range node.Attributes {
		if err := b.catalog.SetAssetAttribute(ctx, assetID, typeID, value); err != nil {
			b.logger.Debug("attribute not set",
				"asset", node.Name, "attribute", typeID, "error", err)
		}
	}
}

type edgeOutcome struct {
	relationID string
	errs       []string
}

func (b *Builder) commitRelations(ctx context.Context, cfg commitConfig, result *Result) {
	outcomes := make([]edgeOutcome, len(b.edges))

	if cfg.concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.concurrency)
		for i := range b.edges {
			g.Go(func() error {
				outcomes[i] = b.commitEdge(gctx, b.edges[i], result.Assets)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range b.edges {
			outcomes[i] = b.commitEdge(ctx, b.edges[i], result.Assets)
		}
	}

	for _, out := range outcomes {
		if out.relationID != "" {
			result.Relations = append(result.Relations, out.relationID)
			result.RelationsCreated++
		}
		result.Errors = append(result.Errors, out.errs...)
	}
}

func (b *Builder) commitEdge(ctx context.Context, edge Edge, assets map[string]string) edgeOutcome {
	sourceID, ok := assets[edge.SourceID]
	if !ok {
		return edgeOutcome{errs: []string{
			fmt.Sprintf("Source asset not found for edge: %s", b.nodeName(edge.SourceID)),
		}}
	}
	targetID, ok := assets[edge.TargetID]
	if !ok {
		return edgeOutcome{errs: []string{
			fmt.Sprintf("Target asset not found for edge: %s", b.nodeName(edge.TargetID)),
		}}
	}

	typeID := edge.RelationTypeID
	if typeID == "" {
		typeID = b.resolver.relationTypeID(ctx, edge.RelationType)
	}
	if typeID == "" {
		return edgeOutcome{errs: []string{
			fmt.Sprintf("Relation type not found: %s", edge.RelationType),
		}}
	}

	relationID, err := b.catalog.CreateRelation(ctx, dgc.CreateRelationRequest{
		SourceID: sourceID,
		TargetID: targetID,
		TypeID:   typeID,
	})
	if err != nil {
		return edgeOutcome{errs: []string{
			fmt.Sprintf("Failed to create relation %s -> %s: %s",
				b.nodeName(edge.SourceID), b.nodeName(edge.TargetID), err),
		}}
	}
	b.logger.Debug("relation created",
		"source", b.nodeName(edge.SourceID),
		"target", b.nodeName(edge.TargetID),
		"id", relationID)
	return edgeOutcome{relationID: relationID}
}
