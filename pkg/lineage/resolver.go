package lineage

import (
	"context"
	"log/slog"
	"sync"
)

// typeResolver memoizes symbolic type name lookups against the catalog.
// Misses are cached too, so an unknown type name costs one request per
// builder lifetime, not one per node.
type typeResolver struct {
	catalog Catalog
	logger  *slog.Logger

	mu            sync.Mutex
	assetTypes    map[string]string
	relationTypes map[string]string
}

func newTypeResolver(catalog Catalog, logger *slog.Logger) *typeResolver {
	return &typeResolver{
		catalog:       catalog,
		logger:        logger,
		assetTypes:    make(map[string]string),
		relationTypes: make(map[string]string),
	}
}

// assetTypeID resolves an asset type name to its id. An empty result means
// the type is unknown; lookup errors are logged and treated as unknown.
func (r *typeResolver) assetTypeID(ctx context.Context, name string) string {
	r.mu.Lock()
	id, ok := r.assetTypes[name]
	r.mu.Unlock()
	if ok {
		return id
	}

	id, err := r.catalog.FindAssetTypeID(ctx, name)
	if err != nil {
		r.logger.Debug("asset type lookup failed", "type", name, "error", err)
		id = ""
	}
	r.mu.Lock()
	r.assetTypes[name] = id
	r.mu.Unlock()
	return id
}

// relationTypeID resolves a relation role to its type id, with the same
// miss and error semantics as assetTypeID.
func (r *typeResolver) relationTypeID(ctx context.Context, role string) string {
	r.mu.Lock()
	id, ok := r.relationTypes[role]
	r.mu.Unlock()
	if ok {
		return id
	}

	id, err := r.catalog.FindRelationTypeID(ctx, role)
	if err != nil {
		r.logger.Debug("relation type lookup failed", "role", role, "error", err)
		id = ""
	}
	r.mu.Lock()
	r.relationTypes[role] = id
	r.mu.Unlock()
	return id
}
