package dgc

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCacheTTL is the metadata cache expiry applied when none is given.
const DefaultCacheTTL = time.Hour

// metadata cache categories.
const (
	catAssetTypes     = "asset_types"
	catRelationTypes  = "relation_types"
	catStatuses       = "statuses"
	catAttributeTypes = "attribute_types"
	catDomainTypes    = "domain_types"
	catRoles          = "roles"
)

// MetadataCache memoizes name→UUID mappings for the catalog's type-level
// resources. Categories are populated lazily on first access and refreshed
// after the TTL elapses. Lookup failure caches an empty category until the
// TTL expires, so a flaky catalog is not hammered on every call.
type MetadataCache struct {
	client *Client
	ttl    time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]map[string]string
	loaded  map[string]time.Time
	now     func() time.Time
}

// NewMetadataCache creates a cache over the client's type listings.
// A non-positive ttl falls back to DefaultCacheTTL.
func NewMetadataCache(client *Client, ttl time.Duration) *MetadataCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MetadataCache{
		client:  client,
		ttl:     ttl,
		logger:  client.logger,
		entries: make(map[string]map[string]string),
		loaded:  make(map[string]time.Time),
		now:     time.Now,
	}
}

// AssetTypeID returns the UUID of the asset type with the given name.
func (c *MetadataCache) AssetTypeID(ctx context.Context, name string) (string, bool) {
	return c.lookup(ctx, catAssetTypes, name)
}

// RelationTypeID returns the UUID of the relation type with the given role.
func (c *MetadataCache) RelationTypeID(ctx context.Context, role string) (string, bool) {
	return c.lookup(ctx, catRelationTypes, role)
}

// StatusID returns the UUID of the status with the given name.
func (c *MetadataCache) StatusID(ctx context.Context, name string) (string, bool) {
	return c.lookup(ctx, catStatuses, name)
}

// AttributeTypeID returns the UUID of the attribute type with the given name.
func (c *MetadataCache) AttributeTypeID(ctx context.Context, name string) (string, bool) {
	return c.lookup(ctx, catAttributeTypes, name)
}

// DomainTypeID returns the UUID of the domain type with the given name.
func (c *MetadataCache) DomainTypeID(ctx context.Context, name string) (string, bool) {
	return c.lookup(ctx, catDomainTypes, name)
}

// RoleID returns the UUID of the responsibility role with the given name.
func (c *MetadataCache) RoleID(ctx context.Context, name string) (string, bool) {
	return c.lookup(ctx, catRoles, name)
}

// Clear drops all cached categories.
func (c *MetadataCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]string)
	c.loaded = make(map[string]time.Time)
}

// RefreshAll force-populates every category.
func (c *MetadataCache) RefreshAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cat := range []string{
		catAssetTypes, catRelationTypes, catStatuses,
		catAttributeTypes, catDomainTypes, catRoles,
	} {
		c.refreshLocked(ctx, cat)
	}
}

func (c *MetadataCache) lookup(ctx context.Context, category, name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	loadedAt, ok := c.loaded[category]
	if !ok || c.now().Sub(loadedAt) > c.ttl {
		c.refreshLocked(ctx, category)
	}
	id, ok := c.entries[category][name]
	return id, ok
}

// refreshLocked repopulates one category. The caller holds c.mu.
func (c *MetadataCache) refreshLocked(ctx context.Context, category string) {
	fresh, err := c.fetchCategory(ctx, category)
	if err != nil {
		c.logger.Debug("metadata refresh failed", "category", category, "error", err)
		fresh = map[string]string{}
	}
	c.entries[category] = fresh
	c.loaded[category] = c.now()
}

func (c *MetadataCache) fetchCategory(ctx context.Context, category string) (map[string]string, error) {
	out := map[string]string{}
	switch category {
	case catAssetTypes:
		p := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[AssetType], error) {
			return c.client.Types.AssetTypes(ctx, FindTypesOptions{Offset: offset, Limit: limit})
		}, snapshotPageSize)
		return out, p.Each(ctx, func(t AssetType) error { out[t.Name] = t.ID; return nil })
	case catRelationTypes:
		p := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[RelationType], error) {
			return c.client.Types.RelationTypes(ctx, FindRelationTypesOptions{Offset: offset, Limit: limit})
		}, snapshotPageSize)
		return out, p.Each(ctx, func(t RelationType) error {
			if t.Role != "" {
				out[t.Role] = t.ID
			}
			return nil
		})
	case catStatuses:
		p := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[Status], error) {
			return c.client.Types.Statuses(ctx, FindTypesOptions{Offset: offset, Limit: limit})
		}, snapshotPageSize)
		return out, p.Each(ctx, func(t Status) error { out[t.Name] = t.ID; return nil })
	case catAttributeTypes:
		p := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[AttributeType], error) {
			return c.client.Types.AttributeTypes(ctx, FindTypesOptions{Offset: offset, Limit: limit})
		}, snapshotPageSize)
		return out, p.Each(ctx, func(t AttributeType) error { out[t.Name] = t.ID; return nil })
	case catDomainTypes:
		p := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[DomainType], error) {
			return c.client.Types.DomainTypes(ctx, FindTypesOptions{Offset: offset, Limit: limit})
		}, snapshotPageSize)
		return out, p.Each(ctx, func(t DomainType) error { out[t.Name] = t.ID; return nil })
	case catRoles:
		p := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[Role], error) {
			return c.client.Types.Roles(ctx, FindTypesOptions{Offset: offset, Limit: limit})
		}, snapshotPageSize)
		return out, p.Each(ctx, func(t Role) error { out[t.Name] = t.ID; return nil })
	}
	return out, nil
}
