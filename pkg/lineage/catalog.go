package lineage

import (
	"context"

	"github.com/glossarium/dgc/pkg/dgc"
)

// Catalog is the slice of a governance catalog the lineage builder needs.
// *dgc.Client satisfies it through ClientCatalog; tests supply their own.
type Catalog interface {
	// CreateAsset creates an asset and returns its id.
	CreateAsset(ctx context.Context, req dgc.CreateAssetRequest) (string, error)
	// SetAssetAttribute sets one attribute value on an asset.
	SetAssetAttribute(ctx context.Context, assetID, attributeTypeID string, value any) error
	// CreateRelation creates a typed relation and returns its id.
	CreateRelation(ctx context.Context, req dgc.CreateRelationRequest) (string, error)
	// FindAssetTypeID resolves an asset type name to its id. An empty id
	// with a nil error means the type does not exist.
	FindAssetTypeID(ctx context.Context, name string) (string, error)
	// FindRelationTypeID resolves a relation role to its type id. An empty
	// id with a nil error means the role does not exist.
	FindRelationTypeID(ctx context.Context, role string) (string, error)
}

// ClientCatalog adapts a *dgc.Client to the Catalog interface.
type ClientCatalog struct {
	client *dgc.Client
}

// NewClientCatalog wraps client as a Catalog.
func NewClientCatalog(client *dgc.Client) *ClientCatalog {
	return &ClientCatalog{client: client}
}

// CreateAsset implements Catalog.
func (c *ClientCatalog) CreateAsset(ctx context.Context, req dgc.CreateAssetRequest) (string, error) {
	asset, err := c.client.Assets.Create(ctx, req)
	if err != nil {
		return "", err
	}
	return asset.ID, nil
}

// SetAssetAttribute implements Catalog.
func (c *ClientCatalog) SetAssetAttribute(ctx context.Context, assetID, attributeTypeID string, value any) error {
	return c.client.Assets.SetAttribute(ctx, assetID, attributeTypeID, []any{value})
}

// CreateRelation implements Catalog.
func (c *ClientCatalog) CreateRelation(ctx context.Context, req dgc.CreateRelationRequest) (string, error) {
	rel, err := c.client.Relations.Create(ctx, req)
	if err != nil {
		return "", err
	}
	return rel.ID, nil
}

// FindAssetTypeID implements Catalog.
func (c *ClientCatalog) FindAssetTypeID(ctx context.Context, name string) (string, error) {
	page, err := c.client.Types.AssetTypes(ctx, dgc.FindTypesOptions{Name: name, Limit: 1})
	if err != nil {
		return "", err
	}
	if len(page.Results) == 0 {
		return "", nil
	}
	return page.Results[0].ID, nil
}

// FindRelationTypeID implements Catalog.
func (c *ClientCatalog) FindRelationTypeID(ctx context.Context, role string) (string, error) {
	page, err := c.client.Types.RelationTypes(ctx, dgc.FindRelationTypesOptions{Role: role, Limit: 1})
	if err != nil {
		return "", err
	}
	if len(page.Results) == 0 {
		return "", nil
	}
	return page.Results[0].ID, nil
}
