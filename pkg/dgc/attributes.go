package dgc

import (
	"context"
	"net/url"
)

// AttributesService wraps the /attributes endpoints.
type AttributesService struct {
	client *Client
}

// Get retrieves a single attribute by its UUID.
func (s *AttributesService) Get(ctx context.Context, attributeID string) (*Attribute, error) {
	if err := requireUUID("attribute id", attributeID); err != nil {
		return nil, err
	}
	var a Attribute
	if err := s.client.get(ctx, "/attributes/"+attributeID, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ForAsset lists all attributes attached to an asset.
func (s *AttributesService) ForAsset(ctx context.Context, assetID string) ([]Attribute, error) {
	if err := requireUUID("asset id", assetID); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("assetId", assetID)
	var page Page[Attribute]
	if err := s.client.get(ctx, "/attributes", q, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// AsMap returns an asset's attributes keyed by attribute type name.
// Repeated types collapse to the last value, matching the flat profile
// shape most callers want.
func (s *AttributesService) AsMap(ctx context.Context, assetID string) (map[string]any, error) {
	attrs, err := s.ForAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(attrs))
	for _, a := range attrs {
		if a.Type != nil && a.Type.Name != "" {
			out[a.Type.Name] = a.Value
		}
	}
	return out, nil
}
