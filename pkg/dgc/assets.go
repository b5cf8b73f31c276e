package dgc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// AssetsService wraps the /assets endpoints.
type AssetsService struct {
	client *Client
}

// Get retrieves an asset by its UUID.
func (s *AssetsService) Get(ctx context.Context, assetID string) (*Asset, error) {
	if err := requireUUID("asset id", assetID); err != nil {
		return nil, err
	}
	var asset Asset
	if err := s.client.get(ctx, "/assets/"+assetID, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// Create adds a new asset to a domain.
func (s *AssetsService) Create(ctx context.Context, req CreateAssetRequest) (*Asset, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("dgc: asset name is required")
	}
	if err := requireUUID("domain id", req.DomainID); err != nil {
		return nil, err
	}
	if err := optionalUUID("type id", req.TypeID); err != nil {
		return nil, err
	}
	if err := optionalUUID("status id", req.StatusID); err != nil {
		return nil, err
	}
	if err := optionalUUID("asset id", req.ID); err != nil {
		return nil, err
	}
	var asset Asset
	if err := s.client.post(ctx, "/assets", req, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// Find lists assets matching the given filters, one page at a time.
func (s *AssetsService) Find(ctx context.Context, opts FindAssetsOptions) (*Page[Asset], error) {
	if err := optionalUUID("domain id", opts.DomainID); err != nil {
		return nil, err
	}
	if err := optionalUUID("community id", opts.CommunityID); err != nil {
		return nil, err
	}

	q := url.Values{}
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	if opts.NameMatch != "" {
		q.Set("nameMatchMode", opts.NameMatch)
	}
	if opts.DomainID != "" {
		q.Set("domainId", opts.DomainID)
	}
	if opts.CommunityID != "" {
		q.Set("communityId", opts.CommunityID)
	}
	if len(opts.TypeIDs) > 0 {
		q.Set("typeIds", strings.Join(opts.TypeIDs, ","))
	}
	if len(opts.StatusIDs) > 0 {
		q.Set("statusIds", strings.Join(opts.StatusIDs, ","))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	var page Page[Asset]
	if err := s.client.get(ctx, "/assets", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Paginate returns a Paginator over all assets matching opts. The Offset
// and Limit fields of opts are managed by the paginator.
func (s *AssetsService) Paginate(ctx context.Context, opts FindAssetsOptions, pageSize int) *Paginator[Asset] {
	return NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[Asset], error) {
		o := opts
		o.Offset = offset
		o.Limit = limit
		return s.Find(ctx, o)
	}, pageSize)
}

// SetAttribute assigns values to one attribute type on an asset, replacing
// any existing values of that type.
func (s *AssetsService) SetAttribute(ctx context.Context, assetID, typePublicID string, values []any) error {
	if err := requireUUID("asset id", assetID); err != nil {
		return err
	}
	if typePublicID == "" {
		return fmt.Errorf("dgc: attribute type public id is required")
	}
	if len(values) == 0 {
		return fmt.Errorf("dgc: attribute values are required")
	}
	req := SetAttributeRequest{TypePublicID: typePublicID, Values: values}
	return s.client.put(ctx, "/assets/"+assetID+"/attributes", req, nil)
}

// Delete removes an asset.
func (s *AssetsService) Delete(ctx context.Context, assetID string) error {
	if err := requireUUID("asset id", assetID); err != nil {
		return err
	}
	return s.client.delete(ctx, "/assets/"+assetID)
}
