package dgc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CommunitiesService wraps the /communities endpoints.
type CommunitiesService struct {
	client *Client
}

// Get retrieves a community by its UUID.
func (s *CommunitiesService) Get(ctx context.Context, communityID string) (*Community, error) {
	if err := requireUUID("community id", communityID); err != nil {
		return nil, err
	}
	var c Community
	if err := s.client.get(ctx, "/communities/"+communityID, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create adds a new community.
func (s *CommunitiesService) Create(ctx context.Context, req CreateCommunityRequest) (*Community, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("dgc: community name is required")
	}
	if err := optionalUUID("parent id", req.ParentID); err != nil {
		return nil, err
	}
	var c Community
	if err := s.client.post(ctx, "/communities", req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCommunitiesOptions filters community listings.
type FindCommunitiesOptions struct {
	Name   string
	Offset int
	Limit  int
}

// Find lists communities matching the given filters.
func (s *CommunitiesService) Find(ctx context.Context, opts FindCommunitiesOptions) (*Page[Community], error) {
	q := url.Values{}
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	var page Page[Community]
	if err := s.client.get(ctx, "/communities", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
