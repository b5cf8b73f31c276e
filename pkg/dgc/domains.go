package dgc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DomainsService wraps the /domains endpoints.
type DomainsService struct {
	client *Client
}

// Get retrieves a domain by its UUID.
func (s *DomainsService) Get(ctx context.Context, domainID string) (*Domain, error) {
	if err := requireUUID("domain id", domainID); err != nil {
		return nil, err
	}
	var d Domain
	if err := s.client.get(ctx, "/domains/"+domainID, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create adds a new domain to a community.
func (s *DomainsService) Create(ctx context.Context, req CreateDomainRequest) (*Domain, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("dgc: domain name is required")
	}
	if err := requireUUID("community id", req.CommunityID); err != nil {
		return nil, err
	}
	if err := optionalUUID("type id", req.TypeID); err != nil {
		return nil, err
	}
	var d Domain
	if err := s.client.post(ctx, "/domains", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindDomainsOptions filters domain listings.
type FindDomainsOptions struct {
	Name        string
	CommunityID string
	Offset      int
	Limit       int
}

// Find lists domains matching the given filters.
func (s *DomainsService) Find(ctx context.Context, opts FindDomainsOptions) (*Page[Domain], error) {
	if err := optionalUUID("community id", opts.CommunityID); err != nil {
		return nil, err
	}
	q := url.Values{}
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	if opts.CommunityID != "" {
		q.Set("communityId", opts.CommunityID)
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	var page Page[Domain]
	if err := s.client.get(ctx, "/domains", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
