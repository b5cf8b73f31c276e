package dgc

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// TypesService wraps the catalog's type-level listings: asset types,
// relation types, statuses, attribute types, domain types, and roles.
type TypesService struct {
	client *Client
}

// FindTypesOptions filters type listings by name and page window.
type FindTypesOptions struct {
	Name   string
	Offset int
	Limit  int
}

func (o FindTypesOptions) query() url.Values {
	q := url.Values{}
	if o.Name != "" {
		q.Set("name", o.Name)
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// AssetTypes lists asset types, optionally filtered by name.
func (s *TypesService) AssetTypes(ctx context.Context, opts FindTypesOptions) (*Page[AssetType], error) {
	var page Page[AssetType]
	if err := s.client.get(ctx, "/assetTypes", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FindRelationTypesOptions filters relation type listings by role.
type FindRelationTypesOptions struct {
	Role   string
	CoRole string
	Offset int
	Limit  int
}

// RelationTypes lists relation types, optionally filtered by role.
func (s *TypesService) RelationTypes(ctx context.Context, opts FindRelationTypesOptions) (*Page[RelationType], error) {
	q := url.Values{}
	if opts.Role != "" {
		q.Set("role", opts.Role)
	}
	if opts.CoRole != "" {
		q.Set("coRole", opts.CoRole)
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	var page Page[RelationType]
	if err := s.client.get(ctx, "/relationTypes", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Statuses lists asset statuses.
func (s *TypesService) Statuses(ctx context.Context, opts FindTypesOptions) (*Page[Status], error) {
	var page Page[Status]
	if err := s.client.get(ctx, "/statuses", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AttributeTypes lists attribute type definitions.
func (s *TypesService) AttributeTypes(ctx context.Context, opts FindTypesOptions) (*Page[AttributeType], error) {
	var page Page[AttributeType]
	if err := s.client.get(ctx, "/attributeTypes", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DomainTypes lists domain type definitions.
func (s *TypesService) DomainTypes(ctx context.Context, opts FindTypesOptions) (*Page[DomainType], error) {
	var page Page[DomainType]
	if err := s.client.get(ctx, "/domainTypes", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Roles lists responsibility roles.
func (s *TypesService) Roles(ctx context.Context, opts FindTypesOptions) (*Page[Role], error) {
	var page Page[Role]
	if err := s.client.get(ctx, "/roles", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// snapshotPageSize is the page size used when walking full listings for a
// metadata snapshot.
const snapshotPageSize = 1000

// Snapshot walks every type-level listing and returns a complete name→UUID
// mapping. Relation types are keyed by "{SourceType}_{TargetType}" with
// spaces stripped, and additionally by role when the role is unambiguous.
func (s *TypesService) Snapshot(ctx context.Context) (*MetadataSnapshot, error) {
	snap := &MetadataSnapshot{
		AssetTypes:     map[string]string{},
		RelationTypes:  map[string]string{},
		Statuses:       map[string]string{},
		AttributeTypes: map[string]string{},
		DomainTypes:    map[string]string{},
		Roles:          map[string]string{},
		Communities:    map[string]string{},
		Domains:        map[string]string{},
	}

	assetTypes := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[AssetType], error) {
		return s.AssetTypes(ctx, FindTypesOptions{Offset: offset, Limit: limit})
	}, snapshotPageSize)
	if err := assetTypes.Each(ctx, func(t AssetType) error {
		snap.AssetTypes[t.Name] = t.ID
		return nil
	}); err != nil {
		return nil, err
	}

	relationTypes := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[RelationType], error) {
		return s.RelationTypes(ctx, FindRelationTypesOptions{Offset: offset, Limit: limit})
	}, snapshotPageSize)
	if err := relationTypes.Each(ctx, func(t RelationType) error {
		if t.SourceType != nil && t.TargetType != nil {
			key := collapseSpaces(t.SourceType.Name) + "_" + collapseSpaces(t.TargetType.Name)
			snap.RelationTypes[key] = t.ID
		}
		if t.Role != "" {
			if _, seen := snap.RelationTypes[t.Role]; !seen {
				snap.RelationTypes[t.Role] = t.ID
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	statuses := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[Status], error) {
		return s.Statuses(ctx, FindTypesOptions{Offset: offset, Limit: limit})
	}, snapshotPageSize)
	if err := statuses.Each(ctx, func(t Status) error {
		snap.Statuses[t.Name] = t.ID
		return nil
	}); err != nil {
		return nil, err
	}

	attributeTypes := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[AttributeType], error) {
		return s.AttributeTypes(ctx, FindTypesOptions{Offset: offset, Limit: limit})
	}, snapshotPageSize)
	if err := attributeTypes.Each(ctx, func(t AttributeType) error {
		snap.AttributeTypes[t.Name] = t.ID
		return nil
	}); err != nil {
		return nil, err
	}

	domainTypes := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[DomainType], error) {
		return s.DomainTypes(ctx, FindTypesOptions{Offset: offset, Limit: limit})
	}, snapshotPageSize)
	if err := domainTypes.Each(ctx, func(t DomainType) error {
		snap.DomainTypes[t.Name] = t.ID
		return nil
	}); err != nil {
		return nil, err
	}

	roles := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[Role], error) {
		return s.Roles(ctx, FindTypesOptions{Offset: offset, Limit: limit})
	}, snapshotPageSize)
	if err := roles.Each(ctx, func(t Role) error {
		snap.Roles[t.Name] = t.ID
		return nil
	}); err != nil {
		return nil, err
	}

	communities := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[Community], error) {
		return s.client.Communities.Find(ctx, FindCommunitiesOptions{Offset: offset, Limit: limit})
	}, snapshotPageSize)
	if err := communities.Each(ctx, func(c Community) error {
		snap.Communities[c.Name] = c.ID
		return nil
	}); err != nil {
		return nil, err
	}

	domains := NewPaginator(func(ctx context.Context, offset int, _ string, limit int) (*Page[Domain], error) {
		return s.client.Domains.Find(ctx, FindDomainsOptions{Offset: offset, Limit: limit})
	}, snapshotPageSize)
	if err := domains.Each(ctx, func(d Domain) error {
		snap.Domains[d.Name] = d.ID
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

func collapseSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
