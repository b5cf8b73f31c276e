// Package dgctest provides an in-memory governance catalog served over
// HTTP for tests. The server speaks the same REST 2.0 surface the client
// consumes, ships with the usual type fixtures preloaded, records every
// request, and can be told to fail on demand.
package dgctest

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/glossarium/dgc/pkg/dgc"
)

// Store is the in-memory state behind a Server. All methods are safe for
// concurrent use.
type Store struct {
	mu sync.Mutex

	assets      map[string]*dgc.Asset
	assetOrder  []string
	relations   map[string]*dgc.Relation
	relOrder    []string
	attributes  map[string][]dgc.Attribute // keyed by asset id
	domains     map[string]*dgc.Domain
	domOrder    []string
	communities map[string]*dgc.Community
	comOrder    []string

	assetTypes     []dgc.AssetType
	relationTypes  []dgc.RelationType
	statuses       []dgc.Status
	attributeTypes []dgc.AttributeType
	domainTypes    []dgc.DomainType
	roles          []dgc.Role
	users          []dgc.User
}

// NewStore creates a store preloaded with the default fixtures: the common
// asset and relation types, statuses, a root community, and one domain.
func NewStore() *Store {
	s := &Store{
		assets:      make(map[string]*dgc.Asset),
		relations:   make(map[string]*dgc.Relation),
		attributes:  make(map[string][]dgc.Attribute),
		domains:     make(map[string]*dgc.Domain),
		communities: make(map[string]*dgc.Community),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	for _, name := range []string{
		"Data Asset", "Table", "Column", "Schema", "Database",
		"Data Pipeline", "Report", "Dashboard", "Business Term", "File",
	} {
		s.assetTypes = append(s.assetTypes, dgc.AssetType{
			ID:       uuid.NewString(),
			Name:     name,
			PublicID: strings.ReplaceAll(name, " ", ""),
		})
	}

	pairs := []struct{ role, coRole string }{
		{"is source for", "has source"},
		{"is target for", "has target"},
		{"transforms", "is transformed by"},
		{"is derived from", "derives"},
		{"contains", "is part of"},
		{"uses", "is used by"},
		{"produces", "is produced by"},
	}
	for _, p := range pairs {
		s.relationTypes = append(s.relationTypes, dgc.RelationType{
			ID:     uuid.NewString(),
			Role:   p.role,
			CoRole: p.coRole,
		})
	}

	for _, name := range []string{"Candidate", "Accepted", "Under Review", "Approved", "Obsolete"} {
		s.statuses = append(s.statuses, dgc.Status{ID: uuid.NewString(), Name: name})
	}
	for _, name := range []string{"Description", "Definition", "Source System", "Row Count"} {
		s.attributeTypes = append(s.attributeTypes, dgc.AttributeType{
			ID:       uuid.NewString(),
			Name:     name,
			PublicID: strings.ReplaceAll(name, " ", ""),
			Kind:     "STRING",
		})
	}
	for _, name := range []string{"Glossary", "Data Asset Domain", "Physical Data Dictionary"} {
		s.domainTypes = append(s.domainTypes, dgc.DomainType{ID: uuid.NewString(), Name: name})
	}
	for _, name := range []string{"Owner", "Steward", "Stakeholder"} {
		s.roles = append(s.roles, dgc.Role{ID: uuid.NewString(), Name: name})
	}

	community := &dgc.Community{ID: uuid.NewString(), Name: "Data Office"}
	s.communities[community.ID] = community
	s.comOrder = append(s.comOrder, community.ID)

	domain := &dgc.Domain{
		ID:        uuid.NewString(),
		Name:      "Default Domain",
		Community: &dgc.Ref{ID: community.ID, Name: community.Name},
	}
	s.domains[domain.ID] = domain
	s.domOrder = append(s.domOrder, domain.ID)

	s.users = []dgc.User{{
		ID:       uuid.NewString(),
		UserName: "admin",
		Email:    "admin@example.com",
	}}
}

// DefaultDomainID returns the preloaded domain's id.
func (s *Store) DefaultDomainID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domOrder[0]
}

// DefaultCommunityID returns the preloaded community's id.
func (s *Store) DefaultCommunityID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comOrder[0]
}

// AssetTypeID returns the id of the fixture asset type with the given
// name, or "".
func (s *Store) AssetTypeID(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.assetTypes {
		if t.Name == name {
			return t.ID
		}
	}
	return ""
}

// RelationTypeID returns the id of the fixture relation type with the
// given role, or "".
func (s *Store) RelationTypeID(role string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.relationTypes {
		if t.Role == role {
			return t.ID
		}
	}
	return ""
}

// StatusID returns the id of the fixture status with the given name, or "".
func (s *Store) StatusID(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.statuses {
		if st.Name == name {
			return st.ID
		}
	}
	return ""
}

// AddAssetType registers an extra asset type and returns its id.
func (s *Store) AddAssetType(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := dgc.AssetType{ID: uuid.NewString(), Name: name}
	s.assetTypes = append(s.assetTypes, t)
	return t.ID
}

// AddRelationType registers an extra relation type and returns its id.
func (s *Store) AddRelationType(role, coRole string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := dgc.RelationType{ID: uuid.NewString(), Role: role, CoRole: coRole}
	s.relationTypes = append(s.relationTypes, t)
	return t.ID
}

// AddAsset inserts an asset directly, bypassing the HTTP surface.
func (s *Store) AddAsset(asset dgc.Asset) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	s.assets[asset.ID] = &asset
	s.assetOrder = append(s.assetOrder, asset.ID)
	return asset.ID
}

// Asset returns a copy of the stored asset, if present.
func (s *Store) Asset(id string) (dgc.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok {
		return dgc.Asset{}, false
	}
	return *a, true
}

// Relation returns a copy of the stored relation, if present.
func (s *Store) Relation(id string) (dgc.Relation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.relations[id]
	if !ok {
		return dgc.Relation{}, false
	}
	return *r, true
}

// Assets returns all assets in creation order.
func (s *Store) Assets() []dgc.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dgc.Asset, 0, len(s.assetOrder))
	for _, id := range s.assetOrder {
		out = append(out, *s.assets[id])
	}
	return out
}

// Relations returns all relations in creation order.
func (s *Store) Relations() []dgc.Relation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dgc.Relation, 0, len(s.relOrder))
	for _, id := range s.relOrder {
		out = append(out, *s.relations[id])
	}
	return out
}

// AssetAttributes returns the attributes set on an asset.
func (s *Store) AssetAttributes(assetID string) []dgc.Attribute {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dgc.Attribute, len(s.attributes[assetID]))
	copy(out, s.attributes[assetID])
	return out
}

// Reset drops all assets and relations created through the API while
// keeping the type fixtures and the default domain.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = make(map[string]*dgc.Asset)
	s.assetOrder = nil
	s.relations = make(map[string]*dgc.Relation)
	s.relOrder = nil
	s.attributes = make(map[string][]dgc.Attribute)
}

func paginate[T any](items []T, offset, limit int) dgc.Page[T] {
	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return dgc.Page[T]{
		Results: items[offset:end],
		Total:   total,
		Offset:  offset,
		Limit:   limit,
	}
}
