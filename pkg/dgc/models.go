package dgc

// Typed request and response payloads for the catalog's REST 2.0 API.
// Field presence is encoded with omitempty rather than conditionally-built
// maps, so requests always carry exactly the parameters that were set.

// Ref is a lightweight reference to another resource.
type Ref struct {
	ID           string `json:"id"`
	ResourceType string `json:"resourceType,omitempty"`
	Name         string `json:"name,omitempty"`
}

// Asset is a catalog asset.
type Asset struct {
	ID             string `json:"id"`
	ResourceType   string `json:"resourceType,omitempty"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName,omitempty"`
	Description    string `json:"description,omitempty"`
	Type           *Ref   `json:"type,omitempty"`
	Status         *Ref   `json:"status,omitempty"`
	Domain         *Ref   `json:"domain,omitempty"`
	CreatedOn      int64  `json:"createdOn,omitempty"`
	LastModifiedOn int64  `json:"lastModifiedOn,omitempty"`
}

// CreateAssetRequest is the payload for creating an asset.
type CreateAssetRequest struct {
	Name        string `json:"name"`
	DomainID    string `json:"domainId"`
	DisplayName string `json:"displayName,omitempty"`
	TypeID      string `json:"typeId,omitempty"`
	// TypePublicID may be used instead of TypeID.
	TypePublicID string `json:"typePublicId,omitempty"`
	ID           string `json:"id,omitempty"`
	StatusID     string `json:"statusId,omitempty"`
	// ExcludedFromAutoHyperlink mirrors the catalog's hyperlinking toggle.
	ExcludedFromAutoHyperlink bool `json:"excludedFromAutoHyperlink,omitempty"`
}

// FindAssetsOptions filters asset listings.
type FindAssetsOptions struct {
	Name        string
	NameMatch   string // EXACT, START, END, ANYWHERE
	DomainID    string
	CommunityID string
	TypeIDs     []string
	StatusIDs   []string
	Offset      int
	Limit       int
}

// SetAttributeRequest assigns attribute values to an asset.
type SetAttributeRequest struct {
	TypePublicID string `json:"typePublicId,omitempty"`
	TypeID       string `json:"typeId,omitempty"`
	Values       []any  `json:"values"`
}

// Relation is a directed, typed link between two assets.
type Relation struct {
	ID           string `json:"id"`
	ResourceType string `json:"resourceType,omitempty"`
	Source       *Ref   `json:"source,omitempty"`
	Target       *Ref   `json:"target,omitempty"`
	Type         *Ref   `json:"type,omitempty"`
	CreatedOn    int64  `json:"createdOn,omitempty"`
}

// CreateRelationRequest is the payload for creating a relation.
type CreateRelationRequest struct {
	SourceID     string `json:"sourceId"`
	TargetID     string `json:"targetId"`
	TypeID       string `json:"typeId,omitempty"`
	TypePublicID string `json:"typePublicId,omitempty"`
	StartingDate int64  `json:"startingDate,omitempty"`
	EndingDate   int64  `json:"endingDate,omitempty"`
}

// UpdateRelationRequest patches an existing relation. Only non-empty fields
// are applied by the catalog.
type UpdateRelationRequest struct {
	ID           string `json:"id"`
	SourceID     string `json:"sourceId,omitempty"`
	TargetID     string `json:"targetId,omitempty"`
	StartingDate int64  `json:"startingDate,omitempty"`
	EndingDate   int64  `json:"endingDate,omitempty"`
}

// Domain is a container for assets inside a community.
type Domain struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        *Ref   `json:"type,omitempty"`
	Community   *Ref   `json:"community,omitempty"`
	CreatedOn   int64  `json:"createdOn,omitempty"`
}

// CreateDomainRequest is the payload for creating a domain.
type CreateDomainRequest struct {
	Name        string `json:"name"`
	CommunityID string `json:"communityId"`
	TypeID      string `json:"typeId,omitempty"`
	Description string `json:"description,omitempty"`
}

// Community is a top-level organizational unit.
type Community struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parent      *Ref   `json:"parent,omitempty"`
	CreatedOn   int64  `json:"createdOn,omitempty"`
}

// CreateCommunityRequest is the payload for creating a community.
type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
}

// Attribute is a single attribute value attached to an asset.
type Attribute struct {
	ID    string `json:"id"`
	Asset *Ref   `json:"asset,omitempty"`
	Type  *Ref   `json:"type,omitempty"`
	Value any    `json:"value,omitempty"`
}

// AssetType describes a kind of asset ("Table", "Data Pipeline", ...).
type AssetType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PublicID    string `json:"publicId,omitempty"`
	Description string `json:"description,omitempty"`
}

// RelationType describes a kind of relation, identified by its role string
// ("is source for") and the asset types it connects.
type RelationType struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	CoRole     string `json:"coRole,omitempty"`
	SourceType *Ref   `json:"sourceType,omitempty"`
	TargetType *Ref   `json:"targetType,omitempty"`
}

// Status is an asset lifecycle status ("Candidate", "Approved", ...).
type Status struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AttributeType describes an attribute definition ("Description", ...).
type AttributeType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PublicID    string `json:"publicId,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
}

// DomainType describes a kind of domain ("Glossary", "Data Asset Domain").
type DomainType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Role is a responsibility role ("Owner", "Steward").
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User is a catalog user account.
type User struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"emailAddress,omitempty"`
}

// SearchRequest is the payload for POST /search.
type SearchRequest struct {
	Keywords string         `json:"keywords"`
	Filters  []SearchFilter `json:"filters,omitempty"`
	Offset   int            `json:"offset,omitempty"`
	Limit    int            `json:"limit,omitempty"`
}

// SearchFilter narrows a search to specific resource categories.
type SearchFilter struct {
	Category string   `json:"category,omitempty"`
	TypeIDs  []string `json:"typeIds,omitempty"`
}

// SearchResult is one hit from POST /search.
type SearchResult struct {
	Resource Ref     `json:"resource"`
	Score    float64 `json:"score,omitempty"`
}

// MetadataSnapshot maps human-readable names to UUIDs across the catalog's
// type-level resources. Relation types are keyed by role.
type MetadataSnapshot struct {
	AssetTypes     map[string]string
	RelationTypes  map[string]string
	Statuses       map[string]string
	AttributeTypes map[string]string
	DomainTypes    map[string]string
	Roles          map[string]string
	Communities    map[string]string
	Domains        map[string]string
}
