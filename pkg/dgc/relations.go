package dgc

import (
	"context"
	"fmt"
)

// RelationsService wraps the /relations endpoints.
type RelationsService struct {
	client *Client
}

// Create adds a new relation between two assets.
func (s *RelationsService) Create(ctx context.Context, req CreateRelationRequest) (*Relation, error) {
	if err := requireUUID("source id", req.SourceID); err != nil {
		return nil, err
	}
	if err := requireUUID("target id", req.TargetID); err != nil {
		return nil, err
	}
	if err := optionalUUID("type id", req.TypeID); err != nil {
		return nil, err
	}
	if req.StartingDate < 0 || req.EndingDate < 0 {
		return nil, fmt.Errorf("dgc: relation dates must not be negative")
	}
	var rel Relation
	if err := s.client.post(ctx, "/relations", req, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// Get retrieves a relation by its UUID.
func (s *RelationsService) Get(ctx context.Context, relationID string) (*Relation, error) {
	if err := requireUUID("relation id", relationID); err != nil {
		return nil, err
	}
	var rel Relation
	if err := s.client.get(ctx, "/relations/"+relationID, nil, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// Update patches an existing relation. Only non-zero fields are applied.
func (s *RelationsService) Update(ctx context.Context, req UpdateRelationRequest) (*Relation, error) {
	if err := requireUUID("relation id", req.ID); err != nil {
		return nil, err
	}
	if err := optionalUUID("source id", req.SourceID); err != nil {
		return nil, err
	}
	if err := optionalUUID("target id", req.TargetID); err != nil {
		return nil, err
	}
	if req.StartingDate < 0 || req.EndingDate < 0 {
		return nil, fmt.Errorf("dgc: relation dates must not be negative")
	}
	var rel Relation
	if err := s.client.patch(ctx, "/relations/"+req.ID, req, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// Delete removes a relation.
func (s *RelationsService) Delete(ctx context.Context, relationID string) error {
	if err := requireUUID("relation id", relationID); err != nil {
		return err
	}
	return s.client.delete(ctx, "/relations/"+relationID)
}
