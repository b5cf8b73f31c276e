package dgc

import (
	"context"
	"fmt"
)

// SearchService wraps the POST /search endpoint.
type SearchService struct {
	client *Client
}

// Search runs a full-text search across the catalog.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*Page[SearchResult], error) {
	if req.Keywords == "" {
		return nil, fmt.Errorf("dgc: search keywords are required")
	}
	var page Page[SearchResult]
	if err := s.client.post(ctx, "/search", req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
