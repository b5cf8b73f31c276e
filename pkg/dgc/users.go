package dgc

import (
	"context"
	"net/url"
	"strconv"
)

// UsersService wraps the /users endpoints.
type UsersService struct {
	client *Client
}

// Get retrieves a user by UUID.
func (s *UsersService) Get(ctx context.Context, userID string) (*User, error) {
	if err := requireUUID("user id", userID); err != nil {
		return nil, err
	}
	var u User
	if err := s.client.get(ctx, "/users/"+userID, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Current retrieves the authenticated user.
func (s *UsersService) Current(ctx context.Context) (*User, error) {
	var u User
	if err := s.client.get(ctx, "/users/current", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUsersOptions filters user listings.
type FindUsersOptions struct {
	Name   string
	Offset int
	Limit  int
}

// Find lists users matching the given filters.
func (s *UsersService) Find(ctx context.Context, opts FindUsersOptions) (*Page[User], error) {
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
	var page Page[User]
	if err := s.client.get(ctx, "/users", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
