package api

import (
	"context"
	"net/http"
)

// UserReader reads the authenticated user profile.
type UserReader interface {
	Me(ctx context.Context) (*UserResponse, error)
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type UserResponse struct {
	Data User `json:"data"`
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*UserResponse, error) {
	ret := &UserResponse{}
	if err := c.do(ctx, http.MethodGet, "/2/users/me", nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

var (
	_ Tweeter    = (*Client)(nil)
	_ UserReader = (*Client)(nil)
)
