package api

import (
	"context"
	"net/http"
)

// Tweeter publishes posts.
type Tweeter interface {
	Tweet(ctx context.Context, text string) (*TweetResponse, error)
}

type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type TweetResponse struct {
	Data Tweet `json:"data"`
}

// Tweet publishes text as the authenticated user.
func (c *Client) Tweet(ctx context.Context, text string) (*TweetResponse, error) {
	ret := &TweetResponse{}
	if err := c.do(ctx, http.MethodPost, "/2/tweets", map[string]string{"text": text}, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
