package flow

import (
	"context"

	"golang.org/x/oauth2"
)

// HeadlessFlow is used where no operator can complete an authorization.
type HeadlessFlow struct{}

func (s *HeadlessFlow) Token(ctx context.Context, config *oauth2.Config, options ...Option) (*oauth2.Token, error) {
	return nil, ErrInteractiveUnavailable
}

func NewHeadlessFlow() *HeadlessFlow {
	return &HeadlessFlow{}
}
