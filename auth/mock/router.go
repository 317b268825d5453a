package mock

import (
	"net/http"
)

// Handler routes HTTP requests to the appropriate mock endpoints.
type Handler struct {
	Server *AuthorizationService
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/2/oauth2/token":
		if h.Server.TokenHandler != nil {
			h.Server.TokenHandler(w, r)
		} else {
			h.Server.defaultTokenHandler(w, r)
		}
	case "/i/oauth2/authorize":
		if h.Server.AuthorizeHandler != nil {
			h.Server.AuthorizeHandler(w, r)
		} else {
			h.Server.defaultAuthorizeHandler(w, r)
		}
	case "/2/tweets":
		h.Server.apiCalls.Add(1)
		if h.Server.TweetsHandler != nil {
			h.Server.TweetsHandler(w, r)
		} else {
			h.Server.defaultTweetsHandler(w, r)
		}
	case "/2/users/me":
		h.Server.apiCalls.Add(1)
		if h.Server.MeHandler != nil {
			h.Server.MeHandler(w, r)
		} else {
			h.Server.defaultMeHandler(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}
