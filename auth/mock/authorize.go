package mock

import (
	"net/http"
	"net/url"
)

// defaultAuthorizeHandler approves every request from the configured client and
// redirects back with a fresh code and the original state.
func (m *AuthorizationService) defaultAuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("client_id") != m.ClientID {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}
	redirectURI := query.Get("redirect_uri")
	if redirectURI == "" {
		http.Error(w, "Missing redirect URI", http.StatusBadRequest)
		return
	}
	if query.Get("code_challenge_method") != "S256" || query.Get("code_challenge") == "" {
		http.Error(w, "Missing PKCE S256 challenge", http.StatusBadRequest)
		return
	}
	location, err := url.Parse(redirectURI)
	if err != nil {
		http.Error(w, "Invalid redirect URI", http.StatusBadRequest)
		return
	}
	code := m.IssueCode(query.Get("code_challenge"), redirectURI)
	values := location.Query()
	values.Set("code", code)
	values.Set("state", query.Get("state"))
	location.RawQuery = values.Encode()
	http.Redirect(w, r, location.String(), http.StatusFound)
}
