package mock

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// defaultTokenHandler handles token endpoint requests for the refresh_token and
// authorization_code grants.
func (m *AuthorizationService) defaultTokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "invalid form data")
		return
	}
	clientID, clientSecret, ok := r.BasicAuth()
	if !ok {
		clientID = r.FormValue("client_id")
		clientSecret = r.FormValue("client_secret")
	}
	if clientID != m.ClientID || clientSecret != m.ClientSecret {
		writeOAuthError(w, http.StatusUnauthorized, "invalid_client", "invalid client credentials")
		return
	}
	if m.ExchangeDelay > 0 {
		time.Sleep(m.ExchangeDelay)
	}

	var refreshToken string
	switch grantType := r.FormValue("grant_type"); grantType {
	case GrantRefreshToken:
		m.refreshCalls.Add(1)
		current := r.FormValue("refresh_token")
		if !m.IsValidRefreshToken(current) {
			writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Value passed for the token was invalid.")
			return
		}
		refreshToken = current
		if m.RotateRefreshToken {
			if _, ok := m.refreshTokens.Take(current); !ok {
				writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Value passed for the token was invalid.")
				return
			}
			rotated, err := m.IssueRefreshToken()
			if err != nil {
				http.Error(w, "Server error", http.StatusInternalServerError)
				return
			}
			refreshToken = rotated
		}
	case GrantAuthorizationCode:
		m.codeCalls.Add(1)
		code, ok := m.codes.Take(r.FormValue("code"))
		if !ok {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "authorization code is invalid or already used")
			return
		}
		verifier := r.FormValue("code_verifier")
		if verifier == "" || oauth2.S256ChallengeFromVerifier(verifier) != code.challenge {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "code verifier does not match challenge")
			return
		}
		if code.redirectURI != "" && r.FormValue("redirect_uri") != "" && r.FormValue("redirect_uri") != code.redirectURI {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "redirect_uri mismatch")
			return
		}
		issued, err := m.IssueRefreshToken()
		if err != nil {
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}
		refreshToken = issued
	default:
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "unsupported grant type")
		return
	}

	accessToken, err := m.IssueAccessToken()
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	response := map[string]interface{}{
		"access_token":  accessToken,
		"token_type":    "bearer",
		"refresh_token": refreshToken,
		"expires_in":    int(m.AccessTokenTTL.Seconds()),
		"scope":         joinScopes(m.AuthorizedScopes),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func writeOAuthError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "error_description": description})
}

func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}
