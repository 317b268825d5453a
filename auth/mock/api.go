package mock

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// userID identifies the single user every token is issued for.
const userID = "2244994945"

// Problem is the X v2 API structured error body.
type Problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Type   string `json:"type"`
	Status int    `json:"status"`
}

// authenticate validates the bearer header and the rate limit; it writes the
// error response and returns false when the request must not proceed.
func (m *AuthorizationService) authenticate(w http.ResponseWriter, r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || !m.IsValidAccessToken(parts[1]) {
		detail := "Unauthorized"
		if len(parts) == 2 && isExpired(m.verify(parts[1], useAccess)) {
			detail = "Access token expired"
		}
		writeProblem(w, http.StatusUnauthorized, &Problem{Title: "Unauthorized", Type: "about:blank", Status: http.StatusUnauthorized, Detail: detail})
		return false
	}
	if m.rateLimited.Load() {
		reset := time.Now().Add(15 * time.Minute).Unix()
		w.Header().Set("x-rate-limit-limit", "100")
		w.Header().Set("x-rate-limit-remaining", "0")
		w.Header().Set("x-rate-limit-reset", strconv.FormatInt(reset, 10))
		writeProblem(w, http.StatusTooManyRequests, &Problem{Title: "Too Many Requests", Type: "about:blank", Status: http.StatusTooManyRequests, Detail: "Too Many Requests"})
		return false
	}
	return true
}

// defaultTweetsHandler handles POST /2/tweets
func (m *AuthorizationService) defaultTweetsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !m.authenticate(w, r) {
		return
	}
	var request struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || strings.TrimSpace(request.Text) == "" {
		writeProblem(w, http.StatusBadRequest, &Problem{
			Title:  "Invalid Request",
			Detail: "One or more parameters to your request was invalid.",
			Type:   "https://api.twitter.com/2/problems/invalid-request",
			Status: http.StatusBadRequest,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": map[string]string{"id": strconv.FormatInt(time.Now().UnixNano(), 10), "text": request.Text},
	})
}

// defaultMeHandler handles GET /2/users/me
func (m *AuthorizationService) defaultMeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !m.authenticate(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]string{"id": userID, "name": "Test User", "username": "test_user"},
	})
}

func writeProblem(w http.ResponseWriter, status int, problem *Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
