package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

// TestAdminRoutes_RequireSession tests that every admin route rejects
// unauthenticated callers
func TestAdminRoutes_RequireSession(t *testing.T) {
	env := setupEnv(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/rooms"},
		{http.MethodPost, "/api/admin/rooms"},
		{http.MethodGet, "/api/admin/rooms/1"},
		{http.MethodPut, "/api/admin/rooms/1"},
		{http.MethodPost, "/api/admin/rooms/1/advance"},
		{http.MethodPost, "/api/admin/rooms/1/candidates"},
		{http.MethodPut, "/api/admin/candidates/1"},
		{http.MethodDelete, "/api/admin/candidates/1"},
		{http.MethodPost, "/api/admin/rooms/1/keys"},
		{http.MethodGet, "/api/admin/rooms/1/keys"},
		{http.MethodGet, "/api/admin/rooms/1/special-keys"},
		{http.MethodGet, "/api/admin/rooms/1/keys/abc/qr"},
		{http.MethodGet, "/api/admin/rooms/1/stats"},
	}
	for _, route := range routes {
		rr := env.do(t, route.method, route.path, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", route.method, route.path, rr.Code)
		}
	}
}

// TestLogin tests the session flow end to end
func TestLogin(t *testing.T) {
	env := setupEnv(t)

	rr := env.do(t, http.MethodPost, "/api/admin/login", map[string]string{"password": "wrong"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: got %d, want 401", rr.Code)
	}

	cookie := env.login(t)
	rr = env.do(t, http.MethodGet, "/api/admin/rooms", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Errorf("authenticated list: got %d, want 200", rr.Code)
	}

	// Logout invalidates the session
	rr = env.do(t, http.MethodPost, "/api/admin/logout", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/api/admin/rooms", nil, cookie)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("after logout: got %d, want 401", rr.Code)
	}
}

// TestRoomLifecycle tests create, read, update and round advance over HTTP
func TestRoomLifecycle(t *testing.T) {
	env := setupEnv(t)
	cookie := env.login(t)

	rr := env.do(t, http.MethodPost, "/api/admin/rooms", map[string]any{
		"title":                   "Fresher Welcome",
		"male_for_second_round":   3,
		"female_for_second_round": 3,
	}, cookie)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create room: got %d, body %s", rr.Code, rr.Body.String())
	}

	var room struct {
		ID     int    `json:"id"`
		Title  string `json:"title"`
		Active bool   `json:"active"`
		Round  string `json:"round"`
	}
	decodeBody(t, rr, &room)
	if !room.Active || room.Round != "preview" {
		t.Errorf("new room state: %+v", room)
	}

	rr = env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/rooms/%d", room.ID), map[string]any{
		"title": "Fresher Welcome 2026",
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("update room: got %d, body %s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &room)
	if room.Title != "Fresher Welcome 2026" {
		t.Errorf("title not updated: %q", room.Title)
	}

	rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/rooms/%d/advance", room.ID), nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("advance: got %d, body %s", rr.Code, rr.Body.String())
	}
	var advanced struct {
		Round string `json:"round"`
	}
	decodeBody(t, rr, &advanced)
	if advanced.Round != "first" {
		t.Errorf("round after advance: got %q, want first", advanced.Round)
	}

	// Blank title is a validation failure
	rr = env.do(t, http.MethodPost, "/api/admin/rooms", map[string]any{"title": "  "}, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank title: got %d, want 400", rr.Code)
	}
}

// TestAdvanceRound_MissingRoom tests that a bad room ID surfaces as 404
func TestAdvanceRound_MissingRoom(t *testing.T) {
	env := setupEnv(t)
	cookie := env.login(t)

	rr := env.do(t, http.MethodPost, "/api/admin/rooms/9999/advance", nil, cookie)
	if rr.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rr.Code)
	}
}

// TestCandidateLifecycle tests candidate CRUD over HTTP
func TestCandidateLifecycle(t *testing.T) {
	env := setupEnv(t)
	cookie := env.login(t)
	roomID, _, _ := seedOpenRoom(t, env)

	rr := env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/rooms/%d/candidates", roomID), map[string]any{
		"gender": "female",
		"name":   "Su Su",
		"major":  "Chemistry",
	}, cookie)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create candidate: got %d, body %s", rr.Code, rr.Body.String())
	}
	var candidate struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, rr, &candidate)

	rr = env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/candidates/%d", candidate.ID), map[string]any{
		"gender": "female",
		"name":   "Su Su Hlaing",
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("update candidate: got %d, body %s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &candidate)
	if candidate.Name != "Su Su Hlaing" {
		t.Errorf("name not updated: %q", candidate.Name)
	}

	rr = env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/candidates/%d", candidate.ID), nil, cookie)
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete candidate: got %d, want 204", rr.Code)
	}

	rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/rooms/%d/candidates", roomID), map[string]any{
		"gender": "neither",
		"name":   "X",
	}, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad gender: got %d, want 400", rr.Code)
	}
}

// TestKeyManagement tests key minting, listing and QR export over HTTP
func TestKeyManagement(t *testing.T) {
	env := setupEnv(t)
	cookie := env.login(t)
	roomID, _, _ := seedOpenRoom(t, env)

	rr := env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/rooms/%d/keys", roomID), map[string]any{
		"count": 3,
	}, cookie)
	if rr.Code != http.StatusCreated {
		t.Fatalf("generate keys: got %d, body %s", rr.Code, rr.Body.String())
	}
	var minted struct {
		Keys    []string `json:"keys"`
		Special bool     `json:"special"`
	}
	decodeBody(t, rr, &minted)
	if len(minted.Keys) != 3 || minted.Special {
		t.Errorf("unexpected mint response: %s", rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/rooms/%d/keys", roomID), map[string]any{
		"count":   2,
		"special": true,
	}, cookie)
	if rr.Code != http.StatusCreated {
		t.Fatalf("generate special keys: got %d, body %s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &minted)
	if len(minted.Keys) != 2 || !minted.Special {
		t.Errorf("unexpected special mint response: %s", rr.Body.String())
	}

	// seedOpenRoom minted one ballot key before ours
	rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/admin/rooms/%d/keys", roomID), nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("list keys: got %d", rr.Code)
	}
	var listed []struct {
		Key string `json:"key"`
	}
	decodeBody(t, rr, &listed)
	if len(listed) != 4 {
		t.Errorf("expected 4 ballot keys, got %d", len(listed))
	}

	rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/admin/rooms/%d/special-keys", roomID), nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("list special keys: got %d", rr.Code)
	}
	decodeBody(t, rr, &listed)
	if len(listed) != 2 {
		t.Errorf("expected 2 judge keys, got %d", len(listed))
	}

	rr = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/admin/rooms/%d/keys/%s/qr", roomID, minted.Keys[0]), nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("QR export: got %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("QR content type: got %q", ct)
	}
	if !strings.HasPrefix(rr.Body.String(), "\x89PNG") {
		t.Error("QR body is not a PNG")
	}

	// Oversized batches are rejected
	rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/rooms/%d/keys", roomID), map[string]any{
		"count": 501,
	}, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("oversized batch: got %d, want 400", rr.Code)
	}
}

// TestGetStats tests the admin stats endpoint
func TestGetStats(t *testing.T) {
	env := setupEnv(t)
	cookie := env.login(t)
	roomID, candidateID, key := seedOpenRoom(t, env)

	env.do(t, http.MethodPost, "/api/ballot", map[string]any{
		"room_id":      roomID,
		"candidate_id": candidateID,
		"key":          key,
	})

	rr := env.do(t, http.MethodGet, fmt.Sprintf("/api/admin/rooms/%d/stats", roomID), nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("stats: got %d, body %s", rr.Code, rr.Body.String())
	}
	var stats struct {
		TotalBallots int `json:"total_ballots"`
		TotalKeys    int `json:"total_keys"`
		UsedKeys     int `json:"used_keys"`
	}
	decodeBody(t, rr, &stats)
	if stats.TotalBallots != 1 {
		t.Errorf("total ballots: got %d, want 1", stats.TotalBallots)
	}
	if stats.TotalKeys != 1 || stats.UsedKeys != 1 {
		t.Errorf("key counters: total %d used %d, want 1/1", stats.TotalKeys, stats.UsedKeys)
	}
}
