package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nmk78/selection/internal/handlers"
	"github.com/Nmk78/selection/internal/logger"
	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/repository"
	"github.com/Nmk78/selection/internal/services"
	"github.com/Nmk78/selection/internal/testutil"
)

// testEnv bundles a router over a real in-memory database with direct
// service access for seeding
type testEnv struct {
	router http.Handler
	repo   *repository.Repository
	rooms  *services.RoomService
	keys   *services.KeyService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	log := logger.New()

	roomSvc := services.NewRoomService(log, repo)
	candidateSvc := services.NewCandidateService(log, repo)
	resultsSvc := services.NewResultsService(log, repo)
	votingSvc := services.NewVotingService(log, repo, resultsSvc, 6)
	keySvc := services.NewKeyService(log, repo, "http://test.local")

	h := handlers.NewForTesting(roomSvc, candidateSvc, votingSvc, resultsSvc, keySvc, repo)
	return &testEnv{
		router: h.Router(),
		repo:   repo,
		rooms:  roomSvc,
		keys:   keySvc,
	}
}

// do runs a JSON request through the router
func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// login authenticates against the test password and returns the session
// cookie
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/admin/login", map[string]string{"password": "test-password"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: status %d, body %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == "selection_session" {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
}

// seedOpenRoom creates a room, a candidate and a ballot key, then opens the
// first round
func seedOpenRoom(t *testing.T, e *testEnv) (roomID, candidateID int, key string) {
	t.Helper()
	ctx := context.Background()
	roomID = testutil.CreateTestRoom(t, e.repo, "Pageant")
	candidateID = testutil.CreateTestCandidate(t, e.repo, roomID, models.GenderMale, "Aung")

	keys, err := e.keys.GenerateSecretKeys(ctx, roomID, 1)
	if err != nil {
		t.Fatalf("GenerateSecretKeys failed: %v", err)
	}
	if err := e.repo.SetRoomRound(ctx, roomID, "preview", "first"); err != nil {
		t.Fatalf("SetRoomRound failed: %v", err)
	}
	return roomID, candidateID, keys[0]
}
