package testutil

import (
	"context"
	"testing"

	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// CreateTestRoom creates an active room with default quotas and returns its ID
func CreateTestRoom(t *testing.T, repo *repository.Repository, title string) int {
	t.Helper()

	id, err := repo.CreateRoom(context.Background(), title, 5, 5, 10)
	if err != nil {
		t.Fatalf("failed to create test room: %v", err)
	}
	return int(id)
}

// CreateTestCandidate creates a candidate in the given room and returns its ID
func CreateTestCandidate(t *testing.T, repo *repository.Repository, roomID int, gender models.Gender, name string) int {
	t.Helper()

	id, err := repo.CreateCandidate(context.Background(), roomID, gender, name, "", "", "")
	if err != nil {
		t.Fatalf("failed to create test candidate: %v", err)
	}
	return int(id)
}
