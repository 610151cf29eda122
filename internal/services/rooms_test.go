package services_test

import (
	"context"
	"testing"

	apperrors "github.com/Nmk78/selection/internal/errors"
	"github.com/Nmk78/selection/internal/logger"
	"github.com/Nmk78/selection/internal/repository"
	"github.com/Nmk78/selection/internal/rounds"
	"github.com/Nmk78/selection/internal/services"
	"github.com/Nmk78/selection/internal/testutil"
)

func setupRoomService(t *testing.T) (*services.RoomService, *repository.Repository) {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	return services.NewRoomService(logger.New(), repo), repo
}

// TestCreateRoom_ArchivesPrevious tests the single-active-room invariant
func TestCreateRoom_ArchivesPrevious(t *testing.T) {
	roomSvc, _ := setupRoomService(t)
	ctx := context.Background()

	first, err := roomSvc.CreateRoom(ctx, services.RoomParams{Title: "Spring"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	second, err := roomSvc.CreateRoom(ctx, services.RoomParams{Title: "Autumn"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	active, err := roomSvc.ActiveRoom(ctx)
	if err != nil {
		t.Fatalf("ActiveRoom failed: %v", err)
	}
	if active.ID != int(second) {
		t.Errorf("active room: got %d, want %d", active.ID, second)
	}

	old, err := roomSvc.GetRoom(ctx, int(first))
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if old.Active {
		t.Error("previous room should be archived")
	}
}

// TestCreateRoom_Validation tests title and quota defaulting
func TestCreateRoom_Validation(t *testing.T) {
	roomSvc, _ := setupRoomService(t)
	ctx := context.Background()

	if _, err := roomSvc.CreateRoom(ctx, services.RoomParams{Title: "  "}); err != services.ErrEmptyTitle {
		t.Errorf("blank title: got %v, want ErrEmptyTitle", err)
	}

	id, err := roomSvc.CreateRoom(ctx, services.RoomParams{Title: "Defaults"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	room, err := roomSvc.GetRoom(ctx, int(id))
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if room.MaleForSecondRound != 5 || room.FemaleForSecondRound != 5 {
		t.Errorf("quota defaults: got %d/%d, want 5/5", room.MaleForSecondRound, room.FemaleForSecondRound)
	}
	if room.LeaderboardCandidates != 10 {
		t.Errorf("leaderboard default: got %d, want 10", room.LeaderboardCandidates)
	}
	if room.Round != string(rounds.Preview) {
		t.Errorf("new room round: got %q, want preview", room.Round)
	}
}

// TestActiveRoom_NoneOpen tests the no-active-room sentinel
func TestActiveRoom_NoneOpen(t *testing.T) {
	roomSvc, _ := setupRoomService(t)

	if _, err := roomSvc.ActiveRoom(context.Background()); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestAdvanceRound_FullCycle walks all seven phases and the wrap
func TestAdvanceRound_FullCycle(t *testing.T) {
	roomSvc, repo := setupRoomService(t)
	ctx := context.Background()
	roomID := testutil.CreateTestRoom(t, repo, "Pageant")

	want := []rounds.Round{
		rounds.First,
		rounds.FirstClosed,
		rounds.SecondPreview,
		rounds.Second,
		rounds.SecondClosed,
		rounds.Result,
		rounds.Preview,
	}
	for _, expected := range want {
		got, err := roomSvc.AdvanceRound(ctx, roomID)
		if err != nil {
			t.Fatalf("AdvanceRound to %s failed: %v", expected, err)
		}
		if got != expected {
			t.Fatalf("AdvanceRound: got %s, want %s", got, expected)
		}
	}

	room, err := roomSvc.GetRoom(ctx, roomID)
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if room.Round != string(rounds.Preview) {
		t.Errorf("after full cycle: got %q, want preview", room.Round)
	}
}

// TestAdvanceRound_MissingRoom tests that the admin gets a hard error
func TestAdvanceRound_MissingRoom(t *testing.T) {
	roomSvc, _ := setupRoomService(t)

	_, err := roomSvc.AdvanceRound(context.Background(), 9999)
	if err == nil {
		t.Fatal("expected an error for a missing room")
	}
	if !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected a not-found error, got %v", err)
	}
}

// TestUpdateRoom_ArchivedRejected tests that archived rooms are frozen
func TestUpdateRoom_ArchivedRejected(t *testing.T) {
	roomSvc, repo := setupRoomService(t)
	ctx := context.Background()

	old := testutil.CreateTestRoom(t, repo, "Old")
	testutil.CreateTestRoom(t, repo, "New")

	err := roomSvc.UpdateRoom(ctx, old, services.RoomParams{Title: "Renamed"})
	if err != services.ErrRoomNotActive {
		t.Errorf("expected ErrRoomNotActive, got %v", err)
	}
}

// TestUpdateRoom_KeepsUnsetQuotas tests partial updates
func TestUpdateRoom_KeepsUnsetQuotas(t *testing.T) {
	roomSvc, _ := setupRoomService(t)
	ctx := context.Background()

	id, err := roomSvc.CreateRoom(ctx, services.RoomParams{
		Title:                 "Pageant",
		MaleForSecondRound:    3,
		FemaleForSecondRound:  4,
		LeaderboardCandidates: 7,
	})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	if err := roomSvc.UpdateRoom(ctx, int(id), services.RoomParams{Title: "Renamed"}); err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}

	room, err := roomSvc.GetRoom(ctx, int(id))
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if room.Title != "Renamed" {
		t.Errorf("title: got %q, want Renamed", room.Title)
	}
	if room.MaleForSecondRound != 3 || room.FemaleForSecondRound != 4 || room.LeaderboardCandidates != 7 {
		t.Errorf("unset quotas changed: %d/%d/%d", room.MaleForSecondRound, room.FemaleForSecondRound, room.LeaderboardCandidates)
	}
}

// TestAdvanceRound_ConcurrentConflict tests the guarded round transition
func TestAdvanceRound_ConcurrentConflict(t *testing.T) {
	roomSvc, repo := setupRoomService(t)
	ctx := context.Background()
	roomID := testutil.CreateTestRoom(t, repo, "Pageant")

	// Simulate another admin advancing between read and write by moving the
	// round out from under the stale guard directly.
	if err := repo.SetRoomRound(ctx, roomID, string(rounds.Preview), string(rounds.First)); err != nil {
		t.Fatalf("SetRoomRound failed: %v", err)
	}
	if err := repo.SetRoomRound(ctx, roomID, string(rounds.Preview), string(rounds.Second)); err != repository.ErrRoundChanged {
		t.Errorf("stale guard: got %v, want ErrRoundChanged", err)
	}

	// A fresh advance from the current round still works
	next, err := roomSvc.AdvanceRound(ctx, roomID)
	if err != nil {
		t.Fatalf("AdvanceRound failed: %v", err)
	}
	if next != rounds.FirstClosed {
		t.Errorf("got %s, want firstVotingClosed", next)
	}
}
