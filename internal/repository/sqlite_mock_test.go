package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Nmk78/selection/internal/models"
)

// TestListCandidates_ScanError tests row scanning error
func TestListCandidates_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "room_id", "gender", "name", "major", "bio", "profile_url"}).
		AddRow("bad-id", 1, "male", "Aung", nil, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM candidates").WillReturnRows(rows)

	_, err = repo.ListCandidates(ctx, 1)
	if err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

// TestGetVoteTotals_QueryError tests query failure propagation
func TestGetVoteTotals_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	dbErr := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT (.+) FROM votes").WillReturnError(dbErr)

	_, err = repo.GetVoteTotals(context.Background(), 1)
	if !errors.Is(err, dbErr) {
		t.Errorf("expected wrapped query error, got %v", err)
	}
}

// TestCastBallot_UnknownFlagRejectedBeforeSQL tests the column whitelist
func TestCastBallot_UnknownFlagRejectedBeforeSQL(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	err = repo.CastBallot(context.Background(), 1, 1, models.BallotFlag("drop_table"), 1)
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestCastBallot_RollsBackOnIncrementError tests that a failed counter
// update rolls back the key flag
func TestCastBallot_RollsBackOnIncrementError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	dbErr := errors.New("constraint failed")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE secret_keys").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO votes").WillReturnError(dbErr)
	mock.ExpectRollback()

	err = repo.CastBallot(context.Background(), 1, 1, models.FirstRoundMale, 1)
	if !errors.Is(err, dbErr) {
		t.Errorf("expected increment error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestApplyRatings_RollsBackOnIncrementError tests that a mid-batch failure
// undoes the used flag and all prior increments
func TestApplyRatings_RollsBackOnIncrementError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	dbErr := errors.New("constraint failed")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE special_secret_keys").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO votes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO votes").WillReturnError(dbErr)
	mock.ExpectRollback()

	increments := []RatingIncrement{
		{CandidateID: 1, Scaled: 9},
		{CandidateID: 2, Scaled: 7},
	}
	err = repo.ApplyRatings(context.Background(), 1, 1, increments, "[]")
	if !errors.Is(err, dbErr) {
		t.Errorf("expected increment error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCreateRoom_RollsBackOnInsertError tests the create-and-archive
// transaction failure path
func TestCreateRoom_RollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	dbErr := errors.New("database is locked")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms SET active = 0").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO rooms").WillReturnError(dbErr)
	mock.ExpectRollback()

	_, err = repo.CreateRoom(context.Background(), "Pageant", 5, 5, 10)
	if !errors.Is(err, dbErr) {
		t.Errorf("expected insert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
