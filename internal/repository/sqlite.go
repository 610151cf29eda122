package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Nmk78/selection/internal/errors"
	"github.com/Nmk78/selection/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; it also serializes the
	// transactional write paths below.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT 0,
			round TEXT NOT NULL DEFAULT 'preview',
			male_for_second_round INTEGER NOT NULL DEFAULT 5,
			female_for_second_round INTEGER NOT NULL DEFAULT 5,
			leaderboard_candidates INTEGER NOT NULL DEFAULT 10,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id INTEGER NOT NULL,
			gender TEXT NOT NULL CHECK (gender IN ('male', 'female')),
			name TEXT NOT NULL,
			major TEXT,
			bio TEXT,
			profile_url TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (room_id) REFERENCES rooms(id)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id INTEGER NOT NULL,
			candidate_id INTEGER NOT NULL,
			total_votes INTEGER NOT NULL DEFAULT 0,
			total_rating INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (room_id) REFERENCES rooms(id),
			FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE,
			UNIQUE(room_id, candidate_id)
		)`,
		`CREATE TABLE IF NOT EXISTS secret_keys (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			first_round_male BOOLEAN NOT NULL DEFAULT 0,
			first_round_female BOOLEAN NOT NULL DEFAULT 0,
			second_round_male BOOLEAN NOT NULL DEFAULT 0,
			second_round_female BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (room_id) REFERENCES rooms(id),
			UNIQUE(room_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS special_secret_keys (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			used BOOLEAN NOT NULL DEFAULT 0,
			ratings TEXT,
			used_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (room_id) REFERENCES rooms(id),
			UNIQUE(room_id, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_room ON candidates(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_room ON votes(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_secret_keys_room_key ON secret_keys(room_id, key)`,
		`CREATE INDEX IF NOT EXISTS idx_special_keys_room_key ON special_secret_keys(room_id, key)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_active ON rooms(active)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// ==================== Room Methods ====================

const roomColumns = `id, title, active, round, male_for_second_round, female_for_second_round, leaderboard_candidates, created_at`

func scanRoom(row *sql.Row) (*models.Room, error) {
	var room models.Room
	var createdAt sql.NullString
	err := row.Scan(&room.ID, &room.Title, &room.Active, &room.Round,
		&room.MaleForSecondRound, &room.FemaleForSecondRound, &room.LeaderboardCandidates, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	room.CreatedAt = createdAt.String
	return &room, nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id int) (*models.Room, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	return scanRoom(row)
}

// GetActiveRoom retrieves the single active room, if any
func (r *Repository) GetActiveRoom(ctx context.Context) (*models.Room, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE active = 1 LIMIT 1`)
	return scanRoom(row)
}

// ListRooms returns all rooms, newest first
func (r *Repository) ListRooms(ctx context.Context) ([]models.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		var createdAt sql.NullString
		if err := rows.Scan(&room.ID, &room.Title, &room.Active, &room.Round,
			&room.MaleForSecondRound, &room.FemaleForSecondRound, &room.LeaderboardCandidates, &createdAt); err != nil {
			return nil, err
		}
		room.CreatedAt = createdAt.String
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// CreateRoom inserts a new active room and deactivates the previously active
// one in the same transaction, preserving the at-most-one-active invariant.
func (r *Repository) CreateRoom(ctx context.Context, title string, maleQuota, femaleQuota, leaderboard int) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE rooms SET active = 0 WHERE active = 1`); err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO rooms (title, active, round, male_for_second_round, female_for_second_round, leaderboard_candidates)
		VALUES (?, 1, 'preview', ?, ?, ?)
	`, title, maleQuota, femaleQuota, leaderboard)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// UpdateRoom updates a room's metadata
func (r *Repository) UpdateRoom(ctx context.Context, id int, title string, maleQuota, femaleQuota, leaderboard int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE rooms SET title = ?, male_for_second_round = ?, female_for_second_round = ?, leaderboard_candidates = ?
		WHERE id = ?
	`, title, maleQuota, femaleQuota, leaderboard, id)
	return err
}

// SetRoomRound moves a room from one round to another. The WHERE clause on
// the current round makes a racing double-advance lose cleanly instead of
// skipping a phase.
func (r *Repository) SetRoomRound(ctx context.Context, id int, from, to string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE rooms SET round = ? WHERE id = ? AND round = ?`, to, id, from)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoundChanged
	}
	return nil
}

// ==================== Candidate Methods ====================

const candidateColumns = `id, room_id, gender, name, major, bio, profile_url`

// ListCandidates returns all candidates for a room in insertion order
func (r *Repository) ListCandidates(ctx context.Context, roomID int) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+candidateColumns+` FROM candidates WHERE room_id = ? ORDER BY id
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		var major, bio, profileURL sql.NullString
		if err := rows.Scan(&c.ID, &c.RoomID, &c.Gender, &c.Name, &major, &bio, &profileURL); err != nil {
			return nil, err
		}
		c.Major = major.String
		c.Bio = bio.String
		c.ProfileURL = profileURL.String
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetCandidate returns a candidate by ID
func (r *Repository) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	var c models.Candidate
	var major, bio, profileURL sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT `+candidateColumns+` FROM candidates WHERE id = ?
	`, id).Scan(&c.ID, &c.RoomID, &c.Gender, &c.Name, &major, &bio, &profileURL)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("candidate not found")
	}
	if err != nil {
		return nil, err
	}
	c.Major = major.String
	c.Bio = bio.String
	c.ProfileURL = profileURL.String
	return &c, nil
}

// CreateCandidate creates a new candidate
func (r *Repository) CreateCandidate(ctx context.Context, roomID int, gender models.Gender, name, major, bio, profileURL string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (room_id, gender, name, major, bio, profile_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`, roomID, gender, name, major, bio, profileURL)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateCandidate updates a candidate's profile fields
func (r *Repository) UpdateCandidate(ctx context.Context, id int, gender models.Gender, name, major, bio, profileURL string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE candidates SET gender = ?, name = ?, major = ?, bio = ?, profile_url = ? WHERE id = ?
	`, gender, name, major, bio, profileURL, id)
	return err
}

// DeleteCandidate deletes a candidate; the vote row cascades with it
func (r *Repository) DeleteCandidate(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	return err
}

// ==================== Vote Methods ====================

// GetVoteTotals returns the raw counters for all candidates with at least
// one contribution in the room
func (r *Repository) GetVoteTotals(ctx context.Context, roomID int) ([]models.VoteTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT room_id, candidate_id, total_votes, total_rating FROM votes WHERE room_id = ?
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.VoteTotal
	for rows.Next() {
		var t models.VoteTotal
		if err := rows.Scan(&t.RoomID, &t.CandidateID, &t.TotalVotes, &t.TotalRating); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// ballotFlagColumns whitelists the used-flag columns a ballot may flip.
// Guards against interpolating arbitrary identifiers into SQL.
var ballotFlagColumns = map[models.BallotFlag]string{
	models.FirstRoundMale:    "first_round_male",
	models.FirstRoundFemale:  "first_round_female",
	models.SecondRoundMale:   "second_round_male",
	models.SecondRoundFemale: "second_round_female",
}

// CastBallot flips the secret key's used flag and increments the candidate's
// vote counter in one transaction. The guarded UPDATE only succeeds while
// the flag is still unset, so two concurrent submissions with the same key
// commit at most one increment; the loser gets ErrKeyUsed and no counter is
// touched. A crash between the two statements rolls both back.
func (r *Repository) CastBallot(ctx context.Context, roomID, keyID int, flag models.BallotFlag, candidateID int) error {
	column, ok := ballotFlagColumns[flag]
	if !ok {
		return fmt.Errorf("unknown ballot flag %q", flag)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE secret_keys SET `+column+` = 1 WHERE id = ? AND `+column+` = 0`, keyID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrKeyUsed
	}

	// Atomic add; never a read-modify-write in Go
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO votes (room_id, candidate_id, total_votes, total_rating)
		VALUES (?, ?, 1, 0)
		ON CONFLICT(room_id, candidate_id) DO UPDATE SET total_votes = total_votes + 1
	`, roomID, candidateID); err != nil {
		return err
	}

	return tx.Commit()
}

// RatingIncrement is one scaled contribution to a candidate's rating counter
type RatingIncrement struct {
	CandidateID int
	Scaled      int
}

// ApplyRatings marks the special key used, stores the submitted ratings as
// an immutable snapshot, and applies every scaled increment, all in one
// transaction. Partial application (some counters updated, flag unset, or
// vice versa) cannot be observed.
func (r *Repository) ApplyRatings(ctx context.Context, roomID, keyID int, increments []RatingIncrement, snapshot string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE special_secret_keys SET used = 1, ratings = ?, used_at = CURRENT_TIMESTAMP
		WHERE id = ? AND used = 0
	`, snapshot, keyID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrKeyUsed
	}

	for _, inc := range increments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO votes (room_id, candidate_id, total_votes, total_rating)
			VALUES (?, ?, 0, ?)
			ON CONFLICT(room_id, candidate_id) DO UPDATE SET total_rating = total_rating + excluded.total_rating
		`, roomID, inc.CandidateID, inc.Scaled); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ==================== Key Methods ====================

// GetSecretKey retrieves a ballot key scoped to (key, room)
func (r *Repository) GetSecretKey(ctx context.Context, roomID int, key string) (*models.SecretKey, error) {
	var k models.SecretKey
	err := r.db.QueryRowContext(ctx, `
		SELECT id, room_id, key, first_round_male, first_round_female, second_round_male, second_round_female
		FROM secret_keys WHERE room_id = ? AND key = ?
	`, roomID, key).Scan(&k.ID, &k.RoomID, &k.Key,
		&k.FirstRoundMale, &k.FirstRoundFemale, &k.SecondRoundMale, &k.SecondRoundFemale)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// GetSpecialKey retrieves a judge key scoped to (key, room)
func (r *Repository) GetSpecialKey(ctx context.Context, roomID int, key string) (*models.SpecialSecretKey, error) {
	var k models.SpecialSecretKey
	var ratings, usedAt sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, room_id, key, used, ratings, used_at
		FROM special_secret_keys WHERE room_id = ? AND key = ?
	`, roomID, key).Scan(&k.ID, &k.RoomID, &k.Key, &k.Used, &ratings, &usedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	k.Ratings = ratings.String
	k.UsedAt = usedAt.String
	return &k, nil
}

// KeyExists reports whether a key string is already taken in the room by
// either a ballot key or a judge key
func (r *Repository) KeyExists(ctx context.Context, roomID int, key string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM secret_keys WHERE room_id = ? AND key = ?
			UNION
			SELECT 1 FROM special_secret_keys WHERE room_id = ? AND key = ?
		)
	`, roomID, key, roomID, key).Scan(&exists)
	return exists, err
}

// CreateSecretKeys inserts a batch of ballot keys for a room
func (r *Repository) CreateSecretKeys(ctx context.Context, roomID int, keys []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO secret_keys (room_id, key) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, roomID, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CreateSpecialKeys inserts a batch of judge keys for a room
func (r *Repository) CreateSpecialKeys(ctx context.Context, roomID int, keys []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO special_secret_keys (room_id, key) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, roomID, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSecretKeys returns all ballot keys for a room (for printable export)
func (r *Repository) ListSecretKeys(ctx context.Context, roomID int) ([]models.SecretKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, room_id, key, first_round_male, first_round_female, second_round_male, second_round_female
		FROM secret_keys WHERE room_id = ? ORDER BY id
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []models.SecretKey
	for rows.Next() {
		var k models.SecretKey
		if err := rows.Scan(&k.ID, &k.RoomID, &k.Key,
			&k.FirstRoundMale, &k.FirstRoundFemale, &k.SecondRoundMale, &k.SecondRoundFemale); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// ListSpecialKeys returns all judge keys for a room
func (r *Repository) ListSpecialKeys(ctx context.Context, roomID int) ([]models.SpecialSecretKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, room_id, key, used, ratings, used_at
		FROM special_secret_keys WHERE room_id = ? ORDER BY id
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []models.SpecialSecretKey
	for rows.Next() {
		var k models.SpecialSecretKey
		var ratings, usedAt sql.NullString
		if err := rows.Scan(&k.ID, &k.RoomID, &k.Key, &k.Used, &ratings, &usedAt); err != nil {
			return nil, err
		}
		k.Ratings = ratings.String
		k.UsedAt = usedAt.String
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// CountSpecialKeys returns the number of judge keys issued for a room.
// The rating scale divisor derives from this count.
func (r *Repository) CountSpecialKeys(ctx context.Context, roomID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM special_secret_keys WHERE room_id = ?`, roomID).Scan(&count)
	return count, err
}

// ==================== Stats Methods ====================

// GetRoomStats returns voting statistics for a room
func (r *Repository) GetRoomStats(ctx context.Context, roomID int) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalCandidates int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates WHERE room_id = ?`, roomID).Scan(&totalCandidates); err != nil {
		return nil, err
	}
	stats["total_candidates"] = totalCandidates

	var totalKeys, usedKeys int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM secret_keys WHERE room_id = ?`, roomID).Scan(&totalKeys); err != nil {
		return nil, err
	}
	stats["total_keys"] = totalKeys
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM secret_keys WHERE room_id = ?
		AND (first_round_male = 1 OR first_round_female = 1 OR second_round_male = 1 OR second_round_female = 1)
	`, roomID).Scan(&usedKeys); err != nil {
		return nil, err
	}
	stats["used_keys"] = usedKeys

	var totalSpecialKeys, usedSpecialKeys int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM special_secret_keys WHERE room_id = ?`, roomID).Scan(&totalSpecialKeys); err != nil {
		return nil, err
	}
	stats["total_special_keys"] = totalSpecialKeys
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM special_secret_keys WHERE room_id = ? AND used = 1`, roomID).Scan(&usedSpecialKeys); err != nil {
		return nil, err
	}
	stats["used_special_keys"] = usedSpecialKeys

	var totalBallots sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT SUM(total_votes) FROM votes WHERE room_id = ?`, roomID).Scan(&totalBallots); err != nil {
		return nil, err
	}
	stats["total_ballots"] = int(totalBallots.Int64)

	return stats, nil
}
