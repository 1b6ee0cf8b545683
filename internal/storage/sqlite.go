// Package storage provides SQLite-based persistence for runs, profiles and duels.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrAlreadyRedeemed is returned when a profile redeems the same code twice.
var ErrAlreadyRedeemed = errors.New("storage: code already redeemed")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord is a single finished (or abandoned) run.
type RunRecord struct {
	ID        string
	Username  string
	LevelID   int
	Mode      string // "solo", "bot", "versus"
	Outcome   string // core.Outcome.String()
	Progress  float64
	Pickups   int
	Frames    int
	Seed      int64
	CreatedAt time.Time
}

// ProfileRecord is the persisted part of a player profile.
type ProfileRecord struct {
	Username  string
	Gems      int
	CreatedAt time.Time
}

// DuelRecord is the result of a two-lane match.
type DuelRecord struct {
	ID               string
	Username         string
	LevelID          int
	Opponent         string // "bot" or "versus"
	PlayerOutcome    string
	PlayerProgress   float64
	OpponentOutcome  string
	OpponentProgress float64
	Winner           int // 0 draw, 1 player, 2 opponent
	Seed             int64
	CreatedAt        time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// One writer at a time; SSH sessions share the store.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			level_id INTEGER NOT NULL,
			mode TEXT NOT NULL,
			outcome TEXT NOT NULL,
			progress REAL NOT NULL DEFAULT 0,
			pickups INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level_id, progress DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_user ON runs(username);

		CREATE TABLE IF NOT EXISTS profiles (
			username TEXT PRIMARY KEY,
			gems INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS unlocks (
			username TEXT NOT NULL,
			skin TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (username, skin)
		);

		CREATE TABLE IF NOT EXISTS redemptions (
			username TEXT NOT NULL,
			code TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (username, code)
		);

		CREATE TABLE IF NOT EXISTS duels (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			level_id INTEGER NOT NULL,
			opponent TEXT NOT NULL,
			player_outcome TEXT NOT NULL,
			player_progress REAL NOT NULL DEFAULT 0,
			opponent_outcome TEXT NOT NULL,
			opponent_progress REAL NOT NULL DEFAULT 0,
			winner INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_duels_user ON duels(username);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run. An empty ID is filled with a new UUID.
// RunCredit is what a saved run grants its player.
type RunCredit struct {
	Gems int
	Skin string // Unlocked with the run when set
}

// SavedRun reports what SaveRun stored.
type SavedRun struct {
	ID       string
	Balance  int  // Gem balance after the credit
	Unlocked bool // The credited skin was not owned before
}

// SaveRun stores a run and applies its credit in one transaction: either the
// run and its gems and skin all land, or none of them do. An empty ID is
// filled with a new UUID.
func (s *Store) SaveRun(r RunRecord, credit RunCredit) (SavedRun, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SavedRun{}, fmt.Errorf("storage: cannot begin run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, username, level_id, mode, outcome, progress, pickups, frames, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Username, r.LevelID, r.Mode, r.Outcome, r.Progress, r.Pickups, r.Frames, r.Seed,
	)
	if err != nil {
		return SavedRun{}, fmt.Errorf("storage: cannot save run: %w", err)
	}

	if _, err := tx.Exec("INSERT OR IGNORE INTO profiles (username) VALUES (?)", r.Username); err != nil {
		return SavedRun{}, fmt.Errorf("storage: cannot create profile: %w", err)
	}
	if _, err := tx.Exec("UPDATE profiles SET gems = gems + ? WHERE username = ?", credit.Gems, r.Username); err != nil {
		return SavedRun{}, fmt.Errorf("storage: cannot add gems: %w", err)
	}

	saved := SavedRun{ID: r.ID}
	if credit.Skin != "" {
		res, err := tx.Exec("INSERT OR IGNORE INTO unlocks (username, skin) VALUES (?, ?)", r.Username, credit.Skin)
		if err != nil {
			return SavedRun{}, fmt.Errorf("storage: cannot unlock skin: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return SavedRun{}, fmt.Errorf("storage: cannot read unlock result: %w", err)
		}
		saved.Unlocked = n > 0
	}

	if err := tx.QueryRow("SELECT gems FROM profiles WHERE username = ?", r.Username).Scan(&saved.Balance); err != nil {
		return SavedRun{}, fmt.Errorf("storage: cannot read gems: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return SavedRun{}, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return saved, nil
}

const runColumns = `id, username, level_id, mode, outcome, progress, pickups, frames, seed, created_at`

// TopRuns retrieves the best N runs on a level.
// Results are ordered by progress, then pickups, descending.
func (s *Store) TopRuns(levelID, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE level_id = ?
		 ORDER BY progress DESC, pickups DESC, frames ASC
		 LIMIT ?`,
		levelID, limit,
	)
}

// RecentRuns retrieves a player's most recent runs across all levels.
func (s *Store) RecentRuns(username string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE username = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		username, limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Username, &r.LevelID, &r.Mode, &r.Outcome,
			&r.Progress, &r.Pickups, &r.Frames, &r.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// BestProgress returns a player's best progress on a level.
// Returns 0 if the player has no runs there.
func (s *Store) BestProgress(username string, levelID int) (float64, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT MAX(progress) FROM runs WHERE username = ? AND level_id = ?",
		username, levelID,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best progress: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return best.Float64, nil
}

// ClearRuns deletes all runs on a level.
func (s *Store) ClearRuns(levelID int) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE level_id = ?", levelID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID      int
	Attempts     int
	Wins         int
	BestProgress float64
	AvgProgress  float64
	Pickups      int64
	LastPlayed   time.Time
}

// GetLevelStats retrieves aggregated statistics for a specific level.
func (s *Store) GetLevelStats(levelID int) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(progress), 0), COALESCE(AVG(progress), 0),
		        COALESCE(SUM(pickups), 0), MAX(created_at)
		 FROM runs WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Attempts, &stats.Wins, &stats.BestProgress, &stats.AvgProgress, &stats.Pickups, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllLevelStats retrieves statistics for every level that has been played.
func (s *Store) GetAllLevelStats() (map[int]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*),
		        SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END),
		        MAX(progress), AVG(progress), SUM(pickups), MAX(created_at)
		 FROM runs
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastPlayed any
		if err := rows.Scan(&ls.LevelID, &ls.Attempts, &ls.Wins, &ls.BestProgress,
			&ls.AvgProgress, &ls.Pickups, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastPlayed = parseTime(lastPlayed)
		stats[ls.LevelID] = &ls
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// EnsureProfile creates an empty profile if none exists and returns it.
func (s *Store) EnsureProfile(username string) (ProfileRecord, error) {
	if _, err := s.db.Exec("INSERT OR IGNORE INTO profiles (username) VALUES (?)", username); err != nil {
		return ProfileRecord{}, fmt.Errorf("storage: cannot create profile: %w", err)
	}

	p := ProfileRecord{Username: username}
	var createdAt any
	err := s.db.QueryRow(
		"SELECT gems, created_at FROM profiles WHERE username = ?",
		username,
	).Scan(&p.Gems, &createdAt)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("storage: cannot load profile: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

// Unlocks lists the skins a player has unlocked, in unlock order.
func (s *Store) Unlocks(username string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT skin FROM unlocks WHERE username = ? ORDER BY created_at, rowid",
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query unlocks: %w", err)
	}
	defer rows.Close()

	var skins []string
	for rows.Next() {
		var skin string
		if err := rows.Scan(&skin); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		skins = append(skins, skin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return skins, nil
}

// HasRedeemed reports whether the player already used a code.
func (s *Store) HasRedeemed(username, code string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM redemptions WHERE username = ? AND code = ?",
		username, code,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query redemptions: %w", err)
	}
	return n > 0, nil
}

// Redeem marks a code used and applies its grant in one transaction.
// Returns ErrAlreadyRedeemed if the player used the code before.
func (s *Store) Redeem(username, code string, gems int, skins []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin redemption: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT OR IGNORE INTO redemptions (username, code) VALUES (?, ?)",
		username, code,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record redemption: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("storage: cannot read redemption result: %w", err)
	} else if n == 0 {
		return ErrAlreadyRedeemed
	}

	if _, err := tx.Exec("INSERT OR IGNORE INTO profiles (username) VALUES (?)", username); err != nil {
		return fmt.Errorf("storage: cannot create profile: %w", err)
	}
	if _, err := tx.Exec("UPDATE profiles SET gems = gems + ? WHERE username = ?", gems, username); err != nil {
		return fmt.Errorf("storage: cannot add gems: %w", err)
	}
	for _, skin := range skins {
		if _, err := tx.Exec("INSERT OR IGNORE INTO unlocks (username, skin) VALUES (?, ?)", username, skin); err != nil {
			return fmt.Errorf("storage: cannot unlock skin: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit redemption: %w", err)
	}
	return nil
}

// SaveDuel records a duel result. An empty ID is filled with a new UUID.
func (s *Store) SaveDuel(d DuelRecord) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO duels
		 (id, username, level_id, opponent, player_outcome, player_progress,
		  opponent_outcome, opponent_progress, winner, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Username, d.LevelID, d.Opponent, d.PlayerOutcome, d.PlayerProgress,
		d.OpponentOutcome, d.OpponentProgress, d.Winner, d.Seed,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save duel: %w", err)
	}
	return d.ID, nil
}

// RecentDuels retrieves a player's most recent duels.
func (s *Store) RecentDuels(username string, limit int) ([]DuelRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, username, level_id, opponent, player_outcome, player_progress,
		        opponent_outcome, opponent_progress, winner, seed, created_at
		 FROM duels
		 WHERE username = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duels: %w", err)
	}
	defer rows.Close()

	var duels []DuelRecord
	for rows.Next() {
		var d DuelRecord
		var createdAt any
		if err := rows.Scan(&d.ID, &d.Username, &d.LevelID, &d.Opponent,
			&d.PlayerOutcome, &d.PlayerProgress, &d.OpponentOutcome, &d.OpponentProgress,
			&d.Winner, &d.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		d.CreatedAt = parseTime(createdAt)
		duels = append(duels, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return duels, nil
}

// DuelTally counts a player's duel wins, losses and draws.
type DuelTally struct {
	Wins, Losses, Draws int
}

// GetDuelTally aggregates a player's duel record.
func (s *Store) GetDuelTally(username string) (DuelTally, error) {
	var t DuelTally
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = 2 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = 0 THEN 1 ELSE 0 END), 0)
		 FROM duels WHERE username = ?`,
		username,
	).Scan(&t.Wins, &t.Losses, &t.Draws)
	if err != nil {
		return DuelTally{}, fmt.Errorf("storage: cannot tally duels: %w", err)
	}
	return t, nil
}

// parseTime handles both time.Time and the SQLite text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
