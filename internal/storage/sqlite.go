// Package storage provides SQLite-based persistence for best scores, run
// history and coin wallets.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPlayer is used when no player name is given.
const DefaultPlayer = "local"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single finished run.
type ScoreEntry struct {
	ID        int64
	Player    string
	Score     int
	Continues int
	EndReason string
	Ticks     int
	CreatedAt time.Time
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
	// SQLite has a single writer; SSH sessions share this handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			continues INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);

		CREATE TABLE IF NOT EXISTS best_scores (
			player TEXT PRIMARY KEY,
			score INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS wallets (
			player TEXT PRIMARY KEY,
			coins INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
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

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(ctx context.Context, e ScoreEntry) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO scores (player, score, continues, end_reason, ticks) VALUES (?, ?, ?, ?, ?)",
		e.Player, e.Score, e.Continues, e.EndReason, e.Ticks,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N runs across all players.
// An empty player filters nothing; otherwise only that player's runs are returned.
// Results are ordered by score descending.
func (s *Store) TopScores(ctx context.Context, player string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, score, continues, end_reason, ticks, created_at
		 FROM scores
		 WHERE (? = '' OR player = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.Continues, &e.EndReason, &e.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestScore returns the stored best score of a player, 0 if none.
func (s *Store) BestScore(ctx context.Context, player string) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		"SELECT score FROM best_scores WHERE player = ?",
		player,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return score, nil
}

// SetBestScore stores score as the player's best unless a higher one is
// already stored. Returns the resulting best.
func (s *Store) SetBestScore(ctx context.Context, player string, score int) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO best_scores (player, score) VALUES (?, ?)
		 ON CONFLICT(player) DO UPDATE SET
		   score = MAX(best_scores.score, excluded.score),
		   updated_at = CURRENT_TIMESTAMP
		 RETURNING score`,
		player, score,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return best, nil
}

// Coins returns a player's coin balance, 0 if the wallet does not exist.
func (s *Store) Coins(ctx context.Context, player string) (int, error) {
	var coins int
	err := s.db.QueryRowContext(ctx,
		"SELECT coins FROM wallets WHERE player = ?",
		player,
	).Scan(&coins)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query coins: %w", err)
	}
	return coins, nil
}

// AddCoins adds delta to a player's wallet and returns the new balance.
func (s *Store) AddCoins(ctx context.Context, player string, delta int) (int, error) {
	var coins int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO wallets (player, coins) VALUES (?, ?)
		 ON CONFLICT(player) DO UPDATE SET
		   coins = wallets.coins + excluded.coins,
		   updated_at = CURRENT_TIMESTAMP
		 RETURNING coins`,
		player, delta,
	).Scan(&coins)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot update coins: %w", err)
	}
	return coins, nil
}

// ClearScores deletes a player's run history and best score.
// The wallet is kept.
func (s *Store) ClearScores(ctx context.Context, player string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM scores WHERE player = ?", player); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM best_scores WHERE player = ?", player); err != nil {
		return fmt.Errorf("storage: cannot clear best score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// PlayerStats contains aggregated statistics for a player.
type PlayerStats struct {
	Player     string
	RunsCount  int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	Continues  int64
	Coins      int
	LastPlayed time.Time
}

// PlayerStats retrieves aggregated statistics for a player.
func (s *Store) PlayerStats(ctx context.Context, player string) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	var lastPlayed any
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(SUM(continues), 0), MAX(created_at)
		 FROM scores WHERE player = ?`,
		player,
	).Scan(&stats.RunsCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.Continues, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	best, err := s.BestScore(ctx, player)
	if err != nil {
		return nil, err
	}
	if best > stats.HighScore {
		stats.HighScore = best
	}

	if stats.Coins, err = s.Coins(ctx, player); err != nil {
		return nil, err
	}
	return stats, nil
}

// AllPlayerStats retrieves statistics for every player with recorded runs,
// ordered by high score.
func (s *Store) AllPlayerStats(ctx context.Context) ([]PlayerStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, COUNT(*), MAX(score), AVG(score), SUM(score), SUM(continues), MAX(created_at)
		 FROM scores
		 GROUP BY player
		 ORDER BY MAX(score) DESC, player ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	defer rows.Close()

	var all []PlayerStats
	for rows.Next() {
		var ps PlayerStats
		var lastPlayed any
		if err := rows.Scan(&ps.Player, &ps.RunsCount, &ps.HighScore, &ps.AvgScore, &ps.TotalScore, &ps.Continues, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastPlayed = parseTime(lastPlayed)
		all = append(all, ps)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return all, nil
}

// parseTime handles both time.Time and string datetimes returned by the driver.
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
