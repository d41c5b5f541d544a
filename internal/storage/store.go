// Package storage persists finished games and serves the highscore table.
// SQLite (pure-Go modernc.org/sqlite driver) is the default backend;
// PostgreSQL through lib/pq is available for shared deployments.
package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultLimit is the size of the highscore table.
const DefaultLimit = 10

// ScoreEntry represents a single finished game.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	Player    string    `json:"player"`
	Level     int       `json:"level"`
	Score     int       `json:"score"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerStats contains aggregated statistics for one player.
type PlayerStats struct {
	Player     string    `json:"player"`
	GamesCount int       `json:"games"`
	HighScore  int       `json:"high_score"`
	BestLevel  int       `json:"best_level"`
	AvgScore   float64   `json:"avg_score"`
	TotalScore int64     `json:"total_score"`
	LastPlayed time.Time `json:"last_played"`
}

// ScoreStore is what the server and front-ends need from persistence.
type ScoreStore interface {
	SaveScore(player string, level, score int, outcome string) (int64, error)
	TopScores(limit int) ([]ScoreEntry, error)
	PlayerScores(player string, limit int) ([]ScoreEntry, error)
	HighScore(player string) (int, error)
	PlayerStats(player string) (*PlayerStats, error)
	Close() error
}

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store is a database/sql backed ScoreStore.
type Store struct {
	db      *sql.DB
	dialect dialect
}

var _ ScoreStore = (*Store)(nil)

// OpenStore opens the backend named by dbType ("sqlite" or "postgres").
// For sqlite dsn is a file path, for postgres a connection string.
func OpenStore(dbType, dsn string) (*Store, error) {
	switch strings.ToLower(dbType) {
	case "", "sqlite", "sqlite3":
		return Open(dsn)
	case "postgres", "postgresql":
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("storage: unknown database type %q", dbType)
	}
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(player string, level, score int, outcome string) (int64, error) {
	const insert = "INSERT INTO scores (player, level, score, outcome) VALUES (?, ?, ?, ?)"

	if s.dialect == dialectPostgres {
		var id int64
		err := s.db.QueryRow(s.rebind(insert+" RETURNING id"), player, level, score, outcome).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot save score: %w", err)
		}
		return id, nil
	}

	result, err := s.db.Exec(insert, player, level, score, outcome)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the best N games across all players.
// Results are ordered by score descending, oldest first on ties.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.queryEntries(
		`SELECT id, player, level, score, outcome, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// PlayerScores retrieves the best N games of one player.
func (s *Store) PlayerScores(player string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.queryEntries(
		`SELECT id, player, level, score, outcome, created_at
		 FROM scores
		 WHERE player = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		player, limit,
	)
}

func (s *Store) queryEntries(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Level, &e.Score, &e.Outcome, &createdAt); err != nil {
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

// HighScore returns the highest score of player, or of anyone when player
// is empty. Returns 0 if no scores exist.
func (s *Store) HighScore(player string) (int, error) {
	var score sql.NullInt64
	var err error
	if player == "" {
		err = s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&score)
	} else {
		err = s.db.QueryRow(s.rebind("SELECT MAX(score) FROM scores WHERE player = ?"), player).Scan(&score)
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// PlayerStats retrieves aggregated statistics for one player.
// A player without games gets zeroed stats.
func (s *Store) PlayerStats(player string) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	var lastPlayed any
	err := s.db.QueryRow(s.rebind(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(level), 0),
		        COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE player = ?`),
		player,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.BestLevel, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// AllPlayerStats retrieves statistics for every player that has finished a game.
func (s *Store) AllPlayerStats() (map[string]*PlayerStats, error) {
	rows, err := s.db.Query(
		`SELECT player, COUNT(*), MAX(score), MAX(level), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY player`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all player stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*PlayerStats)
	for rows.Next() {
		var ps PlayerStats
		var lastPlayed any
		if err := rows.Scan(&ps.Player, &ps.GamesCount, &ps.HighScore, &ps.BestLevel, &ps.AvgScore, &ps.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastPlayed = parseTime(lastPlayed)
		stats[ps.Player] = &ps
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearScores deletes every recorded game.
func (s *Store) ClearScores() error {
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and the textual SQLite timestamp.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse("2006-01-02 15:04:05", string(t)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
