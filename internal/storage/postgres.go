package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS scores (
		id SERIAL PRIMARY KEY,
		player TEXT NOT NULL,
		level INTEGER NOT NULL,
		score INTEGER NOT NULL,
		outcome TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);
	CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
`

// OpenPostgres connects to PostgreSQL and runs migrations.
func OpenPostgres(connStr string) (*Store, error) {
	if connStr == "" {
		return nil, fmt.Errorf("storage: empty PostgreSQL connection string")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: dialectPostgres}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}
