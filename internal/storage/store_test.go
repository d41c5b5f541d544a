package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	games := []struct {
		player string
		level  int
		score  int
	}{
		{"alice", 1, 100},
		{"bob", 2, 300},
		{"alice", 3, 900},
		{"carol", 1, 300},
	}
	for _, g := range games {
		if _, err := store.SaveScore(g.player, g.level, g.score, "game-over"); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 4 {
		t.Fatalf("Expected 4 scores, got %d", len(scores))
	}
	want := []string{"alice", "bob", "carol", "alice"}
	for i, name := range want {
		if scores[i].Player != name {
			t.Errorf("rank %d: expected %s, got %s (%d)", i+1, name, scores[i].Player, scores[i].Score)
		}
	}
	if scores[0].Level != 3 || scores[0].Outcome != "game-over" {
		t.Errorf("unexpected top entry: %+v", scores[0])
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		if _, err := store.SaveScore("p", 1, i*10, "timeout"); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(scores))
	}
	if scores[0].Score != 190 {
		t.Errorf("Expected top score 190, got %d", scores[0].Score)
	}

	scores, err = store.TopScores(0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != DefaultLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultLimit, len(scores))
	}
}

func TestStorePlayerScores(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore("alice", 1, 100, "quit")
	store.SaveScore("bob", 1, 500, "quit")
	store.SaveScore("alice", 2, 700, "win")

	scores, err := store.PlayerScores("alice", 10)
	if err != nil {
		t.Fatalf("PlayerScores() failed: %v", err)
	}
	if len(scores) != 2 || scores[0].Score != 700 || scores[1].Score != 100 {
		t.Errorf("unexpected alice scores: %+v", scores)
	}

	scores, err = store.PlayerScores("nobody", 10)
	if err != nil {
		t.Fatalf("PlayerScores() failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("Expected no scores, got %d", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty table, got %d", high)
	}

	store.SaveScore("alice", 1, 100, "win")
	store.SaveScore("bob", 1, 250, "win")

	if high, _ := store.HighScore(""); high != 250 {
		t.Errorf("Expected overall high 250, got %d", high)
	}
	if high, _ := store.HighScore("alice"); high != 100 {
		t.Errorf("Expected alice high 100, got %d", high)
	}
}

func TestStorePlayerStats(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore("alice", 1, 100, "game-over")
	store.SaveScore("alice", 4, 300, "timeout")
	store.SaveScore("bob", 2, 50, "quit")

	stats, err := store.PlayerStats("alice")
	if err != nil {
		t.Fatalf("PlayerStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.BestLevel != 4 || stats.TotalScore != 400 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("Expected average 200, got %v", stats.AvgScore)
	}

	empty, err := store.PlayerStats("nobody")
	if err != nil {
		t.Fatalf("PlayerStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected stats for unknown player: %+v", empty)
	}

	all, err := store.AllPlayerStats()
	if err != nil {
		t.Fatalf("AllPlayerStats() failed: %v", err)
	}
	if len(all) != 2 || all["bob"].HighScore != 50 {
		t.Errorf("unexpected aggregate stats: %+v", all)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore("alice", 1, 100, "win")

	if err := store.ClearScores(); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	scores, _ := store.TopScores(10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenStore("sqlite", filepath.Join(dir, "a.db"))
	if err != nil {
		t.Fatalf("OpenStore(sqlite) failed: %v", err)
	}
	store.Close()

	if _, err := OpenStore("mongo", "x"); err == nil {
		t.Error("expected error for unknown database type")
	}
	if _, err := OpenStore("postgres", ""); err == nil {
		t.Error("expected error for empty connection string")
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: dialectPostgres}
	got := pg.rebind("SELECT * FROM scores WHERE player = ? LIMIT ?")
	if got != "SELECT * FROM scores WHERE player = $1 LIMIT $2" {
		t.Errorf("rebind() = %q", got)
	}

	lite := &Store{dialect: dialectSQLite}
	if q := "WHERE a = ?"; lite.rebind(q) != q {
		t.Error("sqlite queries must not be rewritten")
	}
}

// TestPostgresStore runs against a live server when BOMBER_TEST_DATABASE_URL is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("BOMBER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("BOMBER_TEST_DATABASE_URL not set")
	}

	store, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("OpenPostgres() failed: %v", err)
	}
	defer store.Close()
	if err := store.ClearScores(); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	id, err := store.SaveScore("alice", 2, 400, "win")
	if err != nil || id == 0 {
		t.Fatalf("SaveScore() = %d, %v", id, err)
	}
	scores, err := store.PlayerScores("alice", 5)
	if err != nil || len(scores) != 1 || scores[0].Score != 400 {
		t.Errorf("PlayerScores() = %+v, %v", scores, err)
	}
	stats, err := store.PlayerStats("alice")
	if err != nil || stats.AvgScore != 400 {
		t.Errorf("PlayerStats() = %+v, %v", stats, err)
	}
}
