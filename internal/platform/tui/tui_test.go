package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bomber/internal/actor"
	"github.com/vovakirdan/tui-bomber/internal/config"
	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/engine"
	"github.com/vovakirdan/tui-bomber/internal/grid"
	"github.com/vovakirdan/tui-bomber/internal/hub"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

type memStore struct {
	saved []storage.ScoreEntry
}

func (s *memStore) SaveScore(player string, level, score int, outcome string) (int64, error) {
	s.saved = append(s.saved, storage.ScoreEntry{Player: player, Level: level, Score: score, Outcome: outcome})
	return int64(len(s.saved)), nil
}

func (s *memStore) TopScores(limit int) ([]storage.ScoreEntry, error) { return s.saved, nil }

func (s *memStore) PlayerScores(player string, limit int) ([]storage.ScoreEntry, error) {
	return s.saved, nil
}

func (s *memStore) HighScore(player string) (int, error) { return 0, nil }

func (s *memStore) PlayerStats(player string) (*storage.PlayerStats, error) {
	return &storage.PlayerStats{Player: player, GamesCount: len(s.saved)}, nil
}

func (s *memStore) Close() error { return nil }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func smallEngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Width, cfg.Height = 13, 13
	cfg.Seed = 11
	cfg.Timeout = 4
	cfg.Grid = grid.Options{WallThreshold: 40}
	cfg.Levels = []engine.Level{{Enemies: []actor.Species{actor.Balloom}, Reward: actor.Flames}}
	return cfg
}

func newTestGame(t *testing.T, store storage.ScoreStore) GameModel {
	t.Helper()
	m, err := NewGameModel(smallEngineConfig(), "tester", store, nil, 40, 20)
	if err != nil {
		t.Fatalf("NewGameModel() failed: %v", err)
	}
	return m
}

func update(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		cmd  string
		kind GameKey
	}{
		{"w", keyRunes("w"), "w", GameKeyCommand},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, "w", GameKeyCommand},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, "a", GameKeyCommand},
		{"s", keyRunes("s"), "s", GameKeyCommand},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, "d", GameKeyCommand},
		{"b places", keyRunes("b"), "B", GameKeyCommand},
		{"space places", tea.KeyMsg{Type: tea.KeySpace}, "B", GameKeyCommand},
		{"x detonates", keyRunes("x"), "A", GameKeyCommand},
		{"restart", keyRunes("r"), "", GameKeyRestart},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, "", GameKeyBack},
		{"q", keyRunes("q"), "", GameKeyQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, "", GameKeyQuit},
		{"unmapped", keyRunes("z"), "", GameKeyNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, kind := km.MapKey(tc.msg)
			if cmd != tc.cmd || kind != tc.kind {
				t.Errorf("MapKey() = %q, %v, expected %q, %v", cmd, kind, tc.cmd, tc.kind)
			}
		})
	}
}

func TestGameModelMovesOnTick(t *testing.T) {
	m := newTestGame(t, nil)

	next := update(t, m, keyRunes("s"))
	next = update(t, next, TickMsg{})
	gm := next.(GameModel)
	if pos := gm.Engine().Snapshot().Bomberman; pos != [2]int{1, 2} {
		t.Errorf("expected avatar at [1 2], got %v", pos)
	}
	if !strings.Contains(gm.View(), "Level 1") {
		t.Error("view should show the HUD")
	}
}

func TestGameModelFinishAndRestart(t *testing.T) {
	store := &memStore{}
	var next tea.Model = newTestGame(t, store)
	for i := 0; i < 5; i++ {
		next = update(t, next, TickMsg{})
	}
	gm := next.(GameModel)
	if gm.Engine().Running() {
		t.Fatal("game should have timed out")
	}
	if !gm.saved || len(store.saved) != 0 {
		t.Errorf("a scoreless game is settled without a record, saved=%v records=%d", gm.saved, len(store.saved))
	}
	if !strings.Contains(gm.View(), "Game Over") {
		t.Error("view should show the game over overlay")
	}

	gm = update(t, gm, keyRunes("r")).(GameModel)
	if !gm.Engine().Running() || gm.saved {
		t.Error("restart should begin a fresh game")
	}
}

func TestGameModelSavesScoredGame(t *testing.T) {
	store := &memStore{}
	m := newTestGame(t, store)
	m.Engine().Stop()
	m.final.record(engine.ScoreEvent{Player: "tester", Level: 1, Score: 300, Outcome: engine.OutcomeQuit})

	gm := update(t, m, tea.KeyMsg{Type: tea.KeyEsc}).(GameModel)
	if !gm.BackToMenu() {
		t.Error("esc should return to the menu")
	}
	if len(store.saved) != 1 || store.saved[0].Score != 300 || store.saved[0].Outcome != "quit" {
		t.Errorf("unexpected saved scores %+v", store.saved)
	}
}

func TestGameModelQuit(t *testing.T) {
	m := newTestGame(t, nil)
	next, cmd := m.Update(keyRunes("q"))
	gm := next.(GameModel)
	if !gm.IsQuitting() || cmd == nil {
		t.Error("q should quit the program")
	}
	if gm.Engine().Running() {
		t.Error("quitting should stop the engine")
	}
	if gm.View() != "" {
		t.Error("quitting model renders nothing")
	}
}

func testSettings() Settings {
	gc := config.DefaultGameConfig()
	gc.Map.Width, gc.Map.Height = 13, 13
	gc.Map.WallThreshold = 40
	gc.Levels = []config.LevelConfig{{
		Reward:  "Flames",
		Enemies: []config.EnemyConfig{{Species: "Balloom", Count: 1}},
	}}
	return Settings{Game: gc, Difficulty: config.DifficultyNormal, Seed: 5}
}

func TestSessionModelFlow(t *testing.T) {
	var m tea.Model = NewSessionModel(testSettings(), &memStore{}, "tester", 60, 24)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sm := m.(SessionModel)
	if sm.game == nil {
		t.Fatalf("enter on Play should start a game, status %q", sm.status)
	}
	if sm.settings.Difficulty != config.DifficultyHard {
		t.Errorf("difficulty = %s, expected hard", sm.settings.Difficulty)
	}
	if lives := sm.game.Engine().Lives(); lives != 1 {
		t.Errorf("hard preset should leave 1 life, got %d", lives)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	sm = m.(SessionModel)
	if sm.game != nil {
		t.Fatal("esc should return to the menu")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sm = m.(SessionModel)
	if sm.board == nil {
		t.Fatal("enter on High Scores should open the scoreboard")
	}
	if !strings.Contains(sm.View(), "HIGH SCORES") {
		t.Error("scoreboard view should have a title")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.(SessionModel).board != nil {
		t.Fatal("esc should close the scoreboard")
	}

	next, cmd := m.Update(keyRunes("q"))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("q should quit from the menu")
	}
}

func TestSessionModelReportsBadConfig(t *testing.T) {
	settings := testSettings()
	settings.Game.Levels[0].Enemies[0].Species = "Goomba"

	var m tea.Model = NewSessionModel(settings, nil, "tester", 60, 24)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sm := m.(SessionModel)
	if sm.game != nil || sm.status == "" {
		t.Error("an invalid config should keep the menu open with an error")
	}
	if !strings.Contains(sm.View(), "error:") {
		t.Error("menu should show the error")
	}
}

func TestScoreboardToggle(t *testing.T) {
	store := &memStore{}
	store.SaveScore("tester", 2, 500, "win")
	m := NewScoreboardModel(store, "tester", 80, 24)
	if m.mine || len(m.scores) != 1 {
		t.Fatalf("expected global view with one score, got mine=%v scores=%d", m.mine, len(m.scores))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}).(ScoreboardModel)
	if !m.mine || m.stats == nil {
		t.Error("tab should switch to the player's own scores")
	}
	if !strings.Contains(m.View(), "HIGH SCORES - tester") {
		t.Error("personal view should name the player")
	}
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		check func(any) bool
	}{
		{"info", `{"size":[13,13],"map":[[1]],"fps":10,"timeout":3000,"lives":3,"score":0,"highscores":[["ann",10]]}`,
			func(m any) bool { i, ok := m.(remoteInfoMsg); return ok && i.FPS == 10 && len(i.Highscores) == 1 }},
		{"snapshot", `{"level":1,"step":2,"bomberman":[1,2],"bombs":[[[1,1],3.5,3]],"enemies":[],"walls":[],"powerups":[],"bonus":[],"exit":[]}`,
			func(m any) bool { s, ok := m.(remoteSnapshotMsg); return ok && s.Step == 2 && len(s.Bombs) == 1 }},
		{"final", `{"score":1200}`,
			func(m any) bool { f, ok := m.(remoteFinalMsg); return ok && f.Score == 1200 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := decodeFrame([]byte(tc.frame))
			if err != nil {
				t.Fatalf("decodeFrame() failed: %v", err)
			}
			if !tc.check(msg) {
				t.Errorf("unexpected message %#v", msg)
			}
		})
	}

	if _, err := decodeFrame([]byte(`{"hello":1}`)); err == nil {
		t.Error("expected error for unknown frame")
	}
}

func TestDrawRemote(t *testing.T) {
	info := &hub.InfoEvent{Info: engine.Info{Size: [2]int{5, 5}, Map: [][]int{
		{1, 1, 1, 1, 1},
		{1, 0, 0, 0, 1},
		{1, 0, 1, 0, 1},
		{1, 0, 0, 0, 1},
		{1, 1, 1, 1, 1},
	}}}
	snap := &engine.Snapshot{
		Player:    "ann",
		Bomberman: [2]int{3, 1},
		Enemies:   []engine.EnemyView{{Name: "Oneal", Pos: [2]int{1, 3}}},
	}

	screen := core.NewScreen(20, 10)
	drawRemote(screen, info, snap)
	if got := screen.Get(3, 3); got != '@' {
		t.Errorf("avatar cell = %q, expected '@'", got)
	}
	if got := screen.Get(1, 5); got != 'O' {
		t.Errorf("enemy cell = %q, expected 'O'", got)
	}
	if got := screen.Get(0, 2); got != '█' {
		t.Errorf("stone cell = %q", got)
	}
	if !strings.Contains(screen.Row(0), "ann") {
		t.Errorf("HUD should name the player: %q", screen.Row(0))
	}
}
