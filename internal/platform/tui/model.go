package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/engine"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

// finalScore is filled by the engine's score callback. It is shared by every
// copy of a GameModel.
type finalScore struct {
	event *engine.ScoreEvent
}

func (f *finalScore) record(ev engine.ScoreEvent) {
	if ev.Outcome.Final() {
		f.event = &ev
	}
}

// GameModel plays one engine in the terminal, ticking with tea.Tick.
type GameModel struct {
	eng       *engine.Engine
	cfg       engine.Config
	player    string
	screen    *core.Screen
	store     storage.ScoreStore
	logger    *log.Logger
	keyMapper *KeyMapper
	final     *finalScore

	quitting   bool
	backToMenu bool
	saved      bool
}

// NewGameModel creates a started game for player. store may be nil.
func NewGameModel(cfg engine.Config, player string, store storage.ScoreStore, logger *log.Logger, width, height int) (GameModel, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := GameModel{
		cfg:       cfg,
		player:    player,
		screen:    core.NewScreen(width, height),
		store:     store,
		logger:    logger,
		keyMapper: NewKeyMapper(),
	}
	if err := m.newGame(); err != nil {
		return GameModel{}, err
	}
	return m, nil
}

func (m *GameModel) newGame() error {
	final := &finalScore{}
	eng, err := engine.New(m.cfg,
		engine.WithLogger(m.logger),
		engine.WithScoreFunc(final.record),
	)
	if err != nil {
		return err
	}
	if err := eng.Start(m.player); err != nil {
		return err
	}
	m.eng = eng
	m.final = final
	m.saved = false
	return nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.cfg.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	cmd, kind := m.keyMapper.MapKey(msg)
	switch kind {
	case GameKeyQuit:
		m.abandon()
		m.quitting = true
		return m, tea.Quit

	case GameKeyBack:
		m.abandon()
		m.backToMenu = true
		return m, nil

	case GameKeyRestart:
		if m.eng.Running() {
			return m, nil
		}
		m.cfg.Seed = time.Now().UnixNano()
		if err := m.newGame(); err != nil {
			m.logger.Error("cannot restart", "err", err)
		}
		return m, nil

	case GameKeyCommand:
		_ = m.eng.Keypress(cmd)
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}
	if m.eng.Running() {
		m.eng.Tick()
	}
	m.saveScore()
	return m, tickCmd(m.cfg.TickRate)
}

// abandon stops a running game so its score is reported and saved.
func (m *GameModel) abandon() {
	if m.eng.Running() {
		m.eng.Stop()
	}
	m.saveScore()
}

// saveScore persists the final result once. Empty games are not recorded.
func (m *GameModel) saveScore() {
	ev := m.final.event
	if m.saved || ev == nil {
		return
	}
	m.saved = true
	if m.store == nil || ev.Score == 0 {
		return
	}
	if _, err := m.store.SaveScore(ev.Player, ev.Level, ev.Score, ev.Outcome.String()); err != nil {
		m.logger.Error("cannot save score", "player", ev.Player, "err", err)
	}
}

// saveScreenshot writes the current frame to ~/.bomber/screenshots.
func (m *GameModel) saveScreenshot() {
	m.eng.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".bomber", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.player, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.eng.Render(m.screen)
	return RenderScreen(m.screen)
}

// Engine exposes the running engine.
func (m GameModel) Engine() *engine.Engine {
	return m.eng
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
