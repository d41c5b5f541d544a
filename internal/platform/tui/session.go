package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bomber/internal/config"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

// Settings is what a session needs to build games.
type Settings struct {
	Game       config.GameConfig
	Difficulty config.DifficultyPreset
	Seed       int64 // 0 means a new random seed per game
	Logger     *log.Logger
}

// SessionModel manages the full flow: menu -> game or scores -> menu.
// Local play and every SSH connection run one of these.
type SessionModel struct {
	settings Settings
	store    storage.ScoreStore
	player   string
	width    int
	height   int

	menu     MenuModel
	game     *GameModel
	board    *ScoreboardModel
	status   string
	quitting bool
}

// NewSessionModel creates a session for player. store may be nil.
func NewSessionModel(settings Settings, store storage.ScoreStore, player string, width, height int) SessionModel {
	if settings.Logger == nil {
		settings.Logger = log.New(io.Discard)
	}
	return SessionModel{
		settings: settings,
		store:    store,
		player:   player,
		width:    width,
		height:   height,
		menu:     NewMenuModel(player, settings.Difficulty, width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.board != nil:
		return m.updateBoard(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch m.menu.Chosen() {
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit

	case ChoicePlay:
		m.settings.Difficulty = m.menu.Difficulty()
		game, err := m.newGame()
		if err != nil {
			m.settings.Logger.Error("cannot start game", "player", m.player, "err", err)
			m.status = err.Error()
			m.menu = NewMenuModel(m.player, m.settings.Difficulty, m.width, m.height)
			return m, nil
		}
		m.status = ""
		m.game = &game
		return m, game.Init()

	case ChoiceScores:
		m.settings.Difficulty = m.menu.Difficulty()
		board := NewScoreboardModel(m.store, m.player, m.width, m.height)
		m.board = &board
		return m, board.Init()
	}
	return m, cmd
}

func (m SessionModel) newGame() (GameModel, error) {
	gc := m.settings.Game
	config.ApplyPreset(&gc, m.settings.Difficulty)
	cfg, err := gc.EngineConfig(m.settings.Seed)
	if err != nil {
		return GameModel{}, err
	}
	return NewGameModel(cfg, m.player, m.store, m.settings.Logger, m.width, m.height)
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.game = nil
		m.menu = NewMenuModel(m.player, m.settings.Difficulty, m.width, m.height)
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.board.Update(msg)
	if board, ok := newModel.(ScoreboardModel); ok {
		m.board = &board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		m.board = nil
		m.menu = NewMenuModel(m.player, m.settings.Difficulty, m.width, m.height)
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.game != nil:
		return m.game.View()
	case m.board != nil:
		return m.board.View()
	}
	view := m.menu.View()
	if m.status != "" {
		view += "\n" + centerText("error: "+m.status, m.width) + "\n"
	}
	return view
}

// Run plays a session in the current terminal.
func Run(settings Settings, store storage.ScoreStore, player string, width, height int) error {
	model := NewSessionModel(settings, store, player, width, height)
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
