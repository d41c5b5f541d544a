package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/engine"
	"github.com/vovakirdan/tui-bomber/internal/grid"
	"github.com/vovakirdan/tui-bomber/internal/hub"
)

// Messages produced by a RemoteConn.
type (
	remoteInfoMsg     hub.InfoEvent
	remoteSnapshotMsg engine.Snapshot
	remoteFinalMsg    hub.FinalScoreEvent
	remoteClosedMsg   struct{ err error }
)

type remoteCommand struct {
	Cmd  string `json:"cmd"`
	Name string `json:"name,omitempty"`
	Key  string `json:"key,omitempty"`
}

// RemoteConn is a WebSocket client of the game server.
type RemoteConn struct {
	conn   *websocket.Conn
	player bool
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex // serializes writers
}

// DialRemote connects to the server at baseURL (ws://host:port). With a
// name it joins the player queue, without one it watches.
func DialRemote(ctx context.Context, baseURL, name string) (*RemoteConn, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("tui: bad server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/viewer"
	if name != "" {
		u.Path = "/player"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot connect to %s: %w", u, err)
	}

	rc := &RemoteConn{
		conn:   conn,
		player: name != "",
		events: make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
	if err := rc.write(remoteCommand{Cmd: "join", Name: name}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tui: cannot join: %w", err)
	}
	go rc.readLoop()
	return rc, nil
}

func (rc *RemoteConn) readLoop() {
	defer close(rc.events)
	for {
		_, data, err := rc.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				err = nil
			}
			rc.emit(remoteClosedMsg{err: err})
			return
		}
		msg, err := decodeFrame(data)
		if err != nil {
			continue
		}
		if !rc.emit(msg) {
			return
		}
	}
}

func (rc *RemoteConn) emit(msg tea.Msg) bool {
	select {
	case rc.events <- msg:
		return true
	case <-rc.done:
		return false
	}
}

// decodeFrame tells the three server messages apart by their keys.
func decodeFrame(data []byte) (tea.Msg, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}

	switch {
	case keys["map"] != nil:
		var info hub.InfoEvent
		if err := json.Unmarshal(data, &info); err != nil {
			return nil, err
		}
		return remoteInfoMsg(info), nil
	case keys["step"] != nil:
		var snap engine.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, err
		}
		return remoteSnapshotMsg(snap), nil
	case len(keys) == 1 && keys["score"] != nil:
		var final hub.FinalScoreEvent
		if err := json.Unmarshal(data, &final); err != nil {
			return nil, err
		}
		return remoteFinalMsg(final), nil
	}
	return nil, errors.New("tui: unknown frame")
}

func (rc *RemoteConn) write(cmd remoteCommand) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.conn.WriteJSON(cmd)
}

// Key sends a command symbol. Viewers cannot send keys.
func (rc *RemoteConn) Key(key string) error {
	if !rc.player {
		return nil
	}
	return rc.write(remoteCommand{Cmd: "key", Key: key})
}

// Close ends the connection.
func (rc *RemoteConn) Close() error {
	rc.once.Do(func() { close(rc.done) })
	return rc.conn.Close()
}

func (rc *RemoteConn) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-rc.events
		if !ok {
			return nil
		}
		return msg
	}
}

// RemoteModel shows the server's current game and, for players, forwards
// key presses.
type RemoteModel struct {
	conn      *RemoteConn
	screen    *core.Screen
	keyMapper *KeyMapper

	info     *hub.InfoEvent
	snap     *engine.Snapshot
	final    *int
	closed   bool
	err      error
	quitting bool
}

// NewRemoteModel wraps an open connection.
func NewRemoteModel(conn *RemoteConn, width, height int) RemoteModel {
	return RemoteModel{
		conn:      conn,
		screen:    core.NewScreen(width, height),
		keyMapper: NewKeyMapper(),
	}
}

// Init starts listening for server messages.
func (m RemoteModel) Init() tea.Cmd {
	return m.conn.waitForEvent()
}

// Update handles server messages and key presses.
func (m RemoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, kind := m.keyMapper.MapKey(msg)
		switch kind {
		case GameKeyQuit, GameKeyBack:
			m.quitting = true
			m.conn.Close()
			return m, tea.Quit
		case GameKeyCommand:
			if err := m.conn.Key(cmd); err != nil {
				m.err = err
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case remoteInfoMsg:
		info := hub.InfoEvent(msg)
		m.info = &info
		m.snap = nil
		return m, m.conn.waitForEvent()

	case remoteSnapshotMsg:
		snap := engine.Snapshot(msg)
		m.snap = &snap
		return m, m.conn.waitForEvent()

	case remoteFinalMsg:
		score := msg.Score
		m.final = &score
		return m, m.conn.waitForEvent()

	case remoteClosedMsg:
		m.closed = true
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil
	}
	return m, nil
}

// View draws the last received frame.
func (m RemoteModel) View() string {
	if m.quitting {
		return ""
	}
	drawRemote(m.screen, m.info, m.snap)

	switch {
	case m.final != nil:
		mid := m.screen.Height() / 2
		m.screen.DrawTextCentered(mid-1, "Game Over", core.ColorBrightYellow)
		m.screen.DrawTextCentered(mid+1, fmt.Sprintf("Final Score: %d", *m.final), core.ColorWhite)
	case m.info != nil && m.snap == nil:
		drawHighscores(m.screen, m.info.Highscores)
	}

	if m.closed {
		status := "disconnected, press q to quit"
		if m.err != nil {
			status = "disconnected: " + m.err.Error()
		}
		m.screen.DrawTextColor(0, m.screen.Height()-1, status, core.ColorRed)
	}
	return RenderScreen(m.screen)
}

var ranks = []string{"1ST", "2ND", "3RD", "4TH", "5TH", "6TH", "7TH", "8TH", "9TH", "10TH"}

func drawHighscores(dst *core.Screen, scores []hub.Highscore) {
	top := dst.Height()/2 - len(scores)/2 - 2
	dst.DrawTextCentered(top, "HIGH SCORES", core.ColorBrightYellow)
	for i, hs := range scores {
		if i >= len(ranks) {
			break
		}
		line := fmt.Sprintf("%-5s %-16s %8d", ranks[i], hs.Name, hs.Score)
		dst.DrawTextCentered(top+2+i, line, core.ColorWhite)
	}
}

// drawRemote renders a snapshot on top of the info map. It mirrors the
// local renderer: HUD rows first, then a viewport following the avatar.
func drawRemote(dst *core.Screen, info *hub.InfoEvent, snap *engine.Snapshot) {
	const hud = 2
	dst.Clear()
	if info == nil {
		dst.DrawTextCentered(dst.Height()/2, "Connecting...", core.ColorGray)
		return
	}

	if snap != nil {
		dst.DrawTextColor(0, 0, fmt.Sprintf(" %s  Level %d  Score %d  Lives %d  Time %d",
			snap.Player, snap.Level, snap.Score, snap.Lives, max(0, snap.Timeout-snap.Step)), core.ColorWhite)
	} else {
		dst.DrawTextColor(0, 0, " Waiting for the next game", core.ColorGray)
	}
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}

	w, h := info.Size[0], info.Size[1]
	focus := [2]int{1, 1}
	if snap != nil {
		focus = snap.Bomberman
	}
	cols, rows := dst.Width(), dst.Height()-hud
	ox := core.Clamp(focus[0]-cols/2, 0, max(0, w-cols))
	oy := core.Clamp(focus[1]-rows/2, 0, max(0, h-rows))
	put := func(p [2]int, r rune, c core.Color) {
		dst.SetCell(p[0]-ox, p[1]-oy+hud, r, c)
	}

	for x, col := range info.Map {
		for y, t := range col {
			switch grid.Tile(t) {
			case grid.Stone:
				put([2]int{x, y}, '█', core.ColorGray)
			case grid.Wall:
				if snap == nil {
					put([2]int{x, y}, '▒', core.ColorOrange)
				}
			}
		}
	}
	if snap == nil {
		return
	}

	for _, p := range snap.Walls {
		put(p, '▒', core.ColorOrange)
	}
	if len(snap.Exit) == 2 {
		put([2]int{snap.Exit[0], snap.Exit[1]}, 'E', core.ColorGreen)
	}
	for _, pu := range snap.Powerups {
		put(pu.Pos, '+', core.ColorCyan)
	}
	for _, b := range snap.Bombs {
		put(b.Pos, '*', core.ColorBrightRed)
	}
	for _, e := range snap.Enemies {
		r := '?'
		for _, c := range e.Name {
			r = c
			break
		}
		put(e.Pos, r, core.ColorMagenta)
	}
	put(snap.Bomberman, '@', core.ColorBrightYellow)
}

// RunRemote plays or watches a game on the server at baseURL.
func RunRemote(ctx context.Context, baseURL, name string, width, height int) error {
	conn, err := DialRemote(ctx, baseURL, name)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = tea.NewProgram(NewRemoteModel(conn, width, height), tea.WithAltScreen()).Run()
	return err
}
