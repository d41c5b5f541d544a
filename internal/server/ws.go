package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-bomber/internal/hub"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

type role string

const (
	rolePlayer role = "player"
	roleViewer role = "viewer"
)

// command is what clients send: {"cmd":"join","name":"..."} or
// {"cmd":"key","key":"w"}.
type command struct {
	Cmd  string `json:"cmd"`
	Name string `json:"name,omitempty"`
	Key  string `json:"key,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	session *hub.ChannelSession
	arena   *hub.Arena
	role    role
	joined  bool
	logger  *log.Logger
}

func (s *Server) servePlayer(w http.ResponseWriter, r *http.Request) {
	s.serveWS(w, r, rolePlayer)
}

func (s *Server) serveViewer(w http.ResponseWriter, r *http.Request) {
	s.serveWS(w, r, roleViewer)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request, rl role) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	id := hub.SessionID(uuid.NewString())
	session := hub.NewChannelSession(id, sendBuffer)
	s.sessions.Register(session)

	c := &client{
		conn:    conn,
		session: session,
		arena:   s.arena,
		role:    rl,
		logger:  s.logger.With("session", id, "role", rl),
	}
	c.logger.Debug("connected", "remote", r.RemoteAddr)

	go c.writePump()
	c.readPump()
}

// readPump forwards client commands to the arena until the connection drops.
func (c *client) readPump() {
	defer func() {
		c.arena.Send(hub.DisconnectMsg{SessionID: c.session.ID()})
		c.session.Close()
		c.conn.Close()
		c.logger.Debug("disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", "err", err)
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.logger.Debug("malformed command", "err", err)
			continue
		}
		c.handle(cmd)
	}
}

func (c *client) handle(cmd command) {
	switch cmd.Cmd {
	case "join":
		if c.joined {
			return
		}
		c.joined = true
		if c.role == rolePlayer {
			c.logger.Info("join", "name", cmd.Name)
			c.arena.Send(hub.JoinPlayerMsg{SessionID: c.session.ID(), Name: cmd.Name})
			return
		}
		c.arena.Send(hub.JoinViewerMsg{SessionID: c.session.ID()})

	case "key":
		if c.role != rolePlayer || !c.joined {
			return
		}
		c.arena.Send(hub.KeyMsg{SessionID: c.session.ID(), Key: firstChar(cmd.Key)})

	default:
		c.logger.Debug("unknown command", "cmd", cmd.Cmd)
	}
}

func firstChar(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// writePump is the only writer on the connection. When the session closes,
// buffered events are flushed before the close frame so a player always
// receives its final score.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt := <-c.session.Events():
			if err := c.write(evt); err != nil {
				c.logger.Debug("write failed", "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.session.Done():
			c.flush()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *client) flush() {
	for {
		select {
		case evt := <-c.session.Events():
			if err := c.write(evt); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *client) write(evt hub.Event) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(evt)
}
