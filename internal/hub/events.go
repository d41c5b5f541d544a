package hub

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/vovakirdan/tui-bomber/internal/engine"
)

// Event is sent from the arena to a session. Every event marshals to the
// JSON document the client receives.
type Event interface {
	sessionEvent()
}

// Highscore is one row of the leaderboard, encoded as [name, score].
type Highscore struct {
	Name  string
	Score int
}

func (h Highscore) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{h.Name, h.Score})
}

func (h *Highscore) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("hub: highscore needs [name, score], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &h.Name); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &h.Score)
}

func (Highscore) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: "[name, score]"}
}

// InfoEvent is sent on join and to everyone watching when a game starts.
type InfoEvent struct {
	engine.Info
	Highscores []Highscore `json:"highscores"`
}

func (InfoEvent) sessionEvent() {}

// SnapshotEvent carries one tick of the running game.
type SnapshotEvent struct {
	engine.Snapshot
}

func (SnapshotEvent) sessionEvent() {}

// FinalScoreEvent is the last message a player receives.
type FinalScoreEvent struct {
	Score int `json:"score"`
}

func (FinalScoreEvent) sessionEvent() {}

// Message is sent from a transport to the arena.
type Message interface {
	arenaMessage()
}

// JoinPlayerMsg queues a registered session as a player.
type JoinPlayerMsg struct {
	SessionID SessionID
	Name      string
}

func (JoinPlayerMsg) arenaMessage() {}

// JoinViewerMsg subscribes a registered session to every game.
type JoinViewerMsg struct {
	SessionID SessionID
}

func (JoinViewerMsg) arenaMessage() {}

// KeyMsg forwards a command from the playing session.
type KeyMsg struct {
	SessionID SessionID
	Key       string
}

func (KeyMsg) arenaMessage() {}

// DisconnectMsg is sent when a connection goes away.
type DisconnectMsg struct {
	SessionID SessionID
}

func (DisconnectMsg) arenaMessage() {}
